package recon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"lakh grouping", "1234567.89", "₹12,34,567.89"},
		{"thousands", "1500", "₹1,500.00"},
		{"rounding", "99.999", "₹100.00"},
		{"zero", "0", "₹0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatINR(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatSGD(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"million grouping", "1234567.89", "S$1,234,567.89"},
		{"thousands", "1500", "S$1,500.00"},
		{"zero", "0", "S$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSGD(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.want, got)
		})
	}
}
