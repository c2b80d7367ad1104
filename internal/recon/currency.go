package recon

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printerIN = message.NewPrinter(language.MustParse("en-IN"))
	printerSG = message.NewPrinter(language.MustParse("en-SG"))
)

// FormatINR renders an amount in Indian rupee notation with lakh/crore
// digit grouping and two decimal places. Presentation only; amounts are
// never stored formatted.
func FormatINR(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return printerIN.Sprintf("₹%.2f", f)
}

// FormatSGD renders an amount in Singapore dollar notation with two
// decimal places.
func FormatSGD(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return printerSG.Sprintf("S$%.2f", f)
}
