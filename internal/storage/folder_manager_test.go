package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFolderManager_PeriodFolder(t *testing.T) {
	base := t.TempDir()
	m := NewFolderManager(base, zap.NewNop())

	path, err := m.PeriodFolder(2025, 6)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "2025", "06"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFolderManager_YearlyFolder(t *testing.T) {
	base := t.TempDir()
	m := NewFolderManager(base, zap.NewNop())

	path, err := m.PeriodFolder(2025, 0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "2025"), path)
}

func TestFolderManager_InvalidYear(t *testing.T) {
	m := NewFolderManager(t.TempDir(), zap.NewNop())

	_, err := m.PeriodFolder(0, 6)
	assert.Error(t, err)
}

func TestFolderManager_SanitizeFileName(t *testing.T) {
	m := NewFolderManager(t.TempDir(), zap.NewNop())

	tests := []struct {
		in   string
		want string
	}{
		{"monthly 2025-06", "monthly_2025-06"},
		{"../../etc/passwd", "etc_passwd"},
		{"  report  ", "report"},
		{"///", "report"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, m.SanitizeFileName(tt.in), "input %q", tt.in)
	}
}
