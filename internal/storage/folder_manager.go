// Package storage manages the on-disk layout for generated report
// exports.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// FolderManager organizes exported report files under a base directory,
// one folder per reporting period (e.g. exports/2025/06/).
type FolderManager struct {
	baseDir string
	logger  *zap.Logger
}

// NewFolderManager creates a folder manager rooted at baseDir.
func NewFolderManager(baseDir string, logger *zap.Logger) *FolderManager {
	return &FolderManager{baseDir: baseDir, logger: logger}
}

// PeriodFolder returns the folder for a reporting period, creating it
// if necessary. Month 0 means a yearly folder.
func (m *FolderManager) PeriodFolder(year, month int) (string, error) {
	if year <= 0 {
		return "", fmt.Errorf("cannot create period folder: invalid year %d", year)
	}

	path := filepath.Join(m.baseDir, fmt.Sprintf("%04d", year))
	if month > 0 {
		path = filepath.Join(path, fmt.Sprintf("%02d", month))
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		m.logger.Error("Failed to create period folder",
			zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	return path, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFileName makes a name safe for the filesystem: path
// separators and other unsafe characters collapse to underscores.
func (m *FolderManager) SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "report"
	}
	return name
}
