package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates files under dir. Names may contain
// slashes; parent directories are created as needed.
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// CreateBillFolder lays out a small bill folder: two months of PDFs, a
// photographed receipt and a hidden file.
func CreateBillFolder(t *testing.T, dir string) {
	t.Helper()
	CreateTestFilesWithContent(t, dir, map[string]string{
		"2024-01/power.pdf":   "%PDF-1.4 power",
		"2024-01/water.pdf":   "%PDF-1.4 water",
		"2024-02/gas.pdf":     "%PDF-1.4 gas",
		"receipts/taxi.txt":   "taxi 12.50",
		".hidden/skipped.pdf": "%PDF-1.4 hidden",
	})
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
