package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FormatSize formats a byte count as B, KB or MB. Anything from one
// mebibyte upwards is reported in MB.
func FormatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
	}
}

// ParseID parses a backend integer identifier given on the command line
func ParseID(str string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", str)
	}
	return id, nil
}

// Truncate shortens s to at most max runes, marking the cut with an ellipsis
func Truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

// FirstLine returns the first non-empty line of s
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ReportFileName is the name a downloaded report is saved under
func ReportFileName(reportID int64) string {
	return fmt.Sprintf("report_%d.bin", reportID)
}

// WriteReportFile saves report data into dir and returns the file path
func WriteReportFile(dir string, reportID int64, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}
	path := filepath.Join(dir, ReportFileName(reportID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
