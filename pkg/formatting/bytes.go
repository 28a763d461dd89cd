// Package formatting provides parsing helpers for model responses and
// human-readable byte sizes.
package formatting

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var units = []string{"B", "KB", "MB", "GB", "TB", "PB"}

var sizePattern = regexp.MustCompile(`^(\d+\.?\d*)\s*([A-Za-z]*)$`)

// FormatBytes renders a byte count with base-1024 units, e.g. 1536 -> "1.5 KB".
// Negative precision is clamped to zero.
func FormatBytes(n int64, precision int) string {
	if n == 0 {
		return "0 B"
	}
	if precision < 0 {
		precision = 0
	}

	size := float64(n)
	idx := 0
	for size >= 1024 && idx < len(units)-1 {
		size /= 1024
		idx++
	}

	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[idx]
}

// ParseBytes parses a byte size string such as "50MB" or "1.5 GB" into a byte
// count (base-1024). Unit matching is case-insensitive; a bare number means
// bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	unit := strings.ToUpper(matches[2])
	if unit == "" {
		return int64(value), nil
	}

	mult := float64(1)
	found := false
	for _, u := range units {
		if u == unit {
			found = true
			break
		}
		mult *= 1024
	}
	if !found {
		return 0, fmt.Errorf("unknown byte size unit: %q", unit)
	}

	return int64(value * mult), nil
}
