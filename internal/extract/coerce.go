// Package extract normalizes raw provider payloads into the domain
// records the exporter consumes. Extractors coerce types, tolerate
// missing fields by leaving them nil and only fail when the payload
// shape itself is unrecognized.
package extract

import (
	"strconv"
	"strings"
	"time"
)

// parseNumber coerces a display string like "1.2B", "3.4M", "5,678" or
// "12.5%" into a float64. Returns nil for empty, "--" and "N/A".
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" || strings.Contains(s, "N/A") {
		return nil
	}

	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "T"):
		multiplier = 1e12
		s = strings.TrimSuffix(s, "T")
	case strings.HasSuffix(s, "B"):
		multiplier = 1e9
		s = strings.TrimSuffix(s, "B")
	case strings.HasSuffix(s, "M"):
		multiplier = 1e6
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "K"):
		multiplier = 1e3
		s = strings.TrimSuffix(s, "K")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v *= multiplier
	return &v
}

// unixDate converts unix seconds to a UTC day.
func unixDate(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// floatPtr returns a pointer to v.
func floatPtr(v float64) *float64 {
	return &v
}

// formatLargeCurrency renders a raw value the way the statistics sheet
// shows monetary amounts: $1.23B / $4.56M / $789.00.
func formatLargeCurrency(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e9:
		return "$" + strconv.FormatFloat(v/1e9, 'f', 2, 64) + "B"
	case abs >= 1e6:
		return "$" + strconv.FormatFloat(v/1e6, 'f', 2, 64) + "M"
	default:
		return "$" + strconv.FormatFloat(v, 'f', 2, 64)
	}
}

// formatPercent renders a ratio as a percentage. Values below 1 are
// treated as decimals (0.05 -> 5.00%), matching the provider's mixed
// conventions.
func formatPercent(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	if abs < 1 {
		v *= 100
	}
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

// formatRatio renders a plain two-decimal ratio.
func formatRatio(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
