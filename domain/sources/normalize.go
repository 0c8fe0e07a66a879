package sources

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var durationPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)([smhd])$`)

// NormalizeBool accepts booleans, numbers and the strings "true"/"t"/"1" and
// "false"/"f"/"0" in any case. Anything else yields fallback.
func NormalizeBool(value any, fallback bool) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(v) {
		case "true", "t", "1":
			return true
		case "false", "f", "0":
			return false
		}
		return fallback
	}
	if n, ok := numeric(value); ok {
		return n != 0
	}
	return fallback
}

// ParseDurationMinutes converts a compact duration such as "90s", "4h" or
// "1.5d" into whole minutes, rounding half up.
func ParseDurationMinutes(value any) (int, bool) {
	minutes, _, ok := parseDuration(value)
	return minutes, ok
}

// parseDuration also returns the unit letter the value was written in
func parseDuration(value any) (int, string, bool) {
	if value == nil {
		return 0, "", false
	}
	raw := strings.TrimSpace(fmt.Sprint(value))
	match := durationPattern.FindStringSubmatch(raw)
	if match == nil {
		return 0, "", false
	}
	magnitude, err := strconv.ParseFloat(match[1], 64)
	if err != nil || math.IsInf(magnitude, 0) {
		return 0, "", false
	}

	unit := strings.ToLower(match[2])
	var minutes float64
	switch unit {
	case "s":
		minutes = magnitude / 60
	case "m":
		minutes = magnitude
	case "h":
		minutes = magnitude * 60
	case "d":
		minutes = magnitude * 60 * 24
	}
	return int(roundHalfUp(minutes)), unit, true
}

// FormatMinutes renders minutes at the given granularity ("m", "h" or "d").
// The result is never below one unit.
func FormatMinutes(minutes int, granularity string) string {
	safe := max(1, minutes)
	switch granularity {
	case "h":
		return fmt.Sprintf("%dh", max(1, int(roundHalfUp(float64(safe)/60))))
	case "d":
		return fmt.Sprintf("%dd", max(1, int(roundHalfUp(float64(safe)/1440))))
	default:
		return fmt.Sprintf("%dm", safe)
	}
}

// FormatHours renders whole hours, never below one
func FormatHours(hours int) string {
	return fmt.Sprintf("%dh", max(1, hours))
}

// CoerceNumber converts numbers and numeric strings to float64. nil,
// unparsable and non-finite values yield fallback.
func CoerceNumber(value any, fallback float64) float64 {
	if value == nil {
		return fallback
	}
	var n float64
	switch v := value.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return fallback
		}
		n = parsed
	default:
		parsed, ok := numeric(value)
		if !ok {
			return fallback
		}
		n = parsed
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return fallback
	}
	return n
}

// CoerceInt is CoerceNumber rounded half up to an integer
func CoerceInt(value any, fallback int64) int64 {
	n := CoerceNumber(value, math.NaN())
	if math.IsNaN(n) {
		return fallback
	}
	return int64(roundHalfUp(n))
}

// ToList returns value when it is a list and an empty list otherwise
func ToList(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []map[string]any:
		list := make([]any, len(v))
		for i, item := range v {
			list[i] = item
		}
		return list
	default:
		return []any{}
	}
}

// StringOr returns value as a string, or fallback when it is nil
func StringOr(value any, fallback string) string {
	switch v := value.(type) {
	case nil:
		return fallback
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// nullable maps an empty optional string to SQL NULL
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
