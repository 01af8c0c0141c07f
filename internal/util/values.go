// Package util provides value conversion helpers for DICOM metadata export.
package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AsString coerces a flattened DICOM element payload to a single string.
// The parser stores single-valued elements as one-element slices, so
// multi-valued payloads yield their first value.
func AsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []string:
		if len(val) == 0 {
			return "", fmt.Errorf("empty string value")
		}
		return val[0], nil
	case int:
		return strconv.Itoa(val), nil
	case []int:
		if len(val) == 0 {
			return "", fmt.Errorf("empty integer value")
		}
		return strconv.Itoa(val[0]), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case []float64:
		if len(val) == 0 {
			return "", fmt.Errorf("empty float value")
		}
		return strconv.FormatFloat(val[0], 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("cannot represent %T as a string", v)
	}
}

// AsFloat coerces a flattened DICOM element payload to a float64. DICOM
// decimal and integer strings (DS/IS) are parsed; numeric payloads convert
// directly.
func AsFloat(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case []float64:
		if len(val) == 0 {
			return 0, fmt.Errorf("empty float value")
		}
		return val[0], nil
	case int:
		return float64(val), nil
	case []int:
		if len(val) == 0 {
			return 0, fmt.Errorf("empty integer value")
		}
		return float64(val[0]), nil
	case string:
		return parseFloatString(val)
	case []string:
		if len(val) == 0 {
			return 0, fmt.Errorf("empty string value")
		}
		return parseFloatString(val[0])
	default:
		return 0, fmt.Errorf("cannot convert %T to a number", v)
	}
}

func parseFloatString(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q as a number: %w", s, err)
	}
	return f, nil
}

// RoundHalfUp rounds f to the nearest integer, with halfway values rounding
// up. Study times are non-negative, so this matches rounding away from zero.
func RoundHalfUp(f float64) int64 {
	return int64(math.Floor(f + 0.5))
}
