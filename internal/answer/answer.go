package answer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Normalize converts a raw answer value to its canonical comparison form.
// It never fails.
//
// Normalization rules:
// - nil becomes the empty string
// - Whitespace is trimmed
// - Comparison form is lower-case
// - Numbers use their shortest decimal form (3.0 -> "3", 2.5 -> "2.5")
// - Booleans become "true" / "false"
//
// Equivalent forms are NOT unified: "6/8" and "3/4" stay different, as do
// "2.50" and "2.5" when both are given as strings.
func Normalize(v any) string {
	return strings.ToLower(strings.TrimSpace(toString(v)))
}

// Matches reports whether candidate and canonical normalize to the same string.
func Matches(candidate, canonical any) bool {
	return Normalize(candidate) == Normalize(canonical)
}

// toString renders v the way the answer would appear as text in the UI.
func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatFloat(float64(x))
	case float64:
		return formatFloat(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return formatFloat(f)
		}
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// formatFloat prints f in its shortest round-trip form without exponent.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
