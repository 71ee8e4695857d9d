package utils

import (
	"strconv"
	"strings"
)

// ToInt64 converts various types to int64 using explicit type switching.
// It reports false when the value is not a whole number.
func ToInt64(val any) (int64, bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case uint32:
		return int64(v), true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return i, err == nil
	case []byte:
		return ToInt64(string(v))
	default:
		return 0, false
	}
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true", "yes").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, uint32, float64:
		i, ok := ToInt64(v)
		return ok && i == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}

// OptionalBool parses a flag that defaults to def when blank.
func OptionalBool(val string, def bool) bool {
	if strings.TrimSpace(val) == "" {
		return def
	}
	return ToBool(val)
}
