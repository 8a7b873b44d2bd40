package core

import (
	"fmt"
	"math"
	"time"
)

// Normalize converts a decoded YAML value into the plain JSON data model:
// map[string]any, []any, string, bool, int, float64 and nil.
// Mappings with non-string keys get their keys formatted with %v.
func Normalize(val any) any {
	switch v := val.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = Normalize(val)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[fmt.Sprintf("%v", k)] = Normalize(val)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			l[i] = Normalize(val)
		}
		return l
	case int64:
		if v >= math.MinInt && v <= math.MaxInt {
			return int(v)
		}
		return float64(v)
	case int32:
		return int(v)
	case uint64:
		if v <= math.MaxInt {
			return int(v)
		}
		return float64(v)
	case uint:
		if v <= math.MaxInt {
			return int(v)
		}
		return float64(v)
	case float32:
		return float64(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case []byte:
		return string(v)
	default:
		return v
	}
}
