package parsing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// String coerces a decoded JSON value to a trimmed string.
// nil becomes "", scalars use their natural text form, objects and arrays are re-encoded as JSON.
func String(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case bool:
		return strconv.FormatBool(value)
	case map[string]any, []any:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(data)
	}

	var out string
	if err := mapstructure.WeakDecode(v, &out); err != nil {
		return strings.TrimSpace(fmt.Sprint(v))
	}
	return strings.TrimSpace(out)
}

// StringSlice coerces a decoded JSON array to a slice of strings.
// Anything that is not an array yields an empty, non-nil slice.
func StringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, String(item))
	}
	return out
}

// Objects returns the array elements of v, or nil when v is not an array.
// Elements that are not objects are returned as nil maps so callers keep positions.
func Objects(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		out = append(out, obj)
	}
	return out
}

// ClampInt coerces v to a number, clamps it into [lo, hi] and rounds it.
// Values that are not numeric ("abc", null, objects) count as 0 before clamping.
func ClampInt(v any, lo, hi int) int {
	var f float64
	if err := mapstructure.WeakDecode(v, &f); err != nil || math.IsNaN(f) {
		f = 0
	}
	f = math.Max(float64(lo), math.Min(float64(hi), f))
	return int(math.Round(f))
}
