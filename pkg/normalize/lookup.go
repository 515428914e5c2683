package normalize

import "strings"

// Lookup finds the first present key in m, trying each candidate key
// exactly, then lower-cased, then case-insensitively against every key
// in the map. Vendors disagree on casing conventions; this keeps the
// per-vendor mappers short.
func Lookup(m map[string]any, keys ...string) (any, bool) {
	if m == nil {
		return nil, false
	}
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	for _, k := range keys {
		lk := strings.ToLower(k)
		for mk, v := range m {
			if strings.ToLower(mk) == lk {
				return v, true
			}
		}
	}
	return nil, false
}

// Str looks up a key and renders it as a string
func Str(m map[string]any, keys ...string) string {
	v, ok := Lookup(m, keys...)
	if !ok {
		return ""
	}
	return ToString(v)
}

// F64 looks up a key and coerces it to a 2-decimal amount
func F64(m map[string]any, keys ...string) float64 {
	v, ok := Lookup(m, keys...)
	if !ok {
		return 0
	}
	return Amount(v)
}

// IntOf looks up a key and coerces it to an int
func IntOf(m map[string]any, keys ...string) int {
	v, ok := Lookup(m, keys...)
	if !ok {
		return 0
	}
	return Int(v)
}

// Map looks up a key expecting a nested object
func Map(m map[string]any, keys ...string) map[string]any {
	v, ok := Lookup(m, keys...)
	if !ok {
		return nil
	}
	nested, _ := v.(map[string]any)
	return nested
}

// Slice looks up a key expecting an array
func Slice(m map[string]any, keys ...string) []any {
	v, ok := Lookup(m, keys...)
	if !ok {
		return nil
	}
	items, _ := v.([]any)
	return items
}
