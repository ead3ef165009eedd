package reconcile

import (
	"reflect"
	"sort"

	"github.com/goccy/go-json"
)

// ParseValue decodes a serialized setting value.
// An empty string is returned as-is, matching how unset values are stored.
func ParseValue(raw string) (any, error) {
	if raw == "" {
		return raw, nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Equal reports whether two values are equal by value.
// Numbers are compared numerically regardless of their Go type and
// objects/arrays are compared structurally.
func Equal(a, b any) bool {
	if IsUndefined(a) || IsUndefined(b) {
		return IsUndefined(a) && IsUndefined(b)
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// AsObject returns v as a JSON object if it is one.
// A map[string]any is returned without copying so callers may mutate it in place.
func AsObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	m, ok := normalize(v).(map[string]any)
	return m, ok
}

// IsEmpty reports whether an object has no keys.
func IsEmpty(m map[string]any) bool {
	return len(m) == 0
}

// DiffObject returns the entries of other that differ from original.
// Nested objects are reduced to their differing keys. Keys that exist only in
// original are not reported.
func DiffObject(original, other map[string]any) map[string]any {
	diff := make(map[string]any)
	for key, v1 := range other {
		v0, ok := original[key]
		if !ok {
			v0 = Undefined
		}
		if different, d := difference(v0, v1); different {
			diff[key] = d
		}
	}
	return diff
}

func difference(v0, v1 any) (bool, any) {
	t0, t1 := typeOf(v0), typeOf(v1)
	if t0 != t1 {
		return true, v1
	}
	switch t0 {
	case "array":
		return !Equal(v0, v1), v1
	case "object":
		m0, _ := AsObject(v0)
		m1, _ := AsObject(v1)
		if IsEmpty(m0) != IsEmpty(m1) {
			return true, v1
		}
		d := DiffObject(m0, m1)
		return !IsEmpty(d), d
	}
	return !Equal(v0, v1), v1
}

// MergeObject merges src into dst recursively and returns dst.
// Nested objects are merged key by key; any other value in src replaces the one in dst.
func MergeObject(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, v := range src {
		srcObj, srcIsObj := v.(map[string]any)
		dstObj, dstIsObj := dst[key].(map[string]any)
		if srcIsObj && dstIsObj {
			dst[key] = MergeObject(dstObj, srcObj)
			continue
		}
		dst[key] = v
	}
	return dst
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func typeOf(v any) string {
	if IsUndefined(v) {
		return "undefined"
	}
	switch normalize(v).(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return "unknown"
	}
}

// normalize converts v into the shape produced by decoding JSON into any,
// so values read from typed models compare equal to decoded snapshot values.
func normalize(v any) any {
	switch t := v.(type) {
	case nil, string, bool, float64:
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case map[string]any:
		if t == nil {
			return nil
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case []any:
		if t == nil {
			return nil
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	}
	return v
}
