package fsutil

import (
	"slices"
	"strings"
)

// Property is one leaf of a flattened JSON object.
type Property struct {
	Path  []string // keys from the root, e.g. ["compilerOptions", "strict"]
	Value any
}

// String returns the path joined with ".", for display only. Keys may
// themselves contain dots, so the result cannot be split back into Path.
func (p Property) String() string {
	return strings.Join(p.Path, ".")
}

// Flatten walks obj and returns its leaf properties in sorted key order.
// Nested non-empty objects are descended into; arrays, scalars and empty
// objects are leaves.
func Flatten(obj map[string]any) []Property {
	var props []Property
	flatten(nil, obj, &props)
	return props
}

func flatten(prefix []string, obj map[string]any, out *[]Property) {
	for _, key := range sortedKeys(obj) {
		path := append(slices.Clone(prefix), key)
		if child, ok := obj[key].(map[string]any); ok && len(child) > 0 {
			flatten(path, child, out)
			continue
		}
		*out = append(*out, Property{Path: path, Value: obj[key]})
	}
}

// Lookup resolves the key path in obj. It reports false when any key is
// absent or an intermediate value is not an object.
func Lookup(obj map[string]any, path ...string) (any, bool) {
	var cur any = obj
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Truthy reports whether v counts as present: everything except nil, false,
// numeric zero and the empty string.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case float32:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}

// HasProperty reports whether path resolves to a truthy value in obj.
func HasProperty(obj map[string]any, path ...string) bool {
	v, ok := Lookup(obj, path...)
	return ok && Truthy(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
