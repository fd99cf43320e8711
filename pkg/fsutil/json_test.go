package fsutil

import (
	"reflect"
	"testing"
)

func TestFlatten(t *testing.T) {
	obj := map[string]any{
		"compilerOptions": map[string]any{
			"strict": true,
			"paths":  map[string]any{},
			"lib":    []any{"ES2020"},
		},
		"include": []any{"./src/**/*.ts"},
		"extends": "base",
	}

	var paths [][]string
	for _, p := range Flatten(obj) {
		paths = append(paths, p.Path)
	}
	want := [][]string{
		{"compilerOptions", "lib"},
		{"compilerOptions", "paths"},
		{"compilerOptions", "strict"},
		{"extends"},
		{"include"},
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Flatten paths = %v, want %v", paths, want)
	}
}

func TestFlattenDottedKeys(t *testing.T) {
	obj := map[string]any{
		"compilerOptions": map[string]any{
			"paths": map[string]any{
				"./lib.js": []any{"src/lib.ts"},
				"@app/*":   []any{"src/app/*"},
			},
		},
	}

	props := Flatten(obj)
	if len(props) != 2 {
		t.Fatalf("Flatten returned %d properties, want 2", len(props))
	}
	p := props[0]
	if want := []string{"compilerOptions", "paths", "./lib.js"}; !reflect.DeepEqual(p.Path, want) {
		t.Errorf("Path = %q, want %q", p.Path, want)
	}
	if got := p.String(); got != "compilerOptions.paths../lib.js" {
		t.Errorf("String() = %q", got)
	}
	if !HasProperty(obj, p.Path...) {
		t.Errorf("%q should resolve in its own document", p.Path)
	}
}

func TestFlattenPathsAreIndependent(t *testing.T) {
	obj := map[string]any{
		"a": map[string]any{"b": 1.0, "c": 2.0, "d": 3.0, "e": 4.0},
	}
	props := Flatten(obj)
	for i, key := range []string{"b", "c", "d", "e"} {
		if want := []string{"a", key}; !reflect.DeepEqual(props[i].Path, want) {
			t.Errorf("props[%d].Path = %v, want %v", i, props[i].Path, want)
		}
	}
}

func TestFlattenEmpty(t *testing.T) {
	if got := Flatten(map[string]any{}); len(got) != 0 {
		t.Errorf("Flatten({}) = %v, want empty", got)
	}
}

func TestLookup(t *testing.T) {
	obj := map[string]any{
		"a":      map[string]any{"b": 1.0},
		"s":      "scalar",
		"a.b":    "dotted",
		"nested": map[string]any{"x.y": true},
	}

	tests := []struct {
		name  string
		path  []string
		want  any
		found bool
	}{
		{"nested", []string{"a", "b"}, 1.0, true},
		{"object", []string{"a"}, map[string]any{"b": 1.0}, true},
		{"absent child", []string{"a", "c"}, nil, false},
		{"scalar parent is absent", []string{"s", "x"}, nil, false},
		{"missing", []string{"missing"}, nil, false},
		{"dotted key", []string{"a.b"}, "dotted", true},
		{"nested dotted key", []string{"nested", "x.y"}, true, true},
		{"dotted key is not split", []string{"nested", "x", "y"}, nil, false},
		{"empty path", nil, obj, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Lookup(obj, tt.path...)
			if found != tt.found || !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lookup(%q) = %v, %v; want %v, %v", tt.path, got, found, tt.want, tt.found)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"zero", 0.0, false},
		{"int zero", 0, false},
		{"number", 1.5, true},
		{"empty string", "", false},
		{"string", "x", true},
		{"empty object", map[string]any{}, true},
		{"empty array", []any{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.value); got != tt.want {
				t.Errorf("Truthy(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestHasProperty(t *testing.T) {
	obj := map[string]any{
		"name":    "pkg",
		"version": "",
		"a":       map[string]any{},
	}
	if !HasProperty(obj, "name") {
		t.Error("name should be present")
	}
	if HasProperty(obj, "version") {
		t.Error("empty version should count as missing")
	}
	if !HasProperty(obj, "a") {
		t.Error("empty object should count as present")
	}
	if HasProperty(obj, "a", "b") {
		t.Error("a.b should be missing")
	}
}
