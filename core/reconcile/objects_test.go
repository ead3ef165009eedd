package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual_Primitives(t *testing.T) {
	tests := []struct {
		name  string
		a, b  any
		equal bool
	}{
		{"same string", "a", "a", true},
		{"different string", "a", "b", false},
		{"int and float", 1, 1.0, true},
		{"different numbers", 1, 2, false},
		{"bools", true, true, true},
		{"bool and string", true, "true", false},
		{"nil and nil", nil, nil, true},
		{"nil and empty string", nil, "", false},
		{"undefined and undefined", Undefined, Undefined, true},
		{"undefined and nil", Undefined, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Equal(tt.a, tt.b))
		})
	}
}

func TestEqual_Structural(t *testing.T) {
	a := map[string]any{"a": 1, "b": []int{1, 2}}
	b := map[string]any{"b": []any{1.0, 2.0}, "a": 1.0}
	assert.True(t, Equal(a, b))

	b["a"] = 2.0
	assert.False(t, Equal(a, b))
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue("")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	v, err = ParseValue(`{"a":[1,true]}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{1.0, true}}, v)

	_, err = ParseValue("{broken")
	assert.Error(t, err)
}

func TestDiffObject(t *testing.T) {
	original := map[string]any{
		"same":    1.0,
		"changed": "old",
		"onlyOld": true,
		"nested":  map[string]any{"a": 1.0, "b": 2.0},
		"list":    []any{1.0, 2.0},
	}
	other := map[string]any{
		"same":    1,
		"changed": "new",
		"added":   "x",
		"nested":  map[string]any{"a": 1.0, "b": 3.0},
		"list":    []any{1.0, 2.0},
	}

	diff := DiffObject(original, other)

	assert.Equal(t, map[string]any{
		"changed": "new",
		"added":   "x",
		"nested":  map[string]any{"b": 3.0},
	}, diff)
	assert.NotContains(t, diff, "onlyOld")
}

func TestDiffObject_TypeAndEmptiness(t *testing.T) {
	diff := DiffObject(
		map[string]any{"a": "1", "b": map[string]any{"x": 1.0}},
		map[string]any{"a": 1.0, "b": map[string]any{}},
	)
	assert.Equal(t, map[string]any{"a": 1.0, "b": map[string]any{}}, diff)
}

func TestMergeObject(t *testing.T) {
	dst := map[string]any{"a": map[string]any{"x": 1.0, "y": 2.0}, "b": "keep"}
	src := map[string]any{"a": map[string]any{"y": 3.0}, "c": true}

	merged := MergeObject(dst, src)

	assert.Equal(t, map[string]any{
		"a": map[string]any{"x": 1.0, "y": 3.0},
		"b": "keep",
		"c": true,
	}, merged)
	assert.Equal(t, map[string]any{"k": 1}, MergeObject(nil, map[string]any{"k": 1}))
}
