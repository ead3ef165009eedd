package utils

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{nil, 0},
		{4, 4},
		{int64(3), 3},
		{4.0, 4},
		{2.9, 2},
		{json.Number("4"), 4},
		{json.Number("1.5"), 1},
		{"3", 3},
		{" 2.0 ", 2},
		{"gamemaster", 0},
		{true, 1},
		{[]byte("7"), 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToInt(tt.in), "%#v", tt.in)
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "#ff0000", ToString("#ff0000"))
	assert.Equal(t, "abc", ToString([]byte("abc")))
	assert.Equal(t, "4", ToString(4.0))
	assert.Equal(t, "0.25", ToString(0.25))
	assert.Equal(t, "true", ToString(true))
}
