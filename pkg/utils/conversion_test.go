package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringify(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"nil", nil, ""},
		{"string", "Kings College", "Kings College"},
		{"integer float", float64(12), "12"},
		{"fraction", 1.5, "1.5"},
		{"int", 42, "42"},
		{"bool", true, "true"},
		{"array", []interface{}{"a", float64(2), false}, "a,2,false"},
		{"string slice", []string{"x", "y"}, "x,y"},
		{"nested object", map[string]interface{}{"street": "1 Main", "city": "Leeds"}, "Leeds,1 Main"},
		{"array of objects", []interface{}{map[string]interface{}{"name": "Ann"}}, "Ann"},
		{"array with nil", []interface{}{nil, "b"}, ",b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Stringify(tt.input))
		})
	}
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool("Yes"))
	assert.True(t, ToBool("on"))
	assert.True(t, ToBool(float64(1)))
	assert.False(t, ToBool("No"))
	assert.False(t, ToBool(nil))
	assert.False(t, ToBool(0))
}

func TestParseTime(t *testing.T) {
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), ParseTime("2024-03-09"))
	assert.Equal(t, 2023, ParseTime("2023-11-02T10:15:00.000Z").Year())
	assert.True(t, ParseTime("not a date").IsZero())
}
