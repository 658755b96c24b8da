package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeZip(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{name: "Four digits are padded", raw: "7000", want: "07000", valid: true},
		{name: "Exact five digits", raw: "12345", want: "12345", valid: true},
		{name: "Separators dropped", raw: " 12-3 ", want: "00123", valid: true},
		{name: "Six digits rejected", raw: "123456", want: "123456", valid: false},
		{name: "Letters only pad to zeros", raw: "abc", want: "00000", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeZip(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, IsValidZip(got))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{name: "Formatted number", raw: "(090) 123-4567", want: "0901234567", valid: true},
		{name: "Too short", raw: "090-123", want: "090123", valid: false},
		{name: "Capped at fifteen", raw: "12345678901234567890", want: "123456789012345", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, IsValidPhone(got))
		})
	}
}

func TestHumanizeField(t *testing.T) {
	assert.Equal(t, "first name", HumanizeField("first_name"))
	assert.Equal(t, "zip", HumanizeField("zip"))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank("  \t"))
	assert.False(t, IsBlank(" a "))
}
