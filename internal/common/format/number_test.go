package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	assert.Equal(t, "1.234,5", Number(1234.5))
	assert.Equal(t, "0", Number(0))
	assert.Equal(t, "12.345.678", Number(12345678))
	assert.Equal(t, "1,235", Number(1.23456))
}

func TestWithUnit(t *testing.T) {
	assert.Equal(t, "2.500 Miliar", WithUnit(2500, "Miliar"))
	assert.Equal(t, "7", WithUnit(7, ""))
}

func TestPercentAndDegree(t *testing.T) {
	assert.Equal(t, "30.0", Percent(30))
	assert.Equal(t, "33.3", Percent(33.333))
	assert.Equal(t, "0.750", Degree(0.75))
	assert.Equal(t, "1.000", Degree(1))
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1,234 Miliar", 1234, true},
		{"  42", 42, true},
		{"987", 987, true},
		{"Miliar", 0, false},
		{"", 0, false},
		{"-15 x", -15, true},
	}
	for _, tt := range tests {
		got, ok := ParseLeadingInt(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
