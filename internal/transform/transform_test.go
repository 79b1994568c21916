package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocaleNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"9.470.000,00", 9470000, true},
		{"15100,00", 15100, true},
		{"25900", 25900, true},
		{" 1.234,5 ", 1234.5, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"1,2,3", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseLocaleNumber(tt.input)
		assert.Equal(t, tt.ok, ok, "input: %q", tt.input)
		assert.InDelta(t, tt.want, got, 0.0001, "input: %q", tt.input)
	}
}

func TestParseNumber(t *testing.T) {
	f, ok := ParseNumber(" 12.0 ")
	assert.True(t, ok)
	assert.Equal(t, 12.0, f)

	_, ok = ParseNumber("doce")
	assert.False(t, ok)

	_, ok = ParseNumber("")
	assert.False(t, ok)
}

func TestNormalizeProvince(t *testing.T) {
	tests := []struct {
		input, expected string
	}{
		{"San José", "SAN JOSE"},
		{"SAN JOSE", "SAN JOSE"},
		{"  san josé ", "SAN JOSE"},
		{"Limón", "LIMON"},
		{"Heredia", "HEREDIA"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeProvince(tt.input), "input: %q", tt.input)
	}
}

func TestNormalizeProvince_AccentAndCaseGroupTogether(t *testing.T) {
	assert.Equal(t, NormalizeProvince("San José"), NormalizeProvince("SAN JOSE"))
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "101230456", NormalizeID(" 101230456\t"))
	assert.Equal(t, "", NormalizeID("  "))
}

func TestIsActiveFlag(t *testing.T) {
	assert.True(t, IsActiveFlag("S"))
	assert.True(t, IsActiveFlag(" s "))
	assert.False(t, IsActiveFlag("N"))
	assert.False(t, IsActiveFlag(""))
	assert.False(t, IsActiveFlag("SI"))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 66.7, Round1(200.0/3))
	assert.Equal(t, 33.3, Round1(100.0/3))
	assert.Equal(t, 12.2, Round1(12.25))
	assert.Equal(t, 100.0, Round1(100))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 66.7, Percent(2, 3))
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 100.0, Percent(4, 4))
}
