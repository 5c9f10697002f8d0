package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameRule(t *testing.T) {
	rule := Name()

	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"empty", "", false},
		{"two chars", "ab", false},
		{"three chars", "abc", true},
		{"fifty chars", strings.Repeat("x", 50), true},
		{"fifty one chars", strings.Repeat("x", 51), false},
		{"whitespace ignored", "   ab   ", false},
		{"padded valid", "  Bot Uno  ", true},
		{"multibyte counted per rune", "ñañ", true},
		{"multibyte fifty", strings.Repeat("ñ", 50), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rule.Validate(tt.value))
		})
	}
	assert.Equal(t, NameMessage, rule.Message)
}

func TestResponseLengthSumRule(t *testing.T) {
	for s := 0; s <= 100; s += 10 {
		for m := 0; m <= 100-s; m += 10 {
			l := 100 - s - m
			assert.True(t, ResponseLengthSum(s, m, l).Validate(""), "%d/%d/%d", s, m, l)
		}
	}

	invalid := [][3]int{{0, 0, 0}, {30, 40, 31}, {50, 50, 1}, {100, 0, -1}, {34, 33, 32}}
	for _, triple := range invalid {
		rule := ResponseLengthSum(triple[0], triple[1], triple[2])
		assert.False(t, rule.Validate(""), "%v", triple)
		assert.Equal(t, ResponseLengthSumMessage, rule.Message)
	}
}

func TestRequiredRule(t *testing.T) {
	assert.False(t, Required().Validate(""))
	assert.False(t, Required().Validate(" \t\n"))
	assert.True(t, Required().Validate("x"))
	assert.Equal(t, RequiredMessage, Required().Message)
	assert.Equal(t, "custom", Required("custom").Message)
}

func TestLengthRules(t *testing.T) {
	assert.False(t, MinLength(3).Validate(" ab "))
	assert.True(t, MinLength(3).Validate(" abc "))
	assert.Equal(t, "Debe tener al menos 3 caracteres", MinLength(3).Message)

	assert.True(t, MaxLength(3).Validate(" abc "))
	assert.False(t, MaxLength(3).Validate("abcd"))
	assert.Equal(t, "Debe tener máximo 3 caracteres", MaxLength(3).Message)
	assert.Equal(t, "corto", MaxLength(3, "corto").Message)
}
