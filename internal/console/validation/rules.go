package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	RequiredMessage          = "Este campo es requerido"
	NameMessage              = "El nombre debe tener entre 3 y 50 caracteres"
	ResponseLengthSumMessage = "La suma de los porcentajes debe ser 100%"

	NameMinLength = 3
	NameMaxLength = 50
)

// Rule is a predicate over a field value plus the message shown when it
// fails. Rules are pure: they only look at the value they are given.
type Rule struct {
	Validate func(value string) bool
	Message  string
}

func trimmedLen(v string) int {
	return utf8.RuneCountInString(strings.TrimSpace(v))
}

func pick(message []string, def string) string {
	if len(message) > 0 && message[0] != "" {
		return message[0]
	}
	return def
}

// Required fails on empty or whitespace-only values.
func Required(message ...string) Rule {
	return Rule{
		Validate: func(v string) bool { return trimmedLen(v) > 0 },
		Message:  pick(message, RequiredMessage),
	}
}

// MinLength bounds the trimmed length from below.
func MinLength(min int, message ...string) Rule {
	return Rule{
		Validate: func(v string) bool { return trimmedLen(v) >= min },
		Message:  pick(message, fmt.Sprintf("Debe tener al menos %d caracteres", min)),
	}
}

// MaxLength bounds the trimmed length from above.
func MaxLength(max int, message ...string) Rule {
	return Rule{
		Validate: func(v string) bool { return trimmedLen(v) <= max },
		Message:  pick(message, fmt.Sprintf("Debe tener máximo %d caracteres", max)),
	}
}

// ValidName reports whether the trimmed name length is within [3,50].
func ValidName(v string) bool {
	n := trimmedLen(v)
	return n >= NameMinLength && n <= NameMaxLength
}

// Name accepts assistant names of 3 to 50 characters after trimming.
func Name() Rule {
	return Rule{
		Validate: ValidName,
		Message:  NameMessage,
	}
}

// ValidResponseLengthSum reports whether the three percentages add up to 100.
func ValidResponseLengthSum(short, medium, long int) bool {
	return short+medium+long == 100
}

// ResponseLengthSum ignores the field value and checks the captured
// percentages. It is the only cross-field rule.
func ResponseLengthSum(short, medium, long int) Rule {
	return Rule{
		Validate: func(string) bool { return ValidResponseLengthSum(short, medium, long) },
		Message:  ResponseLengthSumMessage,
	}
}
