package validation

import (
	"maps"
	"sync"
)

// Field pairs a value with the rules it must satisfy.
type Field struct {
	Value string
	Rules []Rule
}

// Validator accumulates at most one message per field: the first rule that
// failed.
type Validator struct {
	mu     sync.RWMutex
	errors map[string]string
}

func NewValidator() *Validator {
	return &Validator{errors: map[string]string{}}
}

func firstFailure(value string, rules []Rule) (string, bool) {
	for _, r := range rules {
		if r.Validate != nil && !r.Validate(value) {
			return r.Message, true
		}
	}
	return "", false
}

// ValidateField evaluates rules in order. On the first failure it records
// the message under name and returns false; when all pass it clears any
// previous error for name.
func (v *Validator) ValidateField(name, value string, rules ...Rule) bool {
	msg, failed := firstFailure(value, rules)

	v.mu.Lock()
	defer v.mu.Unlock()
	if failed {
		v.errors[name] = msg
		return false
	}
	delete(v.errors, name)
	return true
}

// ValidateForm evaluates every field independently and replaces the whole
// error set with the failures found. It returns true only with zero failures.
func (v *Validator) ValidateForm(fields map[string]Field) bool {
	next := make(map[string]string)
	for name, f := range fields {
		if msg, failed := firstFailure(f.Value, f.Rules); failed {
			next[name] = msg
		}
	}

	v.mu.Lock()
	v.errors = next
	v.mu.Unlock()
	return len(next) == 0
}

// Errors returns a copy of the current field → message set.
func (v *Validator) Errors() map[string]string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(v.errors)
}

// Error returns the message recorded for name, if any.
func (v *Validator) Error(name string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	msg, ok := v.errors[name]
	return msg, ok
}

// SetError records msg for name without running rules, e.g. a failed submit.
func (v *Validator) SetError(name, msg string) {
	v.mu.Lock()
	v.errors[name] = msg
	v.mu.Unlock()
}

func (v *Validator) ClearError(name string) {
	v.mu.Lock()
	delete(v.errors, name)
	v.mu.Unlock()
}

func (v *Validator) ClearAll() {
	v.mu.Lock()
	v.errors = map[string]string{}
	v.mu.Unlock()
}

// Valid reports whether no field currently has an error.
func (v *Validator) Valid() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.errors) == 0
}
