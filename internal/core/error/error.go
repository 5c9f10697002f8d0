package errx

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "error interno, por favor inténtalo de nuevo"
	// ValidationErrorMessage summarises a form that failed one or more rules.
	ValidationErrorMessage = "el formulario contiene errores"
	// FetchErrorMessage is shown when the assistant list cannot be loaded.
	FetchErrorMessage = "Error al cargar los asistentes. Por favor, recarga la página."
	// NotFoundMessage is shown when an assistant id does not resolve.
	NotFoundMessage = "Asistente no encontrado"
)

// Kind classifies failures by how the console recovers from them.
type Kind int

const (
	KindInternal Kind = iota
	// KindValidation is field-level and never leaves the form.
	KindValidation
	// KindMutation is a rejected create/update/delete, recovered by rollback.
	KindMutation
	// KindFetch is a rejected list fetch, recovered by an explicit retry.
	KindFetch
	// KindStaleReference is an id that is no longer in the collection.
	KindStaleReference
	// KindStorage is a failure of the training-rules side channel.
	KindStorage
	// KindNotFound is a missing key in a backing store.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindMutation:
		return "mutation"
	case KindFetch:
		return "fetch"
	case KindStaleReference:
		return "stale_reference"
	case KindStorage:
		return "storage"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Sentinels for errors.Is checks against a kind.
var (
	ErrValidation     = &AppError{Kind: KindValidation}
	ErrMutation       = &AppError{Kind: KindMutation}
	ErrFetch          = &AppError{Kind: KindFetch}
	ErrStaleReference = &AppError{Kind: KindStaleReference}
	ErrStorage        = &AppError{Kind: KindStorage}
	ErrNotFound       = &AppError{Kind: KindNotFound}
)

// AppError wraps an underlying error with a kind and a safe message.
type AppError struct {
	Err     error
	Kind    Kind
	Message string
	// Op names the operation that failed (create, update, delete, fetch).
	Op string
	// Fields holds per-field messages for KindValidation.
	Fields map[string]string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil || e.Err.Error() == e.Message {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels (an AppError with only Kind set).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t.Err != nil || t.Message != "" {
		return false
	}
	return t.Kind == e.Kind
}

// New creates a new AppError with the provided information.
func New(err error, kind Kind, message string) *AppError {
	return &AppError{
		Err:     err,
		Kind:    kind,
		Message: message,
	}
}

// Validation reports the failing fields of a form. The map is copied.
func Validation(fields map[string]string) *AppError {
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return &AppError{
		Kind:    KindValidation,
		Message: ValidationErrorMessage,
		Fields:  cp,
	}
}

// Mutation wraps a rejected write. The message is taken from the failure
// itself, or from fallback when the failure carries none.
func Mutation(op string, err error, fallback string) *AppError {
	return &AppError{
		Err:     err,
		Kind:    KindMutation,
		Op:      op,
		Message: UserMessage(err, fallback),
	}
}

// Fetch wraps a rejected list fetch. The message is always the generic
// reload hint; the cause stays available through Unwrap.
func Fetch(err error) *AppError {
	return &AppError{
		Err:     err,
		Kind:    KindFetch,
		Op:      "fetch",
		Message: FetchErrorMessage,
	}
}

// StaleReference reports an id that does not resolve in the collection.
func StaleReference(id string) *AppError {
	return &AppError{
		Err:     fmt.Errorf("assistant %q not in collection", id),
		Kind:    KindStaleReference,
		Message: NotFoundMessage,
	}
}

// UserMessage extracts the message to show for err. AppErrors yield their
// Message; other errors their own text; empty text yields fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var ae *AppError
	if errors.As(err, &ae) && strings.TrimSpace(ae.Message) != "" {
		return ae.Message
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

// KindOf returns the kind of the first AppError in err's chain, or
// KindInternal.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}
