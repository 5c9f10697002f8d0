package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	errx "github.com/assistant-console/core/internal/core/error"
	"github.com/assistant-console/core/internal/console/model"
)

const (
	IDMessage       = "El asistente no tiene id"
	LanguageMessage = "Idioma no válido"
	ToneMessage     = "Tono no válido"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("assistant_name", func(fl validator.FieldLevel) bool {
		return ValidName(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		rl := sl.Current().Interface().(model.ResponseLength)
		if !ValidResponseLengthSum(rl.Short, rl.Medium, rl.Long) {
			sl.ReportError(rl, "responseLength", "ResponseLength", "sum100", "")
		}
	}, model.ResponseLength{})

	return v
}

// Assistant checks a full record before it is persisted. Failures come back
// as an errx validation error keyed by JSON field name.
func Assistant(a model.Assistant) error {
	err := structValidator.Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errx.New(err, errx.KindInternal, errx.SystemErrorMessage)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key, msg := describe(fe)
		if _, seen := fields[key]; !seen {
			fields[key] = msg
		}
	}
	return errx.Validation(fields)
}

func describe(fe validator.FieldError) (string, string) {
	switch fe.Field() {
	case "id":
		return "id", IDMessage
	case "name":
		return "name", NameMessage
	case "language":
		return "language", LanguageMessage
	case "tone":
		return "tone", ToneMessage
	case "short", "medium", "long", "responseLength":
		return "responseLength", ResponseLengthSumMessage
	default:
		return fe.Field(), RequiredMessage
	}
}
