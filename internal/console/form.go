package console

import (
	"strings"

	"github.com/assistant-console/core/internal/console/model"
	"github.com/assistant-console/core/internal/console/validation"
)

// Form is the editable state of the assistant modal.
type Form struct {
	Name           string
	Language       model.Language
	Tone           model.Tone
	ResponseLength model.ResponseLength
	AudioEnabled   bool
	Rules          string
}

// NewForm returns the defaults shown when creating an assistant.
func NewForm() Form {
	return Form{
		Language:       model.Spanish,
		Tone:           model.Professional,
		ResponseLength: model.ResponseLength{Short: 30, Medium: 50, Long: 20},
	}
}

// FormFromAssistant prefills the modal in edit mode.
func FormFromAssistant(a model.Assistant) Form {
	return Form{
		Name:           a.Name,
		Language:       a.Language,
		Tone:           a.Tone,
		ResponseLength: a.ResponseLength,
		AudioEnabled:   a.AudioEnabled,
		Rules:          a.Rules,
	}
}

// Fields maps the form onto the validator's named fields.
func (f Form) Fields() map[string]validation.Field {
	rl := f.ResponseLength
	return map[string]validation.Field{
		"name":           {Value: f.Name, Rules: []validation.Rule{validation.Name()}},
		"responseLength": {Rules: []validation.Rule{validation.ResponseLengthSum(rl.Short, rl.Medium, rl.Long)}},
	}
}

// Assistant builds the persisted payload with trimmed text fields.
func (f Form) Assistant(id string) model.Assistant {
	return model.Assistant{
		ID:             id,
		Name:           strings.TrimSpace(f.Name),
		Language:       f.Language,
		Tone:           f.Tone,
		ResponseLength: f.ResponseLength,
		AudioEnabled:   f.AudioEnabled,
		Rules:          strings.TrimSpace(f.Rules),
	}
}
