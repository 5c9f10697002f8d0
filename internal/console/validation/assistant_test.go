package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/assistant-console/core/internal/core/error"
	"github.com/assistant-console/core/internal/console/model"
)

func validAssistant() model.Assistant {
	return model.Assistant{
		ID:             "a-1",
		Name:           "Bot Uno",
		Language:       model.Spanish,
		Tone:           model.Casual,
		ResponseLength: model.ResponseLength{Short: 30, Medium: 40, Long: 30},
	}
}

func TestAssistantValid(t *testing.T) {
	assert.NoError(t, Assistant(validAssistant()))
}

func TestStructValidatorRegistersNameTag(t *testing.T) {
	v := newStructValidator()

	assert.NoError(t, v.Var("Bot Uno", "assistant_name"))
	assert.Error(t, v.Var(" ab ", "assistant_name"))
}

func TestAssistantInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *model.Assistant)
		field  string
		msg    string
	}{
		{"missing id", func(a *model.Assistant) { a.ID = "" }, "id", IDMessage},
		{"short name", func(a *model.Assistant) { a.Name = " ab " }, "name", NameMessage},
		{"long name", func(a *model.Assistant) { a.Name = strings.Repeat("x", 51) }, "name", NameMessage},
		{"unknown language", func(a *model.Assistant) { a.Language = "Klingon" }, "language", LanguageMessage},
		{"unknown tone", func(a *model.Assistant) { a.Tone = "Sarcástico" }, "tone", ToneMessage},
		{"sum off by one", func(a *model.Assistant) { a.ResponseLength.Long = 31 }, "responseLength", ResponseLengthSumMessage},
		{"negative share", func(a *model.Assistant) {
			a.ResponseLength = model.ResponseLength{Short: -10, Medium: 60, Long: 50}
		}, "responseLength", ResponseLengthSumMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAssistant()
			tt.mutate(&a)

			err := Assistant(a)
			require.Error(t, err)
			assert.Equal(t, errx.KindValidation, errx.KindOf(err))

			var appErr *errx.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.msg, appErr.Fields[tt.field])
		})
	}
}
