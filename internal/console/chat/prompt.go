package chat

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/assistant-console/core/internal/console/model"
)

//go:embed template/system_prompt.txt
var systemPrompt string

// RenderSystem renders the system prompt for one reply. rules is the
// training text saved for the assistant; when empty the record's own rules
// are used.
func RenderSystem(ctx context.Context, a model.Assistant, rules string, bucket model.LengthBucket) (string, error) {
	if strings.TrimSpace(rules) == "" {
		rules = a.Rules
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(systemPrompt),
	)
	vars := map[string]any{
		"Name":         a.Name,
		"Language":     string(a.Language),
		"Tone":         string(a.Tone),
		"Length":       string(bucket),
		"AudioEnabled": a.AudioEnabled,
		"Rules":        strings.TrimSpace(rules),
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("system prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("system prompt render: empty result")
	}
	return msgs[0].Content, nil
}
