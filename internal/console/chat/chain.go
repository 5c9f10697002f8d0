package chat

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/assistant-console/core/internal/console/model"
)

// Input is everything needed to produce one simulated reply.
type Input struct {
	Assistant model.Assistant
	Rules     string
	History   []model.ChatMessage
	Bucket    model.LengthBucket
}

// BuildChain compiles the reply pipeline: context builder, then the canned
// chat model.
func BuildChain(ctx context.Context, cm *CannedModel, maxTurns int) (compose.Runnable[Input, *schema.Message], error) {
	if cm == nil {
		return nil, fmt.Errorf("chat model is nil")
	}

	chain := compose.NewChain[Input, *schema.Message]()
	chain.
		AppendLambda(newContextBuilder(maxTurns)).
		AppendChatModel(cm)

	r, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile chat chain: %w", err)
	}
	return r, nil
}

func newContextBuilder(maxTurns int) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in Input) ([]*schema.Message, error) {
		system, err := RenderSystem(ctx, in.Assistant, in.Rules, in.Bucket)
		if err != nil {
			return nil, err
		}

		sys := schema.SystemMessage(system)
		sys.Extra = map[string]any{
			extraAssistantID: in.Assistant.ID,
			extraLength:      string(in.Bucket),
		}

		msgs := []*schema.Message{sys}
		for _, m := range trimTail(in.History, maxTurns) {
			if m.Message == "" {
				continue
			}
			switch m.Sender {
			case model.SenderUser:
				msgs = append(msgs, schema.UserMessage(m.Message))
			case model.SenderAssistant:
				msgs = append(msgs, schema.AssistantMessage(m.Message, nil))
			}
		}
		return msgs, nil
	})
}

// trimTail keeps the last maxTurns entries. Non-positive maxTurns keeps all.
func trimTail[T any](items []T, maxTurns int) []T {
	if maxTurns <= 0 || len(items) <= maxTurns {
		result := make([]T, len(items))
		copy(result, items)
		return result
	}
	source := items[len(items)-maxTurns:]
	result := make([]T, len(source))
	copy(result, source)
	return result
}
