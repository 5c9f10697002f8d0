package chat

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/assistant-console/core/internal/console/model"
)

// Keys read from the system message Extra.
const (
	extraAssistantID = "assistant_id"
	extraLength      = "length"
)

// CannedModel is a chat model that answers from the canned reply table
// instead of calling an LLM.
type CannedModel struct {
	responder *Responder
}

func NewCannedModel(r *Responder) *CannedModel {
	return &CannedModel{responder: r}
}

func (m *CannedModel) GetType() string { return "Canned" }

func (m *CannedModel) Generate(ctx context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(input) == 0 || input[0] == nil || input[0].Role != schema.System {
		return nil, fmt.Errorf("canned model: missing system message")
	}

	id, _ := input[0].Extra[extraAssistantID].(string)
	length, _ := input[0].Extra[extraLength].(string)
	bucket := model.LengthBucket(length)
	if bucket == "" {
		bucket = model.LengthMedium
	}

	out := schema.AssistantMessage(m.responder.Respond(id, bucket), nil)
	out.Extra = map[string]any{extraLength: string(bucket)}
	return out, nil
}

func (m *CannedModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

var _ einomodel.BaseChatModel = (*CannedModel)(nil)
