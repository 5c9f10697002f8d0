package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/assistant-console/core/internal/console/chat/observers"
	"github.com/assistant-console/core/internal/console/model"
	"github.com/assistant-console/core/internal/console/uistore"
	logx "github.com/assistant-console/core/pkg/logger"
)

// Simulator runs the test chat of the training page: it records the user
// turn, shows the typing indicator for the configured delay and appends a
// canned reply.
type Simulator struct {
	store       *uistore.Store
	responder   *Responder
	runnable    compose.Runnable[Input, *schema.Message]
	callbacks   einocb.Handler
	typingDelay time.Duration
	log         zerolog.Logger
}

func NewSimulator(ctx context.Context, store *uistore.Store, cfg model.ChatConfig, responder *Responder) (*Simulator, error) {
	if store == nil {
		return nil, fmt.Errorf("ui store is nil")
	}
	if responder == nil {
		responder = NewResponder(0)
	}

	runnable, err := BuildChain(ctx, NewCannedModel(responder), cfg.MaxTurns)
	if err != nil {
		return nil, err
	}

	return &Simulator{
		store:       store,
		responder:   responder,
		runnable:    runnable,
		callbacks:   observers.NewAllCallbacks(),
		typingDelay: cfg.TypingDelay,
		log:         logx.Component("chat"),
	}, nil
}

// Send appends text as a user message and, after the typing delay, the
// assistant's reply. Blank text is ignored and returns a nil message. If ctx
// ends during the delay the typing flag is cleared and no reply is added.
func (s *Simulator) Send(ctx context.Context, a model.Assistant, rules, text string) (*model.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	s.store.AddChatMessage(a.ID, model.UserMessage(text))
	s.store.SetTyping(a.ID, true)
	defer s.store.SetTyping(a.ID, false)

	if err := sleep(ctx, s.typingDelay); err != nil {
		s.log.Debug().Str("assistant_id", a.ID).Msg("reply cancelled while typing")
		return nil, err
	}

	bucket := s.responder.PickBucket(a.ResponseLength)
	out, err := s.runnable.Invoke(ctx, Input{
		Assistant: a,
		Rules:     rules,
		History:   s.store.State().History(a.ID),
		Bucket:    bucket,
	}, compose.WithCallbacks(s.callbacks))
	if err != nil {
		s.log.Error().Err(err).Str("assistant_id", a.ID).Msg("reply generation failed")
		return nil, fmt.Errorf("generate reply: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("generate reply: empty result")
	}

	reply := model.AssistantMessage(out.Content)
	s.store.AddChatMessage(a.ID, reply)
	s.log.Debug().Str("assistant_id", a.ID).Str("length", string(bucket)).Msg("reply added")
	return &reply, nil
}

// Reset empties the transcript of assistantID.
func (s *Simulator) Reset(assistantID string) {
	s.store.ResetChat(assistantID)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
