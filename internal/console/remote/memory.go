package remote

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/assistant-console/core/internal/console/model"
	logx "github.com/assistant-console/core/pkg/logger"
)

// MemoryRepository is the simulated remote store: an in-memory list behind
// a fixed latency, whose Delete fails according to a FailurePolicy.
type MemoryRepository struct {
	latency time.Duration
	failure FailurePolicy

	mu    sync.Mutex
	items []model.Assistant
}

type Option func(*MemoryRepository)

// WithFailure replaces the delete failure policy.
func WithFailure(p FailurePolicy) Option {
	return func(r *MemoryRepository) { r.failure = p }
}

// WithLatency replaces the per-call latency.
func WithLatency(d time.Duration) Option {
	return func(r *MemoryRepository) { r.latency = d }
}

// WithAssistants preloads the store.
func WithAssistants(items ...model.Assistant) Option {
	return func(r *MemoryRepository) { r.items = append(r.items, items...) }
}

func NewMemoryRepository(cfg model.RemoteConfig, opts ...Option) *MemoryRepository {
	r := &MemoryRepository{
		latency: cfg.Latency,
		failure: NewRandomFailure(cfg.DeleteFailureRate, 0),
		items:   []model.Assistant{},
	}
	if cfg.Seed {
		r.items = append(r.items, SeedAssistants()...)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SeedAssistants returns the records a fresh console starts with.
func SeedAssistants() []model.Assistant {
	return []model.Assistant{
		{
			ID:             "1",
			Name:           "Asistente de Ventas",
			Language:       model.Spanish,
			Tone:           model.Professional,
			ResponseLength: model.ResponseLength{Short: 30, Medium: 50, Long: 20},
			AudioEnabled:   true,
			Rules:          "Eres un asistente especializado en ventas. Siempre sé cordial.",
		},
	}
}

func (r *MemoryRepository) wait(ctx context.Context) error {
	if r.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *MemoryRepository) List(ctx context.Context) ([]model.Assistant, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Assistant, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *MemoryRepository) Create(ctx context.Context, a model.Assistant) (model.Assistant, error) {
	if err := r.wait(ctx); err != nil {
		return model.Assistant{}, err
	}
	r.mu.Lock()
	r.items = append(r.items, a)
	r.mu.Unlock()

	logx.Debug().Str("assistant_id", a.ID).Msg("remote: assistant created")
	return a, nil
}

// Update replaces the record with a.ID. A missing id is a no-op.
func (r *MemoryRepository) Update(ctx context.Context, a model.Assistant) (model.Assistant, error) {
	if err := r.wait(ctx); err != nil {
		return model.Assistant{}, err
	}
	r.mu.Lock()
	if i := model.IndexOf(r.items, a.ID); i >= 0 {
		r.items[i] = a
	}
	r.mu.Unlock()
	return a, nil
}

// Delete removes id. A missing id is a no-op, but the injected failure
// still applies.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	if r.failure != nil && r.failure.ShouldFail() {
		logx.Warn().Str("assistant_id", id).Msg("remote: injected delete failure")
		return errors.New(DeleteFailureMessage)
	}
	r.mu.Lock()
	if i := model.IndexOf(r.items, id); i >= 0 {
		r.items = append(r.items[:i], r.items[i+1:]...)
	}
	r.mu.Unlock()
	return nil
}

// Len reports the number of stored records without latency.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
