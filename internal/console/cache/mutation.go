package cache

import (
	"context"

	"github.com/assistant-console/core/internal/console/model"
)

// Mutation is the handle of one optimistic write. It is returned once the
// optimistic state is visible; the remote call continues in the background.
type Mutation struct {
	Op string
	ID string

	before  []model.Assistant
	noop    bool
	err     error
	done    chan struct{}
	settled chan struct{}
}

func newMutation(kind opKind, id string, before []model.Assistant) *Mutation {
	return &Mutation{
		Op:      string(kind),
		ID:      id,
		before:  before,
		done:    make(chan struct{}),
		settled: make(chan struct{}),
	}
}

// noopMutation is returned for update/delete on an id that is not in the
// collection.
func noopMutation(kind opKind, id string) *Mutation {
	m := newMutation(kind, id, nil)
	m.noop = true
	close(m.done)
	close(m.settled)
	return m
}

func (m *Mutation) finish(err error) {
	m.err = err
	close(m.done)
}

func (m *Mutation) settle() {
	close(m.settled)
}

// Done is closed when the remote call has succeeded or been rolled back.
func (m *Mutation) Done() <-chan struct{} { return m.done }

// Settled is closed when the mutation context is discarded: right after
// Done for create/update and failures, after the visibility delay for a
// successful delete.
func (m *Mutation) Settled() <-chan struct{} { return m.settled }

// Err returns the surfaced failure, or nil while in flight or on success.
func (m *Mutation) Err() error {
	select {
	case <-m.done:
		return m.err
	default:
		return nil
	}
}

// Wait blocks until Done or ctx ends.
func (m *Mutation) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		return m.err
	}
}

// Noop reports whether the mutation was skipped without touching the
// collection or the remote store.
func (m *Mutation) Noop() bool { return m.noop }

// Before returns the data as it was right before the optimistic apply.
func (m *Mutation) Before() []model.Assistant {
	return model.CloneAssistants(m.before)
}
