package cache

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	errx "github.com/assistant-console/core/internal/core/error"
	"github.com/assistant-console/core/internal/console/model"
	"github.com/assistant-console/core/internal/console/remote"
	"github.com/assistant-console/core/internal/console/validation"
	logx "github.com/assistant-console/core/pkg/logger"
)

var ErrClosed = errors.New("cache: closed")

// errSuperseded is returned by a fetch whose result was discarded because a
// write started while it was in flight.
var errSuperseded = errors.New("cache: fetch superseded")

// Listener receives a snapshot after every state transition. Listeners run
// outside the cache lock and may call back into the cache.
type Listener func(Snapshot)

// Cache holds the assistant collection under a single key and reconciles it
// with the remote repository.
//
// Visible data is the last fetched list (base) with every pending optimistic
// write applied on top. A generation counter moves on every write
// transition; a fetch that started under an older generation is discarded.
type Cache struct {
	cfg      model.CacheConfig
	repo     remote.Repository
	validate func(model.Assistant) error
	log      zerolog.Logger
	group    singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	base        []model.Assistant
	data        []model.Assistant
	status      Status
	refetching  bool
	err         error
	stale       bool
	fetchedAt   time.Time
	generation  uint64
	version     uint64
	fetchSeq    uint64
	fetchID     uint64
	fetchCancel context.CancelFunc
	ops         []*op
	seq         uint64
	closed      bool

	subMu   sync.RWMutex
	subs    map[uint64]Listener
	nextSub uint64
}

type Option func(*Cache)

// WithValidator replaces the pre-persistence check run by Create and Update.
func WithValidator(fn func(model.Assistant) error) Option {
	return func(c *Cache) { c.validate = fn }
}

func New(repo remote.Repository, cfg model.CacheConfig, opts ...Option) *Cache {
	if cfg.Key == "" {
		cfg.Key = "assistants"
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		cfg:      cfg,
		repo:     repo,
		validate: validation.Assistant,
		log:      logx.Component("cache").With().Str("key", cfg.Key).Logger(),
		ctx:      ctx,
		cancel:   cancel,
		subs:     make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ================ Read side ================

// Snapshot returns the current state without side effects.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Read returns the current state and starts a background fetch when the
// data is absent, invalidated or older than StaleTime. Concurrent reads share
// one in-flight fetch. A failed fetch is only retried through Refetch.
func (c *Cache) Read() Snapshot {
	c.mu.Lock()
	need := c.needsFetchLocked()
	if need {
		c.markFetchingLocked()
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if need {
		c.notify()
		c.startFetch()
	}
	return snap
}

// Refetch fetches now, or joins the fetch already in flight, and waits for
// a result that was applied. This is the explicit retry after a fetch error.
func (c *Cache) Refetch(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrClosed
	}
	c.markFetchingLocked()
	c.mu.Unlock()
	c.notify()

	for {
		ch := c.group.DoChan(c.cfg.Key, c.runFetch)
		select {
		case <-ctx.Done():
			return c.Snapshot(), ctx.Err()
		case res := <-ch:
			if errors.Is(res.Err, errSuperseded) {
				continue
			}
			return c.Snapshot(), res.Err
		}
	}
}

// Invalidate marks the data stale and schedules a background refetch.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stale = true
	c.mu.Unlock()
	c.startFetch()
}

func (c *Cache) needsFetchLocked() bool {
	if c.closed || c.fetchID != 0 {
		return false
	}
	if c.stale {
		return true
	}
	if c.status == StatusError {
		return false
	}
	if c.fetchedAt.IsZero() {
		return true
	}
	return c.cfg.StaleTime > 0 && time.Since(c.fetchedAt) > c.cfg.StaleTime
}

func (c *Cache) markFetchingLocked() {
	if c.data == nil {
		c.status = StatusLoading
	} else {
		c.refetching = true
	}
	c.version++
}

func (c *Cache) startFetch() {
	c.group.DoChan(c.cfg.Key, c.runFetch)
}

// runFetch is the single in-flight fetch body shared through singleflight.
func (c *Cache) runFetch() (any, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.fetchSeq++
	id, gen := c.fetchSeq, c.generation

	var ctx context.Context
	var cancel context.CancelFunc
	if c.cfg.FetchTimeout > 0 {
		ctx, cancel = context.WithTimeout(c.ctx, c.cfg.FetchTimeout)
	} else {
		ctx, cancel = context.WithCancel(c.ctx)
	}
	defer cancel()

	c.fetchID, c.fetchCancel = id, cancel
	c.stale = false
	c.markFetchingLocked()
	c.mu.Unlock()
	c.notify()

	c.log.Debug().Uint64("generation", gen).Msg("fetching collection")
	list, err := c.repo.List(ctx)

	c.mu.Lock()
	if c.fetchID == id {
		c.fetchID, c.fetchCancel = 0, nil
	}
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if gen != c.generation {
		c.mu.Unlock()
		c.log.Debug().Uint64("generation", gen).Msg("discarding superseded fetch")
		return nil, errSuperseded
	}

	c.refetching = false
	var fetchErr error
	if err != nil {
		fetchErr = errx.Fetch(err)
		c.status = StatusError
		c.err = fetchErr
		c.version++
	} else {
		c.base = model.CloneAssistants(list)
		if c.base == nil {
			c.base = []model.Assistant{}
		}
		c.status = StatusSuccess
		c.err = nil
		c.fetchedAt = time.Now()
		c.recomputeLocked()
	}
	pending := len(c.ops)
	c.mu.Unlock()

	if fetchErr != nil {
		c.log.Error().Err(err).Msg("collection fetch failed")
	} else {
		c.log.Debug().Int("count", len(list)).Int("pending", pending).Msg("collection fetched")
	}
	c.notify()
	return nil, fetchErr
}

// ================ Write side ================

// Create appends a (which must carry its id) optimistically and persists it.
func (c *Cache) Create(ctx context.Context, a model.Assistant) (*Mutation, error) {
	if err := c.validate(a); err != nil {
		return nil, err
	}
	return c.begin(ctx, &op{kind: opCreate, id: a.ID, payload: a})
}

// Update replaces the record with a.ID wholesale. An id that is not in the
// collection is a silent no-op.
func (c *Cache) Update(ctx context.Context, a model.Assistant) (*Mutation, error) {
	if err := c.validate(a); err != nil {
		return nil, err
	}
	return c.begin(ctx, &op{kind: opUpdate, id: a.ID, payload: a})
}

// Delete marks id as deleting and removes it remotely. On success the entry
// stays visible for DeleteVisibility before it is dropped. An id that is not
// in the collection, or already being deleted, is a silent no-op.
func (c *Cache) Delete(ctx context.Context, id string) (*Mutation, error) {
	return c.begin(ctx, &op{kind: opDelete, id: id})
}

func (c *Cache) begin(ctx context.Context, o *op) (*Mutation, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}

	if o.kind != opCreate {
		i := model.IndexOf(c.data, o.id)
		if i < 0 || (o.kind == opDelete && c.deletingLocked(o.id)) {
			c.mu.Unlock()
			c.log.Debug().Str("op", string(o.kind)).Str("assistant_id", o.id).Msg("stale reference, mutation skipped")
			return noopMutation(o.kind, o.id), nil
		}
		if o.kind == opDelete {
			o.payload, o.index = c.data[i], i
		}
	}

	c.seq++
	o.seq = c.seq
	o.m = newMutation(o.kind, o.id, model.CloneAssistants(c.data))
	c.bumpLocked()
	c.ops = append(c.ops, o)
	c.recomputeLocked()
	gen := c.generation
	c.mu.Unlock()

	c.log.Debug().Str("op", string(o.kind)).Str("assistant_id", o.id).Uint64("generation", gen).Msg("optimistic apply")
	c.notify()

	go c.run(ctx, o)
	return o.m, nil
}

func (c *Cache) run(ctx context.Context, o *op) {
	rctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()
	defer cancel()

	var (
		saved model.Assistant
		err   error
	)
	switch o.kind {
	case opCreate:
		saved, err = c.repo.Create(rctx, o.payload)
	case opUpdate:
		saved, err = c.repo.Update(rctx, o.payload)
	case opDelete:
		err = c.repo.Delete(rctx, o.id)
	}

	if err != nil {
		c.rollback(o, err)
		return
	}
	c.commit(o, saved)
}

func (c *Cache) commit(o *op, saved model.Assistant) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		o.m.finish(nil)
		o.m.settle()
		return
	}

	if o.kind == opDelete {
		o.confirmed = true
		c.version++
		o.timer = time.AfterFunc(c.cfg.DeleteVisibility, func() { c.finishDelete(o) })
		c.mu.Unlock()

		c.log.Debug().Str("assistant_id", o.id).Dur("visible_for", c.cfg.DeleteVisibility).Msg("delete confirmed")
		c.notify()
		o.m.finish(nil)
		return
	}

	if saved.ID == o.id {
		o.payload = saved
	}
	if c.base == nil {
		c.base = []model.Assistant{}
	}
	c.base = o.apply(c.base)
	c.removeOpLocked(o)
	c.bumpLocked()
	c.stale = true
	c.recomputeLocked()
	c.mu.Unlock()

	c.log.Debug().Str("op", string(o.kind)).Str("assistant_id", o.id).Msg("mutation committed")
	c.notify()
	o.m.finish(nil)
	o.m.settle()
	c.startFetch()
}

func (c *Cache) finishDelete(o *op) {
	c.mu.Lock()
	if c.closed || !slices.Contains(c.ops, o) {
		c.mu.Unlock()
		return
	}
	if i := model.IndexOf(c.base, o.id); i >= 0 {
		c.base = slices.Delete(c.base, i, i+1)
	}
	c.removeOpLocked(o)
	c.bumpLocked()
	c.stale = true
	c.recomputeLocked()
	c.mu.Unlock()

	c.log.Debug().Str("assistant_id", o.id).Msg("deleted entry removed")
	c.notify()
	o.m.settle()
	c.startFetch()
}

// rollback drops o from the pending set. With no other write in flight the
// visible data is exactly the pre-mutation snapshot again.
func (c *Cache) rollback(o *op, cause error) {
	appErr := errx.Mutation(string(o.kind), cause, fallbackMessages[o.kind])

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		o.m.finish(appErr)
		o.m.settle()
		return
	}
	c.removeOpLocked(o)
	c.recomputeLocked()
	refetch := c.stale
	c.mu.Unlock()

	c.log.Warn().Err(cause).Str("op", string(o.kind)).Str("assistant_id", o.id).Msg("mutation rolled back")
	c.notify()
	o.m.finish(appErr)
	o.m.settle()
	if refetch {
		c.startFetch()
	}
}

// bumpLocked moves the generation, cancels the in-flight fetch and lets the
// next fetch start fresh instead of joining the doomed one.
func (c *Cache) bumpLocked() {
	c.generation++
	if c.fetchID != 0 {
		c.fetchCancel()
		c.fetchID, c.fetchCancel = 0, nil
		c.stale = true
		c.refetching = false
	}
	c.group.Forget(c.cfg.Key)
}

func (c *Cache) recomputeLocked() {
	c.data = project(c.base, c.ops)
	c.version++
}

func (c *Cache) removeOpLocked(o *op) {
	c.ops = slices.DeleteFunc(c.ops, func(p *op) bool { return p == o })
}

func (c *Cache) deletingLocked(id string) bool {
	return slices.ContainsFunc(c.ops, func(p *op) bool { return p.kind == opDelete && p.id == id })
}

func (c *Cache) snapshotLocked() Snapshot {
	s := Snapshot{
		Key:          c.cfg.Key,
		Data:         model.CloneAssistants(c.data),
		Status:       c.status,
		IsRefetching: c.refetching,
		Err:          c.err,
		FetchedAt:    c.fetchedAt,
		Version:      c.version,
	}
	for _, o := range c.ops {
		if o.kind != opDelete {
			continue
		}
		if s.Deleting == nil {
			s.Deleting = make(map[string]DeletePhase)
		}
		phase := DeletePending
		if o.confirmed {
			phase = DeleteConfirmed
		}
		s.Deleting[o.id] = phase
	}
	return s
}

// ================ Subscriptions ================

// Subscribe registers l and returns a function that unregisters it.
func (c *Cache) Subscribe(l Listener) func() {
	c.subMu.Lock()
	c.nextSub++
	id := c.nextSub
	c.subs[id] = l
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

func (c *Cache) notify() {
	snap := c.Snapshot()
	c.subMu.RLock()
	ls := slices.Collect(maps.Values(c.subs))
	c.subMu.RUnlock()
	for _, l := range ls {
		l(snap)
	}
}

// Close tears the entry down: in-flight work is cancelled, delete timers are
// stopped and late results are ignored.
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.generation++
	var lingering []*op
	for _, o := range c.ops {
		if o.timer != nil {
			o.timer.Stop()
			lingering = append(lingering, o)
		}
	}
	c.mu.Unlock()

	c.cancel()
	for _, o := range lingering {
		o.m.settle()
	}
	c.log.Debug().Msg("cache closed")
}
