package console

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	errx "github.com/assistant-console/core/internal/core/error"
	"github.com/assistant-console/core/internal/console/cache"
	"github.com/assistant-console/core/internal/console/chat"
	"github.com/assistant-console/core/internal/console/model"
	"github.com/assistant-console/core/internal/console/remote"
	"github.com/assistant-console/core/internal/console/rules"
	"github.com/assistant-console/core/internal/console/uistore"
	"github.com/assistant-console/core/internal/console/validation"
	logx "github.com/assistant-console/core/pkg/logger"
)

// SubmitField is the validator key under which a failed save is recorded.
const SubmitField = "submit"

type Config struct {
	Cache model.CacheConfig
	Chat  model.ChatConfig
}

type Deps struct {
	Repo  remote.Repository
	Rules rules.Store
	// Responder is optional; a clock-seeded one is used when nil.
	Responder *chat.Responder
}

// Console is the intent surface of the presentation layer. Reads come from
// the collection cache and the UI store; every user action goes through one
// of its methods.
type Console struct {
	Cache     *cache.Cache
	UI        *uistore.Store
	Validator *validation.Validator

	chat  *chat.Simulator
	rules rules.Store
	newID func() string
	log   zerolog.Logger
}

func New(ctx context.Context, cfg Config, deps Deps) (*Console, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("remote repository is nil")
	}
	if deps.Rules == nil {
		return nil, fmt.Errorf("rules store is nil")
	}

	ui := uistore.New()
	sim, err := chat.NewSimulator(ctx, ui, cfg.Chat, deps.Responder)
	if err != nil {
		return nil, fmt.Errorf("build chat simulator: %w", err)
	}

	return &Console{
		Cache:     cache.New(deps.Repo, cfg.Cache),
		UI:        ui,
		Validator: validation.NewValidator(),
		chat:      sim,
		rules:     deps.Rules,
		newID:     uuid.NewString,
		log:       logx.Component("console"),
	}, nil
}

// Assistants reads the collection, starting a fetch when needed.
func (c *Console) Assistants() cache.Snapshot {
	return c.Cache.Read()
}

// Retry is the explicit reload after a fetch error.
func (c *Console) Retry(ctx context.Context) (cache.Snapshot, error) {
	return c.Cache.Refetch(ctx)
}

// Assistant resolves id against the current collection.
func (c *Console) Assistant(id string) (model.Assistant, error) {
	if a, ok := c.Cache.Read().Find(id); ok {
		return a, nil
	}
	return model.Assistant{}, errx.StaleReference(id)
}

// ================ Modal ================

// OpenCreate opens the modal on a draft carrying a fresh client-side id.
func (c *Console) OpenCreate() Form {
	draft := model.Assistant{ID: c.newID()}
	c.Validator.ClearAll()
	c.UI.OpenModal(uistore.ModalCreate, &draft)
	return NewForm()
}

// OpenEdit opens the modal on an existing assistant.
func (c *Console) OpenEdit(id string) (Form, error) {
	a, err := c.Assistant(id)
	if err != nil {
		return Form{}, err
	}
	c.Validator.ClearAll()
	c.UI.OpenModal(uistore.ModalEdit, &a)
	return FormFromAssistant(a), nil
}

func (c *Console) CloseModal() {
	c.Validator.ClearAll()
	c.UI.CloseModal()
}

// Save validates f and starts the create or update mutation for the
// selected assistant. The modal closes once the remote call succeeds; on
// failure it stays open and the message is recorded under SubmitField.
func (c *Console) Save(ctx context.Context, f Form) (*cache.Mutation, error) {
	if !c.Validator.ValidateForm(f.Fields()) {
		return nil, errx.Validation(c.Validator.Errors())
	}

	st := c.UI.State()
	id := ""
	if st.SelectedAssistant != nil {
		id = st.SelectedAssistant.ID
	}
	if id == "" {
		id = c.newID()
	}
	payload := f.Assistant(id)

	var (
		m   *cache.Mutation
		err error
	)
	if st.ModalMode == uistore.ModalEdit {
		m, err = c.Cache.Update(ctx, payload)
	} else {
		m, err = c.Cache.Create(ctx, payload)
	}
	if err != nil {
		return nil, err
	}

	go func() {
		<-m.Done()
		if err := m.Err(); err != nil {
			c.Validator.SetError(SubmitField, errx.UserMessage(err, errx.SystemErrorMessage))
			return
		}
		if sel := c.UI.State().SelectedAssistant; sel != nil && sel.ID == id {
			c.CloseModal()
		}
	}()
	return m, nil
}

// Delete starts the delete mutation. Once the remote confirms it, the saved
// training rules of the assistant are dropped as well. A skipped delete
// (unknown id, or one already in flight) leaves them alone.
func (c *Console) Delete(ctx context.Context, id string) (*cache.Mutation, error) {
	m, err := c.Cache.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Noop() {
		return m, nil
	}

	go func() {
		<-m.Done()
		if m.Err() != nil {
			return
		}
		if err := c.rules.Delete(context.WithoutCancel(ctx), id); err != nil {
			c.log.Warn().Err(err).Str("assistant_id", id).Msg("failed to drop training rules of deleted assistant")
		}
	}()
	return m, nil
}

// ================ Training page ================

// SendMessage runs one simulated chat turn with the assistant id.
func (c *Console) SendMessage(ctx context.Context, id, text string) (*model.ChatMessage, error) {
	a, err := c.Assistant(id)
	if err != nil {
		return nil, err
	}
	saved, err := c.rules.Load(ctx, id)
	if err != nil {
		c.log.Warn().Err(err).Str("assistant_id", id).Msg("training rules unavailable, using record rules")
		saved = ""
	}
	return c.chat.Send(ctx, a, saved, text)
}

func (c *Console) ResetChat(id string) {
	c.chat.Reset(id)
}

func (c *Console) ChatHistory(id string) []model.ChatMessage {
	return c.UI.State().History(id)
}

func (c *Console) SaveTrainingRules(ctx context.Context, id, text string) error {
	if err := c.rules.Save(ctx, id, text); err != nil {
		return err
	}
	c.log.Debug().Str("assistant_id", id).Int("length", len(text)).Msg("training rules saved")
	return nil
}

// TrainingRules returns the saved rules of id, or "" when none were saved.
func (c *Console) TrainingRules(ctx context.Context, id string) (string, error) {
	return c.rules.Load(ctx, id)
}

// Close tears down the collection cache.
func (c *Console) Close() {
	c.Cache.Close()
}
