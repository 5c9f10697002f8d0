package console

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/assistant-console/core/internal/core/error"
	"github.com/assistant-console/core/internal/console/cache"
	"github.com/assistant-console/core/internal/console/chat"
	"github.com/assistant-console/core/internal/console/model"
	"github.com/assistant-console/core/internal/console/remote"
	"github.com/assistant-console/core/internal/console/rules"
	"github.com/assistant-console/core/internal/console/uistore"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// rejectingRepo fails every create.
type rejectingRepo struct {
	*remote.MemoryRepository
}

func (r rejectingRepo) Create(context.Context, model.Assistant) (model.Assistant, error) {
	return model.Assistant{}, errors.New("Servicio no disponible")
}

func newConsole(t *testing.T, repo remote.Repository) *Console {
	t.Helper()
	if repo == nil {
		repo = remote.NewMemoryRepository(model.RemoteConfig{Seed: true}, remote.WithFailure(remote.Never))
	}

	c, err := New(context.Background(), Config{
		Cache: model.CacheConfig{Key: "assistants", DeleteVisibility: 30 * time.Millisecond},
		Chat:  model.ChatConfig{MaxTurns: 20},
	}, Deps{
		Repo:      repo,
		Rules:     rules.NewMemoryStore(model.RulesConfig{KeyPrefix: "training-rules-"}),
		Responder: chat.NewResponder(11),
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	_, err = c.Retry(context.Background())
	require.NoError(t, err)
	return c
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := New(context.Background(), Config{}, Deps{})
	assert.Error(t, err)
}

func TestCreateFromModal(t *testing.T) {
	c := newConsole(t, nil)
	before := len(c.Assistants().Data)

	f := c.OpenCreate()
	st := c.UI.State()
	require.True(t, st.IsModalOpen)
	require.Equal(t, uistore.ModalCreate, st.ModalMode)
	require.NotNil(t, st.SelectedAssistant)
	draftID := st.SelectedAssistant.ID
	require.NotEmpty(t, draftID)

	f.Name = "  Bot Uno "
	f.Tone = model.Casual
	f.ResponseLength = model.ResponseLength{Short: 30, Medium: 40, Long: 30}

	m, err := c.Save(context.Background(), f)
	require.NoError(t, err)

	got, ok := c.Cache.Snapshot().Find(draftID)
	require.True(t, ok)
	assert.Equal(t, "Bot Uno", got.Name)

	require.NoError(t, m.Wait(context.Background()))
	assert.Eventually(t, func() bool { return !c.UI.State().IsModalOpen }, waitFor, tick)
	assert.Len(t, c.Cache.Snapshot().Data, before+1)
}

func TestSaveRejectsInvalidForm(t *testing.T) {
	c := newConsole(t, nil)
	before := c.Cache.Snapshot().Data

	f := c.OpenCreate()
	f.Name = "ab"
	f.ResponseLength = model.ResponseLength{Short: 30, Medium: 40, Long: 29}

	m, err := c.Save(context.Background(), f)
	assert.Nil(t, m)
	require.Error(t, err)
	assert.Equal(t, errx.KindValidation, errx.KindOf(err))

	var appErr *errx.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "responseLength")

	assert.True(t, c.UI.State().IsModalOpen)
	assert.Equal(t, before, c.Cache.Snapshot().Data)
}

func TestEditFromModal(t *testing.T) {
	c := newConsole(t, nil)

	f, err := c.OpenEdit("1")
	require.NoError(t, err)
	assert.Equal(t, "Asistente de Ventas", f.Name)
	assert.Equal(t, uistore.ModalEdit, c.UI.State().ModalMode)

	f.Name = "Ventas Premium"
	m, err := c.Save(context.Background(), f)
	require.NoError(t, err)

	a, err := c.Assistant("1")
	require.NoError(t, err)
	assert.Equal(t, "Ventas Premium", a.Name)

	require.NoError(t, m.Wait(context.Background()))
	assert.Eventually(t, func() bool { return !c.UI.State().IsModalOpen }, waitFor, tick)
	// mode is kept after close
	assert.Equal(t, uistore.ModalEdit, c.UI.State().ModalMode)
}

func TestSaveFailureKeepsModalOpen(t *testing.T) {
	repo := rejectingRepo{remote.NewMemoryRepository(model.RemoteConfig{Seed: true}, remote.WithFailure(remote.Never))}
	c := newConsole(t, repo)
	before := c.Cache.Snapshot().Data

	f := c.OpenCreate()
	f.Name = "Bot Uno"
	m, err := c.Save(context.Background(), f)
	require.NoError(t, err)

	require.Error(t, m.Wait(context.Background()))
	assert.Eventually(t, func() bool {
		msg, ok := c.Validator.Error(SubmitField)
		return ok && msg == "Servicio no disponible"
	}, waitFor, tick)
	assert.True(t, c.UI.State().IsModalOpen)
	assert.Equal(t, before, c.Cache.Snapshot().Data)
}

func TestOpenEditUnknownAssistant(t *testing.T) {
	c := newConsole(t, nil)

	_, err := c.OpenEdit("ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, errx.ErrStaleReference)
	assert.Equal(t, errx.NotFoundMessage, errx.UserMessage(err, ""))
	assert.False(t, c.UI.State().IsModalOpen)
}

func TestDeleteDropsTrainingRules(t *testing.T) {
	repo := remote.NewMemoryRepository(
		model.RemoteConfig{Seed: true, Latency: 50 * time.Millisecond},
		remote.WithFailure(remote.Never),
	)
	c := newConsole(t, repo)
	ctx := context.Background()
	require.NoError(t, c.SaveTrainingRules(ctx, "1", "Ofrece siempre la garantía."))

	m, err := c.Delete(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, cache.DeletePending, c.Cache.Snapshot().Deleting["1"])

	require.NoError(t, m.Wait(ctx))
	assert.Eventually(t, func() bool {
		text, err := c.TrainingRules(ctx, "1")
		return err == nil && text == ""
	}, waitFor, tick)

	<-m.Settled()
	_, err = c.Assistant("1")
	assert.Equal(t, errx.KindStaleReference, errx.KindOf(err))
}

func TestRepeatedDeleteKeepsRulesWhenRemoteFails(t *testing.T) {
	repo := remote.NewMemoryRepository(
		model.RemoteConfig{Seed: true, Latency: 50 * time.Millisecond},
		remote.WithFailure(remote.Always),
	)
	c := newConsole(t, repo)
	ctx := context.Background()
	require.NoError(t, c.SaveTrainingRules(ctx, "1", "reglas"))

	first, err := c.Delete(ctx, "1")
	require.NoError(t, err)
	second, err := c.Delete(ctx, "1")
	require.NoError(t, err)
	assert.False(t, first.Noop())
	assert.True(t, second.Noop())

	require.NoError(t, second.Wait(ctx))
	err = first.Wait(ctx)
	require.Error(t, err)
	assert.Equal(t, remote.DeleteFailureMessage, errx.UserMessage(err, ""))

	assert.Never(t, func() bool {
		text, err := c.TrainingRules(ctx, "1")
		return err != nil || text != "reglas"
	}, 100*time.Millisecond, tick)

	_, err = c.Assistant("1")
	assert.NoError(t, err)
}

func TestSendMessage(t *testing.T) {
	c := newConsole(t, nil)
	ctx := context.Background()

	reply, err := c.SendMessage(ctx, "1", "¿Tienen descuentos?")
	require.NoError(t, err)
	require.NotNil(t, reply)

	h := c.ChatHistory("1")
	require.Len(t, h, 2)
	assert.Equal(t, model.SenderUser, h[0].Sender)
	assert.Equal(t, reply.Message, h[1].Message)

	reply, err = c.SendMessage(ctx, "1", "  ")
	require.NoError(t, err)
	assert.Nil(t, reply)
	assert.Len(t, c.ChatHistory("1"), 2)

	c.ResetChat("1")
	assert.Empty(t, c.ChatHistory("1"))

	_, err = c.SendMessage(ctx, "ghost", "hola")
	assert.Equal(t, errx.KindStaleReference, errx.KindOf(err))
}

func TestTrainingRulesRoundTrip(t *testing.T) {
	c := newConsole(t, nil)
	ctx := context.Background()

	text, err := c.TrainingRules(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "", text)

	require.NoError(t, c.SaveTrainingRules(ctx, "1", "Responde con ejemplos."))
	text, err = c.TrainingRules(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Responde con ejemplos.", text)

	// The side channel does not touch the canonical record.
	a, err := c.Assistant("1")
	require.NoError(t, err)
	assert.NotEqual(t, "Responde con ejemplos.", a.Rules)
}

func TestFormDefaults(t *testing.T) {
	f := NewForm()
	assert.Equal(t, model.Spanish, f.Language)
	assert.Equal(t, model.Professional, f.Tone)
	assert.Equal(t, 100, f.ResponseLength.Sum())
	assert.False(t, f.AudioEnabled)

	a := f.Assistant("x")
	assert.Equal(t, "x", a.ID)
	assert.Equal(t, f, FormFromAssistant(a))
}
