package uistore

import (
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/assistant-console/core/internal/console/model"
	logx "github.com/assistant-console/core/pkg/logger"
)

// ModalMode tells the assistant modal whether it creates or edits.
type ModalMode string

const (
	ModalCreate ModalMode = "create"
	ModalEdit   ModalMode = "edit"
)

// State is the UI session state. Values handed to listeners are never
// mutated afterwards: every transition builds a new chat map and only the
// touched history slice is replaced.
type State struct {
	SelectedAssistant *model.Assistant
	IsModalOpen       bool
	ModalMode         ModalMode
	ChatHistory       map[string][]model.ChatMessage
	// Typing holds the ids whose simulated reply is being written.
	Typing map[string]bool
}

// History returns the transcript for id. The slice must not be modified.
func (s State) History(id string) []model.ChatMessage {
	return s.ChatHistory[id]
}

// Listener is called synchronously after each transition with the new and
// previous state.
type Listener func(state, prev State)

type ListenerID uint64

// Store is the process-wide holder of modal and chat state. It has no
// server counterpart and is independent of the collection cache.
type Store struct {
	log zerolog.Logger

	mu    sync.Mutex
	state State

	subMu     sync.RWMutex
	listeners map[ListenerID]Listener
	nextID    ListenerID
}

func New() *Store {
	return &Store{
		log: logx.Component("uistore"),
		state: State{
			ModalMode:   ModalCreate,
			ChatHistory: map[string][]model.ChatMessage{},
			Typing:      map[string]bool{},
		},
		listeners: map[ListenerID]Listener{},
	}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l and returns the token to unregister it.
func (s *Store) Subscribe(l Listener) ListenerID {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextID++
	s.listeners[s.nextID] = l
	return s.nextID
}

func (s *Store) Unsubscribe(id ListenerID) {
	s.subMu.Lock()
	delete(s.listeners, id)
	s.subMu.Unlock()
}

// update applies fn to a copy of the state under the lock and notifies every
// listener outside it.
func (s *Store) update(action string, fn func(st *State)) {
	s.mu.Lock()
	prev := s.state
	next := prev
	fn(&next)
	s.state = next
	s.mu.Unlock()

	s.log.Debug().Str("action", action).Bool("modal_open", next.IsModalOpen).Msg("ui state updated")

	s.subMu.RLock()
	ls := slices.Collect(maps.Values(s.listeners))
	s.subMu.RUnlock()
	for _, l := range ls {
		l(next, prev)
	}
}

// OpenModal opens the assistant modal. a may be nil (create without draft).
func (s *Store) OpenModal(mode ModalMode, a *model.Assistant) {
	s.update("openModal", func(st *State) {
		st.IsModalOpen = true
		st.ModalMode = mode
		st.SelectedAssistant = cloneAssistant(a)
	})
}

// CloseModal hides the modal and drops the selection. The mode keeps its
// last value.
func (s *Store) CloseModal() {
	s.update("closeModal", func(st *State) {
		st.IsModalOpen = false
		st.SelectedAssistant = nil
	})
}

func (s *Store) SelectAssistant(a *model.Assistant) {
	s.update("selectAssistant", func(st *State) {
		st.SelectedAssistant = cloneAssistant(a)
	})
}

// AddChatMessage appends msg to the transcript of id, creating it if absent.
func (s *Store) AddChatMessage(id string, msg model.ChatMessage) {
	s.update("addChatMessage", func(st *State) {
		st.ChatHistory = maps.Clone(st.ChatHistory)
		st.ChatHistory[id] = append(slices.Clip(st.ChatHistory[id]), msg)
	})
}

// ResetChat empties the transcript of id. The key is kept.
func (s *Store) ResetChat(id string) {
	s.update("resetChat", func(st *State) {
		st.ChatHistory = maps.Clone(st.ChatHistory)
		st.ChatHistory[id] = []model.ChatMessage{}
	})
}

// SetTyping raises or clears the reply indicator for id.
func (s *Store) SetTyping(id string, typing bool) {
	s.update("setTyping", func(st *State) {
		st.Typing = maps.Clone(st.Typing)
		if typing {
			st.Typing[id] = true
		} else {
			delete(st.Typing, id)
		}
	})
}

func cloneAssistant(a *model.Assistant) *model.Assistant {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}
