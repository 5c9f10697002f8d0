package uistore

import (
	"slices"

	"github.com/assistant-console/core/internal/console/model"
)

// Watch subscribes fn to one projection of the state. fn only runs when
// equal reports that the projected value changed.
func Watch[T any](s *Store, selector func(State) T, equal func(a, b T) bool, fn func(T)) ListenerID {
	return s.Subscribe(func(state, prev State) {
		next := selector(state)
		if equal(selector(prev), next) {
			return
		}
		fn(next)
	})
}

// WatchChat runs fn whenever the transcript of id changes.
func WatchChat(s *Store, id string, fn func([]model.ChatMessage)) ListenerID {
	return Watch(s,
		func(st State) []model.ChatMessage { return st.ChatHistory[id] },
		func(a, b []model.ChatMessage) bool {
			// reset to empty on an absent key is still a change
			if (a == nil) != (b == nil) {
				return false
			}
			return slices.Equal(a, b)
		},
		fn,
	)
}

// WatchModal runs fn whenever the modal opens, closes or switches mode.
func WatchModal(s *Store, fn func(open bool, mode ModalMode)) ListenerID {
	type modal struct {
		open bool
		mode ModalMode
	}
	return Watch(s,
		func(st State) modal { return modal{st.IsModalOpen, st.ModalMode} },
		func(a, b modal) bool { return a == b },
		func(m modal) { fn(m.open, m.mode) },
	)
}
