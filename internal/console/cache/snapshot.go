package cache

import (
	"time"

	"github.com/assistant-console/core/internal/console/model"
)

// Status is the fetch status of the collection entry.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// DeletePhase tells the presentation layer how far a delete has progressed.
type DeletePhase int

const (
	// DeletePending: the remote call has not settled yet.
	DeletePending DeletePhase = iota + 1
	// DeleteConfirmed: the remote accepted the delete; the entry stays visible
	// until the visibility delay elapses.
	DeleteConfirmed
)

// Snapshot is an immutable copy of the cache entry at one instant.
type Snapshot struct {
	Key          string
	Data         []model.Assistant
	Status       Status
	IsRefetching bool
	Err          error
	Deleting     map[string]DeletePhase
	FetchedAt    time.Time
	// Version increases on every transition; observers can drop older ones.
	Version uint64
}

// IsLoading is true before the first successful fetch has produced data.
func (s Snapshot) IsLoading() bool {
	return s.Status == StatusLoading && s.Data == nil
}

// Find returns the assistant with id, if present.
func (s Snapshot) Find(id string) (model.Assistant, bool) {
	if i := model.IndexOf(s.Data, id); i >= 0 {
		return s.Data[i], true
	}
	return model.Assistant{}, false
}
