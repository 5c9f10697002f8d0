package rules

import (
	"context"
	"fmt"
)

// Store persists the free-text training rules of each assistant outside the
// collection cache. A missing key reads as the empty string.
type Store interface {
	Save(ctx context.Context, assistantID, text string) error
	Load(ctx context.Context, assistantID string) (string, error)
	Delete(ctx context.Context, assistantID string) error
}

// Key returns the storage key for assistantID, e.g. "training-rules-1".
func Key(prefix, assistantID string) string {
	if prefix == "" {
		prefix = "training-rules-"
	}
	return fmt.Sprintf("%s%s", prefix, assistantID)
}
