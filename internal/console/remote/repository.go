package remote

import (
	"context"

	"github.com/assistant-console/core/internal/console/model"
)

// DeleteFailureMessage is the text of the injected delete failure.
const DeleteFailureMessage = "Fallo la eliminacion del asistente"

// Repository is the asynchronous contract the collection cache consumes.
// Create and Update echo their input.
type Repository interface {
	List(ctx context.Context) ([]model.Assistant, error)
	Create(ctx context.Context, a model.Assistant) (model.Assistant, error)
	Update(ctx context.Context, a model.Assistant) (model.Assistant, error)
	Delete(ctx context.Context, id string) error
}
