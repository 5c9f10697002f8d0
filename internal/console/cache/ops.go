package cache

import (
	"slices"
	"time"

	"github.com/assistant-console/core/internal/console/model"
)

type opKind string

const (
	opCreate opKind = "create"
	opUpdate opKind = "update"
	opDelete opKind = "delete"
)

var fallbackMessages = map[opKind]string{
	opCreate: "Error al crear el asistente",
	opUpdate: "Error al actualizar el asistente",
	opDelete: "Error al eliminar el asistente",
}

// op is one pending optimistic write.
type op struct {
	seq     uint64
	kind    opKind
	id      string
	payload model.Assistant
	// delete only: position of the record when the delete started
	index     int
	confirmed bool
	timer     *time.Timer
	m         *Mutation
}

// apply returns list with the optimistic effect of o. Deletes never remove:
// they keep the record visible, reinserting it if a fetch dropped it.
func (o *op) apply(list []model.Assistant) []model.Assistant {
	i := model.IndexOf(list, o.id)
	switch o.kind {
	case opCreate:
		if i >= 0 {
			list[i] = o.payload
			return list
		}
		return append(list, o.payload)
	case opUpdate:
		if i >= 0 {
			list[i] = o.payload
		}
	case opDelete:
		if i < 0 {
			return slices.Insert(list, min(o.index, len(list)), o.payload)
		}
	}
	return list
}

// project computes the visible data: base with every pending op applied in
// start order. A nil base with no ops stays nil.
func project(base []model.Assistant, ops []*op) []model.Assistant {
	if base == nil && len(ops) == 0 {
		return nil
	}
	out := make([]model.Assistant, len(base), len(base)+len(ops))
	copy(out, base)
	for _, o := range ops {
		out = o.apply(out)
	}
	return out
}
