// Package store owns the immutable in-memory ticket dataset. Records are
// loaded exactly once at startup from a configured source and never
// mutated afterwards; duplicate IDs with contradictory fields are kept
// verbatim because surfacing them is the whole point.
package store

import (
	"context"

	"x360-agent/internal/models"
)

// Source loads the raw ticket dataset at startup.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]models.Ticket, error)
}
