package store

import (
	"context"
	"time"

	commonerrors "x360-agent/internal/common/errors"
	"x360-agent/internal/common/logger"
	"x360-agent/internal/models"
)

// Store holds the dataset loaded at startup. It is safe for concurrent
// readers because nothing writes after New returns.
type Store struct {
	tickets  []models.Ticket
	source   string
	loadedAt time.Time
}

// New loads the dataset from src. An empty dataset is rejected: a
// dashboard over zero records means the source is misconfigured.
func New(ctx context.Context, src Source, log logger.Logger) (*Store, error) {
	tickets, err := src.Load(ctx)
	if err != nil {
		return nil, commonerrors.NewStoreSourceFailedError(src.Name(), err)
	}
	if len(tickets) == 0 {
		return nil, commonerrors.NewStoreEmptyError(src.Name())
	}

	s := &Store{
		tickets:  tickets,
		source:   src.Name(),
		loadedAt: time.Now().UTC(),
	}

	log.Info("Ticket store loaded", map[string]interface{}{
		"source":  s.source,
		"records": len(s.tickets),
	})

	return s, nil
}

// Tickets returns a copy of the dataset in load order. Callers can do
// whatever they want with the copy.
func (s *Store) Tickets() []models.Ticket {
	out := make([]models.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

// Len returns the number of raw records, duplicates included.
func (s *Store) Len() int { return len(s.tickets) }

// Source returns the name of the source the dataset came from.
func (s *Store) Source() string { return s.source }

// LoadedAt returns when the dataset was loaded.
func (s *Store) LoadedAt() time.Time { return s.loadedAt }
