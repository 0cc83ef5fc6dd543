package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	commonerrors "x360-agent/internal/common/errors"
	"x360-agent/internal/common/logger"
	"x360-agent/internal/models"
)

type instantLoader struct {
	briefing models.BriefingResponse
}

func (l instantLoader) Load(ctx context.Context, tickets []models.Ticket) models.BriefingResponse {
	return l.briefing
}

func TestManager_CreateAndGet(t *testing.T) {
	loader := instantLoader{briefing: models.BriefingResponse{
		Summary: "All quiet.",
		Items:   []models.BriefingItem{},
	}}
	m := NewManager(newFakeGateway(), loader, []models.Ticket{{ID: "TKT-1"}}, logger.NewTestLogger(t))

	s := m.Create(context.Background())
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, 1, m.Count())

	got, err := m.Get(s.ID())
	assert.NoError(t, err)
	assert.Equal(t, s.ID(), got.ID())

	state := got.Snapshot()
	assert.NotNil(t, state.Briefing)
	assert.Equal(t, "All quiet.", state.Briefing.Summary)
}

func TestManager_GetUnknownSession(t *testing.T) {
	m := NewManager(newFakeGateway(), instantLoader{}, nil, logger.NewTestLogger(t))

	_, err := m.Get("nope")

	stdErr, ok := err.(*commonerrors.StandardError)
	assert.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeSessionNotFound, stdErr.Code)
}

func TestManager_Delete(t *testing.T) {
	m := NewManager(newFakeGateway(), instantLoader{}, nil, logger.NewTestLogger(t))
	s := m.Create(context.Background())

	m.Delete(s.ID())
	assert.Equal(t, 0, m.Count())

	_, err := m.Get(s.ID())
	assert.Error(t, err)

	// Deleting twice is a no-op.
	m.Delete(s.ID())
	assert.Equal(t, 0, m.Count())
}
