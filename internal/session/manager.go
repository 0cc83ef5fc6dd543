package session

import (
	"context"
	"sync"

	commonerrors "x360-agent/internal/common/errors"
	"x360-agent/internal/common/logger"
	"x360-agent/internal/common/metrics"
	"x360-agent/internal/models"
)

// BriefingLoader runs the once-per-session morning briefing.
type BriefingLoader interface {
	Load(ctx context.Context, tickets []models.Ticket) models.BriefingResponse
}

// Manager owns the live sessions. Sessions exist only in memory; a
// restart starts everyone fresh.
type Manager struct {
	gateway ChatGateway
	loader  BriefingLoader
	tickets []models.Ticket
	logger  logger.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(gw ChatGateway, loader BriefingLoader, tickets []models.Ticket, log logger.Logger) *Manager {
	return &Manager{
		gateway:  gw,
		loader:   loader,
		tickets:  tickets,
		logger:   log,
		sessions: make(map[string]*Session),
	}
}

// Create builds a new session and runs its briefing. The call returns
// only after the briefing loader's minimum display window has elapsed.
func (m *Manager) Create(ctx context.Context) *Session {
	s := New(m.gateway, m.tickets, m.logger)

	briefing := m.loader.Load(ctx, m.tickets)
	s.SetBriefing(briefing)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	metrics.SessionsActive.Inc()
	m.logger.Info("Session created", map[string]interface{}{
		"sessionId":     s.ID(),
		"briefingItems": len(briefing.Items),
	})
	return s
}

// Get looks up a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, commonerrors.NewSessionNotFoundError(id)
	}
	return s, nil
}

// Delete drops a session. Unknown IDs are a no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	_, existed := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if existed {
		metrics.SessionsActive.Dec()
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
