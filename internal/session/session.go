// Package session implements the dashboard interaction state machine:
// four view modes, two independent chat transcripts, and the command set
// the presentation layer drives it with. State changes only through
// commands, and every user-visible transition is applied atomically.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	commonerrors "x360-agent/internal/common/errors"
	"x360-agent/internal/common/logger"
	"x360-agent/internal/common/metrics"
	"x360-agent/internal/gateway"
	"x360-agent/internal/models"
)

// Channel identifies which transcript a message belongs to.
type Channel string

const (
	ChannelAgent  Channel = "agent"  // ASK mode
	ChannelAction Channel = "action" // DO mode
)

// syntheticOpenFile is the locally generated context message appended
// when a briefing item is opened. Rendered verbatim by the UI.
const syntheticOpenFile = "I've opened the intelligence file for **%s**.\n\nI can analyze the root cause or we can switch to **Actions** mode to execute a fix."

// State is the full reducer state. Snapshot returns deep copies, so
// holders of a State can never corrupt the session.
type State struct {
	View          models.ViewMode          `json:"view"`
	Briefing      *models.BriefingResponse `json:"briefing"`
	AgentHistory  []models.ChatMessage     `json:"agentHistory"`
	ActionHistory []models.ChatMessage     `json:"actionHistory"`
	Typing        bool                     `json:"typing"`
	Prefill       string                   `json:"prefill"`
}

// ChatGateway is the slice of the gateway client the session needs.
type ChatGateway interface {
	Chat(ctx context.Context, req gateway.ChatRequest) gateway.ChatResult
}

// Session is one user's dashboard state. All commands are safe for
// concurrent use; the mutex stands in for the UI's single event loop.
type Session struct {
	id      string
	gateway ChatGateway
	tickets []models.Ticket
	logger  logger.Logger

	mu    sync.Mutex
	state State

	// Monotonic send counters per channel. A response is applied only if
	// no newer send was issued on its channel while it was in flight.
	issued  map[Channel]uint64
	applied map[Channel]uint64

	now   func() time.Time
	newID func() string
}

func New(gw ChatGateway, tickets []models.Ticket, log logger.Logger) *Session {
	id := uuid.New().String()
	return &Session{
		id:      id,
		gateway: gw,
		tickets: tickets,
		logger:  log.WithFields(map[string]interface{}{"sessionId": id}),
		state: State{
			View:          models.ViewTell,
			AgentHistory:  []models.ChatMessage{},
			ActionHistory: []models.ChatMessage{},
		},
		issued:  make(map[Channel]uint64),
		applied: make(map[Channel]uint64),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// SetBriefing installs the once-per-session briefing result.
func (s *Session) SetBriefing(b models.BriefingResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Briefing = &b
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyStateLocked()
}

func (s *Session) copyStateLocked() State {
	out := s.state
	out.AgentHistory = append([]models.ChatMessage{}, s.state.AgentHistory...)
	out.ActionHistory = append([]models.ChatMessage{}, s.state.ActionHistory...)
	if s.state.Briefing != nil {
		b := *s.state.Briefing
		b.Items = append([]models.BriefingItem{}, s.state.Briefing.Items...)
		out.Briefing = &b
	}
	return out
}

// SelectView switches the active view. A pure mode change: histories,
// prefill, and typing state are untouched.
func (s *Session) SelectView(mode models.ViewMode) (State, error) {
	if !models.ValidViewMode(mode) {
		return State{}, commonerrors.NewInvalidViewModeError(string(mode))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.View = mode
	metrics.SessionCommandsTotal.WithLabelValues("select_view").Inc()
	return s.copyStateLocked(), nil
}

// ClickBriefingItem opens an insight for analysis: jumps to ASK, stages
// the playbook question as prefill, and appends a synthetic model
// message so the transcript explains the jump.
func (s *Session) ClickBriefingItem(item models.BriefingItem) State {
	prefill := fmt.Sprintf(
		"What is the recommended playbook for the %s related to %s?",
		strings.ReplaceAll(item.Type, "_", " "),
		strings.Join(item.RelatedTicketIDs, ", "),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.View = models.ViewAsk
	s.state.Prefill = prefill
	s.state.AgentHistory = append(s.state.AgentHistory, models.ChatMessage{
		ID:        s.newID(),
		Role:      models.RoleModel,
		Content:   fmt.Sprintf(syntheticOpenFile, item.Title),
		Timestamp: s.now().UnixMilli(),
		Origin:    models.OriginLocal,
	})
	metrics.SessionCommandsTotal.WithLabelValues("click_briefing_item").Inc()
	return s.copyStateLocked()
}

// SendMessage sends one user turn on the channel implied by the current
// view (DO uses the action transcript, every other view the agent one).
// The user message is appended before the gateway call; a response is
// discarded if a newer send on the same channel overtook it.
func (s *Session) SendMessage(ctx context.Context, text string) State {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return s.Snapshot()
	}

	s.mu.Lock()
	channel := ChannelAgent
	mode := models.ViewAsk
	if s.state.View == models.ViewDo {
		channel = ChannelAction
		mode = models.ViewDo
	}
	seq := s.beginSendLocked(channel, trimmed, false)
	req := s.buildChatRequestLocked(trimmed, channel, mode)
	s.mu.Unlock()

	metrics.SessionCommandsTotal.WithLabelValues("send_message").Inc()
	result := s.gateway.Chat(ctx, req)
	return s.applyResponse(channel, seq, result)
}

// RunAction executes a suggested action: forces the DO view, records the
// command as if the user typed it, and runs the chat protocol on the
// action channel regardless of where the click came from.
func (s *Session) RunAction(ctx context.Context, command string) State {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return s.Snapshot()
	}

	s.mu.Lock()
	s.state.View = models.ViewDo
	seq := s.beginSendLocked(ChannelAction, trimmed, true)
	req := s.buildChatRequestLocked(trimmed, ChannelAction, models.ViewDo)
	s.mu.Unlock()

	metrics.SessionCommandsTotal.WithLabelValues("run_action").Inc()
	result := s.gateway.Chat(ctx, req)
	return s.applyResponse(ChannelAction, seq, result)
}

// ClearChat empties the transcript of the active view's channel and
// always drops the prefill. TELL and DATA have no channel, so only the
// prefill goes. Idempotent.
func (s *Session) ClearChat() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.View {
	case models.ViewDo:
		s.state.ActionHistory = []models.ChatMessage{}
	case models.ViewAsk:
		s.state.AgentHistory = []models.ChatMessage{}
	}
	s.state.Prefill = ""
	metrics.SessionCommandsTotal.WithLabelValues("clear_chat").Inc()
	return s.copyStateLocked()
}

// beginSendLocked appends the optimistic user message, marks typing, and
// issues the next sequence number for the channel.
func (s *Session) beginSendLocked(channel Channel, content string, isAction bool) uint64 {
	msg := models.ChatMessage{
		ID:        s.newID(),
		Role:      models.RoleUser,
		Content:   content,
		Timestamp: s.now().UnixMilli(),
		IsAction:  isAction,
		Origin:    models.OriginLocal,
	}
	s.appendLocked(channel, msg)
	s.state.Typing = true
	s.issued[channel]++
	return s.issued[channel]
}

func (s *Session) buildChatRequestLocked(message string, channel Channel, mode models.ViewMode) gateway.ChatRequest {
	history := s.state.AgentHistory
	if channel == ChannelAction {
		history = s.state.ActionHistory
	}
	return gateway.ChatRequest{
		Message: message,
		History: append([]models.ChatMessage{}, history...),
		Mode:    mode,
		Context: gateway.ChatContext{
			Data:     s.tickets,
			Briefing: s.state.Briefing,
		},
	}
}

// applyResponse appends the model reply unless a newer send on the same
// channel was issued while this one was in flight.
func (s *Session) applyResponse(channel Channel, seq uint64, result gateway.ChatResult) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.issued[channel] {
		metrics.StaleResponsesDiscarded.WithLabelValues(string(channel)).Inc()
		s.logger.Debug("Discarded stale chat response", map[string]interface{}{
			"channel":     string(channel),
			"seq":         seq,
			"latest":      s.issued[channel],
			"lastApplied": s.applied[channel],
		})
		return s.copyStateLocked()
	}

	origin := models.OriginGateway
	if result.Degraded {
		origin = models.OriginLocal
	}
	s.appendLocked(channel, models.ChatMessage{
		ID:        s.newID(),
		Role:      models.RoleModel,
		Content:   result.Response,
		Timestamp: s.now().UnixMilli(),
		Citations: result.Citations,
		Origin:    origin,
	})
	s.applied[channel] = seq
	s.state.Typing = false
	return s.copyStateLocked()
}

func (s *Session) appendLocked(channel Channel, msg models.ChatMessage) {
	if channel == ChannelAction {
		s.state.ActionHistory = append(s.state.ActionHistory, msg)
		return
	}
	s.state.AgentHistory = append(s.state.AgentHistory, msg)
}
