package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"x360-agent/internal/analyzer"
	"x360-agent/internal/common/logger"
	"x360-agent/internal/gateway"
	"x360-agent/internal/models"
	"x360-agent/internal/session"
	"x360-agent/internal/store"
)

type fakeChatGateway struct{}

func (fakeChatGateway) Chat(ctx context.Context, req gateway.ChatRequest) gateway.ChatResult {
	return gateway.ChatResult{Response: "reply to: " + req.Message}
}

type fakeLoader struct{}

func (fakeLoader) Load(ctx context.Context, tickets []models.Ticket) models.BriefingResponse {
	return models.BriefingResponse{
		Summary: "Two conflicts and one breach overnight.",
		Items: []models.BriefingItem{{
			ID:               "insight-1",
			Type:             models.BriefingSLABreach,
			Title:            "TKT-99 blew its SLA",
			Description:      "Production outage past due.",
			Severity:         "CRITICAL",
			RelatedTicketIDs: []string{"TKT-99"},
			SuggestedAction:  "Escalate to on-call.",
		}},
	}
}

type fakeHealth struct{ up bool }

func (f fakeHealth) Health(ctx context.Context) bool { return f.up }

func newTestServer(t *testing.T, healthy bool) *Server {
	log := logger.NewTestLogger(t)

	st, err := store.New(context.Background(), store.NewSeedSource(), log)
	assert.NoError(t, err)

	manager := session.NewManager(fakeChatGateway{}, fakeLoader{}, st.Tickets(), log)

	return NewServer(Deps{
		Manager: manager,
		Store:   st,
		Health:  fakeHealth{up: healthy},
		Policy:  analyzer.PolicyDuplicatePresence,
		Logger:  log,
	})
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, srv *Server) string {
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/sessions", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		SessionID string        `json:"sessionId"`
		State     session.State `json:"state"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, models.ViewTell, resp.State.View)
	assert.NotNil(t, resp.State.Briefing)
	return resp.SessionID
}

func TestCreateSession(t *testing.T) {
	srv := newTestServer(t, true)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		State session.State `json:"state"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Two conflicts and one breach overnight.", resp.State.Briefing.Summary)
}

func TestUnknownSessionIs404(t *testing.T) {
	srv := newTestServer(t, true)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/sessions/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "SESSION_NOT_FOUND")
}

func TestSelectView(t *testing.T) {
	srv := newTestServer(t, true)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/view", map[string]string{"mode": "DATA"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		State session.State `json:"state"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ViewData, resp.State.View)

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/view", map[string]string{"mode": "SHOUT"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_VIEW_MODE")
}

func TestSendMessageFlow(t *testing.T) {
	srv := newTestServer(t, true)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/messages",
		map[string]string{"content": "What broke overnight?"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		State session.State `json:"state"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.State.AgentHistory, 2)
	assert.Equal(t, "reply to: What broke overnight?", resp.State.AgentHistory[1].Content)
	assert.False(t, resp.State.Typing)
}

func TestRunActionForcesDoView(t *testing.T) {
	srv := newTestServer(t, true)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/actions",
		map[string]string{"command": "Escalate TKT-99 to on-call."})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		State session.State `json:"state"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ViewDo, resp.State.View)
	assert.Len(t, resp.State.ActionHistory, 2)
	assert.True(t, resp.State.ActionHistory[0].IsAction)
	assert.Empty(t, resp.State.AgentHistory)
}

func TestBriefingItemClick(t *testing.T) {
	srv := newTestServer(t, true)
	id := createSession(t, srv)

	item := models.BriefingItem{
		ID:               "insight-1",
		Type:             models.BriefingDataConflict,
		Title:            "Two versions of TKT-101",
		Description:      "Sources disagree.",
		Severity:         "HIGH",
		RelatedTicketIDs: []string{"TKT-101"},
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/briefing-item", item)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		State session.State `json:"state"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ViewAsk, resp.State.View)
	assert.Equal(t,
		"What is the recommended playbook for the DATA CONFLICT related to TKT-101?",
		resp.State.Prefill)
	assert.Len(t, resp.State.AgentHistory, 1)
}

func TestClearChat(t *testing.T) {
	srv := newTestServer(t, true)
	id := createSession(t, srv)

	doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/view", map[string]string{"mode": "ASK"})
	doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/messages", map[string]string{"content": "hi"})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/sessions/"+id+"/chat/clear", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		State session.State `json:"state"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.State.AgentHistory)
	assert.Empty(t, resp.State.Prefill)
}

func TestDeleteSession(t *testing.T) {
	srv := newTestServer(t, true)
	id := createSession(t, srv)

	rec := doJSON(t, srv, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTickets(t *testing.T) {
	srv := newTestServer(t, true)

	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{"all records", "", 7},
		{"conflicts", "?filter=CONFLICTS", 4},
		{"overdue", "?filter=OVERDUE", 1},
		{"critical", "?filter=CRITICAL", 2},
		{"search", "?search=initech", 1},
		{"search and filter", "?search=globex&filter=CONFLICTS", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodGet, "/api/v1/tickets"+tt.query, nil)
			assert.Equal(t, http.StatusOK, rec.Code)

			var resp struct {
				Tickets []models.Ticket `json:"tickets"`
				Total   int             `json:"total"`
			}
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expected, resp.Total)
			assert.Len(t, resp.Tickets, tt.expected)
		})
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/tickets?filter=BOGUS", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_FILTER_MODE")
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, true)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/stats", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats models.DerivedStats
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 7, stats.Total)
	assert.Equal(t, []string{"TKT-101", "TKT-108"}, stats.ConflictIDs)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 2, stats.Critical)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, true)
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	degraded := newTestServer(t, false)
	rec = doJSON(t, degraded, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}
