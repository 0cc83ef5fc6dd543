package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"x360-agent/internal/analyzer"
	commonerrors "x360-agent/internal/common/errors"
	"x360-agent/internal/models"
	"x360-agent/internal/session"
)

type sessionResponse struct {
	SessionID string        `json:"sessionId"`
	State     session.State `json:"state"`
}

func (s *Server) handleCreateSession(c *gin.Context) {
	sess := s.manager.Create(c.Request.Context())
	c.JSON(http.StatusCreated, sessionResponse{
		SessionID: sess.ID(),
		State:     sess.Snapshot(),
	})
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, "get_session", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{SessionID: sess.ID(), State: sess.Snapshot()})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	s.manager.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSelectView(c *gin.Context) {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, "select_view", err)
		return
	}

	var body struct {
		Mode models.ViewMode `json:"mode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respondError(c, "select_view", commonerrors.NewInvalidViewModeError(""))
		return
	}

	state, err := sess.SelectView(body.Mode)
	if err != nil {
		s.respondError(c, "select_view", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{SessionID: sess.ID(), State: state})
}

func (s *Server) handleBriefingItem(c *gin.Context) {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, "click_briefing_item", err)
		return
	}

	var item models.BriefingItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed briefing item"})
		return
	}

	state := sess.ClickBriefingItem(item)
	c.JSON(http.StatusOK, sessionResponse{SessionID: sess.ID(), State: state})
}

func (s *Server) handleSendMessage(c *gin.Context) {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, "send_message", err)
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed message body"})
		return
	}

	state := sess.SendMessage(c.Request.Context(), body.Content)
	c.JSON(http.StatusOK, sessionResponse{SessionID: sess.ID(), State: state})
}

func (s *Server) handleRunAction(c *gin.Context) {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, "run_action", err)
		return
	}

	var body struct {
		Command string `json:"command"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed action body"})
		return
	}

	state := sess.RunAction(c.Request.Context(), body.Command)
	c.JSON(http.StatusOK, sessionResponse{SessionID: sess.ID(), State: state})
}

func (s *Server) handleClearChat(c *gin.Context) {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, "clear_chat", err)
		return
	}
	state := sess.ClearChat()
	c.JSON(http.StatusOK, sessionResponse{SessionID: sess.ID(), State: state})
}

func (s *Server) handleListTickets(c *gin.Context) {
	search := c.Query("search")
	filter := models.FilterMode(c.DefaultQuery("filter", string(models.FilterAll)))
	if !models.ValidFilterMode(filter) {
		s.respondError(c, "list_tickets", commonerrors.NewInvalidFilterModeError(string(filter)))
		return
	}

	tickets := s.store.Tickets()
	today := s.now()
	stats := analyzer.ComputeStats(tickets, today, s.policy)
	filtered := analyzer.FilterTickets(tickets, search, filter, stats.ConflictIDs, today)

	c.JSON(http.StatusOK, gin.H{
		"tickets": filtered,
		"total":   len(filtered),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	stats := analyzer.ComputeStats(s.store.Tickets(), s.now(), s.policy)
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleHealth(c *gin.Context) {
	gatewayUp := s.health.Health(c.Request.Context())

	status := "ok"
	if !gatewayUp {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"gateway": gatewayUp,
		"store": gin.H{
			"source":  s.store.Source(),
			"records": s.store.Len(),
		},
	})
}
