// Package gateway is the HTTP client for the X360 agent backend. It is
// the only network boundary of the core: every call degrades to a fixed
// fallback payload instead of surfacing an error, so callers never have
// to special-case an offline backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	commonhttp "x360-agent/internal/common/http"
	"x360-agent/internal/common/logger"
	"x360-agent/internal/common/metrics"
	"x360-agent/internal/models"
)

// Degraded-mode payloads. These exact strings are part of the product
// contract; the presentation layer renders them verbatim.
const (
	BriefingFallbackSummary = "System is offline. Displaying cached operational data."
	ChatFallbackResponse    = "I am having trouble connecting to the X360 core. Please check your connection."
)

const (
	briefingPath = "/api/v1/briefing"
	chatPath     = "/api/v1/chat"
	healthPath   = "/api/v1/health"
)

// Config holds the gateway client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Client talks to the agent backend.
type Client struct {
	config     Config
	httpClient *commonhttp.Client
	logger     logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	return &Client{
		config:     cfg,
		httpClient: commonhttp.NewClient(cfg.Timeout),
		logger:     log,
	}
}

// ChatContext carries the dataset and briefing the backend grounds its
// answers in.
type ChatContext struct {
	Data     []models.Ticket          `json:"data,omitempty"`
	Briefing *models.BriefingResponse `json:"briefing,omitempty"`
}

// ChatRequest is one outbound chat turn. History already includes the
// optimistic user message.
type ChatRequest struct {
	Message string
	History []models.ChatMessage
	Mode    models.ViewMode
	Context ChatContext
}

// ChatResult is what the session layer appends to the transcript.
// Degraded marks the fixed fallback text.
type ChatResult struct {
	Response  string
	Citations []models.Citation
	Degraded  bool
}

// wireMessage is the history entry format the backend expects. Local
// bookkeeping fields (id, origin) stay on our side of the boundary.
type wireMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	IsAction  bool   `json:"isAction"`
}

// Briefing runs the morning briefing analysis over the raw dataset.
// Transport failures, bad statuses, and malformed payloads all yield the
// offline fallback.
func (c *Client) Briefing(ctx context.Context, tickets []models.Ticket) models.BriefingResponse {
	body := map[string]interface{}{"data": tickets}

	var result models.BriefingResponse
	raw, err := c.post(ctx, "briefing", briefingPath, body)
	if err == nil {
		err = decodeBriefing(raw, &result)
	}
	if err != nil {
		c.logger.Warn("Briefing degraded to fallback", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.GatewayFallbacksTotal.WithLabelValues("briefing").Inc()
		return models.BriefingResponse{
			Summary: BriefingFallbackSummary,
			Items:   []models.BriefingItem{},
		}
	}
	if result.Items == nil {
		result.Items = []models.BriefingItem{}
	}
	return result
}

// Chat sends one turn to the backend agent. Failures yield the fixed
// connection-trouble response with no citations.
func (c *Client) Chat(ctx context.Context, req ChatRequest) ChatResult {
	history := make([]wireMessage, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, wireMessage{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp,
			IsAction:  m.IsAction,
		})
	}

	body := map[string]interface{}{
		"message": req.Message,
		"history": history,
		"mode":    req.Mode,
		"context": req.Context,
	}

	var decoded struct {
		Response  string            `json:"response"`
		Citations []models.Citation `json:"citations"`
	}

	raw, err := c.post(ctx, "chat", chatPath, body)
	if err == nil {
		if jsonErr := json.Unmarshal(raw, &decoded); jsonErr != nil {
			err = fmt.Errorf("malformed chat payload: %w", jsonErr)
		} else if decoded.Response == "" {
			err = fmt.Errorf("chat payload missing response text")
		}
	}
	if err != nil {
		c.logger.Warn("Chat degraded to fallback", map[string]interface{}{
			"mode":  string(req.Mode),
			"error": err.Error(),
		})
		metrics.GatewayFallbacksTotal.WithLabelValues("chat").Inc()
		return ChatResult{Response: ChatFallbackResponse, Degraded: true}
	}

	return ChatResult{Response: decoded.Response, Citations: decoded.Citations}
}

// Health reports whether the backend answers its liveness endpoint.
func (c *Client) Health(ctx context.Context) bool {
	url := c.config.BaseURL + healthPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// post sends a JSON body and retries transient failures with exponential
// backoff, honoring ctx throughout.
func (c *Client) post(ctx context.Context, operation, path string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", operation, err)
	}

	url := c.config.BaseURL + path
	start := time.Now()
	defer func() {
		metrics.GatewayRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(100*(1<<(attempt-2))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				metrics.GatewayRequestsTotal.WithLabelValues(operation, "timeout").Inc()
				return nil, ctx.Err()
			}
		}

		raw, err := c.attempt(ctx, url, payload)
		if err == nil {
			metrics.GatewayRequestsTotal.WithLabelValues(operation, "success").Inc()
			return raw, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			metrics.GatewayRequestsTotal.WithLabelValues(operation, "timeout").Inc()
			return nil, ctx.Err()
		}

		c.logger.Debug("Gateway attempt failed", map[string]interface{}{
			"operation": operation,
			"attempt":   attempt,
			"error":     err.Error(),
		})
	}

	metrics.GatewayRequestsTotal.WithLabelValues(operation, "error").Inc()
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return raw, nil
}
