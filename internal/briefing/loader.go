// Package briefing runs the morning briefing with a minimum display
// window: the gateway call and a fixed timer start together, and Load
// returns only when both are done. The window keeps the analysis
// animation from flashing when the backend answers instantly.
package briefing

import (
	"context"
	"time"

	"x360-agent/internal/common/logger"
	"x360-agent/internal/common/metrics"
	"x360-agent/internal/models"
)

// Gateway is the slice of the gateway client the loader needs. The
// client degrades internally, so Load never has a failure path.
type Gateway interface {
	Briefing(ctx context.Context, tickets []models.Ticket) models.BriefingResponse
}

type Loader struct {
	gateway     Gateway
	minDuration time.Duration
	logger      logger.Logger
}

func NewLoader(gw Gateway, minDuration time.Duration, log logger.Logger) *Loader {
	return &Loader{
		gateway:     gw,
		minDuration: minDuration,
		logger:      log,
	}
}

// Load runs the briefing call concurrently with the minimum-duration
// timer and returns when both have finished.
func (l *Loader) Load(ctx context.Context, tickets []models.Ticket) models.BriefingResponse {
	start := time.Now()

	timer := time.NewTimer(l.minDuration)
	defer timer.Stop()

	resultCh := make(chan models.BriefingResponse, 1)
	go func() {
		resultCh <- l.gateway.Briefing(ctx, tickets)
	}()

	result := <-resultCh
	<-timer.C

	elapsed := time.Since(start)
	metrics.BriefingLoadDuration.Observe(elapsed.Seconds())
	l.logger.Info("Briefing loaded", map[string]interface{}{
		"items":      len(result.Items),
		"durationMs": elapsed.Milliseconds(),
	})
	return result
}
