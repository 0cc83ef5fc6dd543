package briefing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"x360-agent/internal/common/logger"
	"x360-agent/internal/gateway"
	"x360-agent/internal/models"
)

type stubGateway struct {
	delay    time.Duration
	response models.BriefingResponse
}

func (s stubGateway) Briefing(ctx context.Context, tickets []models.Ticket) models.BriefingResponse {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.response
}

func TestLoad_WaitsForMinimumDuration(t *testing.T) {
	gw := stubGateway{response: models.BriefingResponse{Summary: "instant"}}
	loader := NewLoader(gw, 100*time.Millisecond, logger.NewTestLogger(t))

	start := time.Now()
	result := loader.Load(context.Background(), nil)
	elapsed := time.Since(start)

	assert.Equal(t, "instant", result.Summary)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond,
		"an instant gateway answer must still hold the display window")
}

func TestLoad_SlowGatewayDominates(t *testing.T) {
	gw := stubGateway{
		delay:    120 * time.Millisecond,
		response: models.BriefingResponse{Summary: "slow"},
	}
	loader := NewLoader(gw, 10*time.Millisecond, logger.NewTestLogger(t))

	start := time.Now()
	result := loader.Load(context.Background(), nil)
	elapsed := time.Since(start)

	assert.Equal(t, "slow", result.Summary)
	assert.GreaterOrEqual(t, elapsed, 120*time.Millisecond)
	assert.Less(t, elapsed, 400*time.Millisecond, "timer and call must overlap, not stack")
}

func TestLoad_PassesThroughDegradedResult(t *testing.T) {
	gw := stubGateway{response: models.BriefingResponse{
		Summary: gateway.BriefingFallbackSummary,
		Items:   []models.BriefingItem{},
	}}
	loader := NewLoader(gw, time.Millisecond, logger.NewTestLogger(t))

	result := loader.Load(context.Background(), nil)

	assert.Equal(t, gateway.BriefingFallbackSummary, result.Summary)
	assert.Empty(t, result.Items)
}
