package models

// Briefing item types produced by the briefing agent.
const (
	BriefingSLABreach    = "SLA_BREACH"
	BriefingDataConflict = "DATA_CONFLICT"
	BriefingInsight      = "INSIGHT"
)

// BriefingItem is one actionable insight from the morning briefing.
type BriefingItem struct {
	ID               string   `json:"id"`
	Type             string   `json:"type"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Severity         string   `json:"severity"`
	RelatedTicketIDs []string `json:"relatedTicketIds"`
	SuggestedAction  string   `json:"suggestedAction,omitempty"`
}

// BriefingResponse is the morning briefing payload. A degraded gateway
// yields a fixed offline summary with no items.
type BriefingResponse struct {
	Summary string         `json:"summary"`
	Items   []BriefingItem `json:"items"`
}
