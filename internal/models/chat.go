package models

// Chat message roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message origins. Synthetic transcript entries produced locally must stay
// distinguishable from text returned by the agent gateway.
const (
	OriginLocal   = "local"
	OriginGateway = "gateway"
)

// ViewMode is one of the four dashboard interaction modes.
type ViewMode string

const (
	ViewTell ViewMode = "TELL"
	ViewAsk  ViewMode = "ASK"
	ViewDo   ViewMode = "DO"
	ViewData ViewMode = "DATA"
)

// ValidViewMode reports whether m is a known interaction mode.
func ValidViewMode(m ViewMode) bool {
	switch m {
	case ViewTell, ViewAsk, ViewDo, ViewData:
		return true
	}
	return false
}

// Citation points at the retrieval chunk backing a model answer.
type Citation struct {
	Score        float64 `json:"score"`
	DocumentID   string  `json:"documentId"`
	SourceURI    string  `json:"sourceUri,omitempty"`
	ChunkID      string  `json:"chunkId,omitempty"`
	DataSourceID string  `json:"dataSourceId,omitempty"`
}

// ChatMessage is one transcript entry in either chat channel.
// Timestamp is epoch milliseconds, matching the gateway wire format.
type ChatMessage struct {
	ID        string     `json:"id"`
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp int64      `json:"timestamp"`
	IsAction  bool       `json:"isAction,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
	Origin    string     `json:"origin"`
}
