package models

import "time"

// Ticket statuses as they appear in upstream data. Records are taken
// verbatim from the virtualization layer, so unknown values are kept as-is.
const (
	StatusOpen          = "Open"
	StatusInProgress    = "In Progress"
	StatusClosed        = "Closed"
	StatusResolved      = "Resolved"
	StatusPendingVendor = "Pending Vendor"
)

const (
	PriorityCritical = "Critical"
	PriorityHigh     = "High"
	PriorityMedium   = "Medium"
	PriorityLow      = "Low"
)

// DateLayout is the calendar-date wire format for ticket dates.
const DateLayout = "2006-01-02"

// Ticket is a single raw record from the data virtualization layer.
// Duplicate IDs with contradictory fields are valid data, not an error.
type Ticket struct {
	ID          string `json:"id"`
	Customer    string `json:"customer"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	CreatedDate string `json:"createdDate"`
	DueDate     string `json:"dueDate"`
	Source      string `json:"source"`
	Assignee    string `json:"assignee"`
}

// Due parses the ticket's due date. The bool is false when the field is
// missing or not a calendar date.
func (t Ticket) Due() (time.Time, bool) {
	d, err := time.Parse(DateLayout, t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// FilterMode selects a ticket category in list queries.
type FilterMode string

const (
	FilterAll       FilterMode = "ALL"
	FilterConflicts FilterMode = "CONFLICTS"
	FilterOverdue   FilterMode = "OVERDUE"
	FilterCritical  FilterMode = "CRITICAL"
)

// ValidFilterMode reports whether m is one of the four list categories.
func ValidFilterMode(m FilterMode) bool {
	switch m {
	case FilterAll, FilterConflicts, FilterOverdue, FilterCritical:
		return true
	}
	return false
}

// DerivedStats is the analyzer output consumed by the dashboard header
// and the category filters.
type DerivedStats struct {
	Total       int      `json:"total"`
	ConflictIDs []string `json:"conflictIds"`
	Overdue     int      `json:"overdue"`
	Critical    int      `json:"critical"`
}
