// Package analyzer derives conflict and SLA signals from the raw ticket
// dataset. Everything here is pure: same inputs, same outputs, no clock
// access and no mutation of the input slice.
package analyzer

import (
	"strings"
	"time"

	"x360-agent/internal/models"
)

// ConflictPolicy selects how contradictory records are flagged.
type ConflictPolicy string

const (
	// PolicyDuplicatePresence flags every ID that appears more than once.
	PolicyDuplicatePresence ConflictPolicy = "duplicate-presence"
	// PolicyFieldDivergence flags an ID only when records sharing it
	// disagree on status or priority.
	PolicyFieldDivergence ConflictPolicy = "field-divergence"
)

// ParsePolicy maps a config string to a policy, defaulting to
// duplicate-presence for empty or unknown values.
func ParsePolicy(s string) ConflictPolicy {
	if ConflictPolicy(s) == PolicyFieldDivergence {
		return PolicyFieldDivergence
	}
	return PolicyDuplicatePresence
}

// IsOverdue reports whether a ticket has blown its SLA: due date is a
// calendar day strictly before today and the status is not Closed.
// "Resolved" is not Closed, so a resolved ticket past due still counts.
// Unparseable due dates never count.
func IsOverdue(t models.Ticket, today time.Time) bool {
	if t.Status == models.StatusClosed {
		return false
	}
	due, ok := t.Due()
	if !ok {
		return false
	}
	y, m, d := today.Date()
	return due.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// ComputeStats derives the dashboard header numbers from the raw records.
// Conflict IDs keep first-appearance order. Overdue and Critical count
// records, not distinct IDs, matching the raw nature of the dataset.
func ComputeStats(tickets []models.Ticket, today time.Time, policy ConflictPolicy) models.DerivedStats {
	stats := models.DerivedStats{
		Total:       len(tickets),
		ConflictIDs: []string{},
	}

	order := make([]string, 0, len(tickets))
	groups := make(map[string][]models.Ticket, len(tickets))

	for _, t := range tickets {
		if _, seen := groups[t.ID]; !seen {
			order = append(order, t.ID)
		}
		groups[t.ID] = append(groups[t.ID], t)

		if IsOverdue(t, today) {
			stats.Overdue++
		}
		if t.Priority == models.PriorityCritical {
			stats.Critical++
		}
	}

	for _, id := range order {
		if isConflict(groups[id], policy) {
			stats.ConflictIDs = append(stats.ConflictIDs, id)
		}
	}

	return stats
}

func isConflict(records []models.Ticket, policy ConflictPolicy) bool {
	if len(records) < 2 {
		return false
	}
	if policy == PolicyDuplicatePresence {
		return true
	}
	first := records[0]
	for _, r := range records[1:] {
		if r.Status != first.Status || r.Priority != first.Priority {
			return true
		}
	}
	return false
}

// FilterTickets narrows the dataset for list views. The search term is a
// case-insensitive substring match over ID, title, customer, and source;
// the category filter is then applied as an AND. Input order is preserved
// and the input slice is never modified.
func FilterTickets(tickets []models.Ticket, search string, mode models.FilterMode, conflictIDs []string, today time.Time) []models.Ticket {
	if search == "" && mode == models.FilterAll {
		return tickets
	}

	conflicts := make(map[string]struct{}, len(conflictIDs))
	for _, id := range conflictIDs {
		conflicts[id] = struct{}{}
	}

	needle := strings.ToLower(search)
	out := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if needle != "" && !matchesSearch(t, needle) {
			continue
		}
		switch mode {
		case models.FilterConflicts:
			if _, ok := conflicts[t.ID]; !ok {
				continue
			}
		case models.FilterOverdue:
			if !IsOverdue(t, today) {
				continue
			}
		case models.FilterCritical:
			if t.Priority != models.PriorityCritical {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func matchesSearch(t models.Ticket, needle string) bool {
	return strings.Contains(strings.ToLower(t.ID), needle) ||
		strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Customer), needle) ||
		strings.Contains(strings.ToLower(t.Source), needle)
}
