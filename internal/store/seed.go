package store

import (
	"context"
	"time"

	"x360-agent/internal/models"
)

// SeedSource is the embedded chaos dataset standing in for the data
// virtualization layer: duplicates, conflicting statuses, and overdue
// items. Dates are computed relative to Now so the SLA picture is the
// same on any day the service starts.
type SeedSource struct {
	Now func() time.Time
}

func NewSeedSource() *SeedSource {
	return &SeedSource{Now: time.Now}
}

func (s *SeedSource) Name() string { return "seed" }

func (s *SeedSource) Load(ctx context.Context) ([]models.Ticket, error) {
	day := func(offset int) string {
		return s.Now().AddDate(0, 0, offset).Format(models.DateLayout)
	}

	return []models.Ticket{
		// TKT-99: the SLA breach, five days overdue
		{
			ID:          "TKT-99",
			Customer:    "Acme Corp",
			Title:       "Server Outage - Production",
			Status:      models.StatusOpen,
			Priority:    models.PriorityCritical,
			CreatedDate: day(-25),
			DueDate:     day(-5),
			Source:      "Jira",
			Assignee:    "Unassigned",
		},
		// TKT-101: the data conflict, Salesforce vs ServiceNow
		{
			ID:          "TKT-101",
			Customer:    "Globex Inc",
			Title:       "License Renewal Failure",
			Status:      models.StatusClosed,
			Priority:    models.PriorityHigh,
			CreatedDate: day(-2),
			DueDate:     day(5),
			Source:      "Salesforce",
			Assignee:    "Sarah Connor",
		},
		{
			ID:          "TKT-101",
			Customer:    "Globex Inc",
			Title:       "License Renewal Failure",
			Status:      models.StatusPendingVendor,
			Priority:    models.PriorityHigh,
			CreatedDate: day(-2),
			DueDate:     day(5),
			Source:      "ServiceNow",
			Assignee:    "Sarah Connor",
		},
		// TKT-105: healthy ticket
		{
			ID:          "TKT-105",
			Customer:    "Soylent Corp",
			Title:       "Password Reset Request",
			Status:      models.StatusOpen,
			Priority:    models.PriorityLow,
			CreatedDate: day(0),
			DueDate:     day(2),
			Source:      "Zendesk",
			Assignee:    "Helpdesk Bot",
		},
		// TKT-108: status and priority conflict
		{
			ID:          "TKT-108",
			Customer:    "Massive Dynamic",
			Title:       "API Latency Spike",
			Status:      models.StatusResolved,
			Priority:    models.PriorityMedium,
			CreatedDate: day(-1),
			DueDate:     day(1),
			Source:      "Datadog",
			Assignee:    "DevOps Team",
		},
		{
			ID:          "TKT-108",
			Customer:    "Massive Dynamic",
			Title:       "API Latency Spike",
			Status:      models.StatusOpen,
			Priority:    models.PriorityCritical,
			CreatedDate: day(-1),
			DueDate:     day(1),
			Source:      "PagerDuty",
			Assignee:    "OnCall Eng",
		},
		// TKT-112: due today, approaching breach
		{
			ID:          "TKT-112",
			Customer:    "Initech",
			Title:       "Printer Load Letter Error",
			Status:      models.StatusOpen,
			Priority:    models.PriorityMedium,
			CreatedDate: day(-10),
			DueDate:     day(0),
			Source:      "ServiceNow",
			Assignee:    "Michael Bolton",
		},
	}, nil
}
