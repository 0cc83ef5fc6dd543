package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostgresSource_LoadsSnapshotTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "customer", "title", "status", "priority", "created_date", "due_date", "source", "assignee"}).
		AddRow("TKT-50", "Globex Inc", "SSO outage", "Open", "Critical", "2026-03-01", "2026-03-05", "Jira", "IAM Team").
		AddRow("TKT-50", "Globex Inc", "SSO outage", "Resolved", "High", "2026-03-01", "2026-03-05", "PagerDuty", "OnCall")

	mock.ExpectQuery("SELECT id, customer, title, status, priority, created_date, due_date, source, assignee FROM tickets ORDER BY seq").
		WillReturnRows(rows)

	src := NewPostgresSource(db, "tickets")
	tickets, err := src.Load(context.Background())

	assert.NoError(t, err)
	assert.Len(t, tickets, 2)
	assert.Equal(t, "TKT-50", tickets[0].ID)
	assert.Equal(t, "PagerDuty", tickets[1].Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, customer, title").WillReturnError(assert.AnError)

	src := NewPostgresSource(db, "tickets")
	_, err = src.Load(context.Background())

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
