package store

import (
	"context"
	"database/sql"
	"fmt"

	"x360-agent/internal/models"
)

// PostgresSource reads the dataset from a snapshot table. Ordering by
// seq preserves the publication order of the virtualization layer, which
// downstream consumers rely on.
type PostgresSource struct {
	db    *sql.DB
	table string
}

func NewPostgresSource(db *sql.DB, table string) *PostgresSource {
	return &PostgresSource{db: db, table: table}
}

func (p *PostgresSource) Name() string { return "postgres" }

func (p *PostgresSource) Load(ctx context.Context) ([]models.Ticket, error) {
	query := fmt.Sprintf(
		"SELECT id, customer, title, status, priority, created_date, due_date, source, assignee FROM %s ORDER BY seq",
		p.table,
	)

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.Customer, &t.Title, &t.Status, &t.Priority, &t.CreatedDate, &t.DueDate, &t.Source, &t.Assignee); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
