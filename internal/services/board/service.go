// Package board assembles the dashboard view: the user's columns in
// order, each with its applications, seeding the default columns on a
// user's first visit.
package board

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stanleypangg/dear-applicant/internal/database"
	"github.com/stanleypangg/dear-applicant/internal/models"
)

// Column is one board column with its applications in position order.
type Column struct {
	*models.Column
	Applications []*models.Application
}

// Service loads the dashboard.
type Service interface {
	Load(ctx context.Context, userID string) ([]*Column, error)
}

type service struct {
	db      *sql.DB
	columns *database.ColumnRepo
	apps    *database.ApplicationRepo
}

// NewService creates a new board service.
func NewService(db *sql.DB) Service {
	return &service{
		db:      db,
		columns: database.NewColumnRepo(db),
		apps:    database.NewApplicationRepo(db),
	}
}

// Load returns the user's board. A user with zero columns gets the
// default four seeded first, as one grouped write.
func (s *service) Load(ctx context.Context, userID string) ([]*Column, error) {
	count, err := s.columns.CountForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count columns: %w", err)
	}
	if count == 0 {
		if err := s.seed(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to seed default columns: %w", err)
		}
	}

	columns, err := s.columns.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	apps, err := s.apps.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	byColumn := make(map[string][]*models.Application)
	for _, app := range apps {
		byColumn[app.ColumnID] = append(byColumn[app.ColumnID], app)
	}

	board := make([]*Column, 0, len(columns))
	for _, col := range columns {
		board = append(board, &Column{
			Column:       col,
			Applications: byColumn[col.ID],
		})
	}
	return board, nil
}

func (s *service) seed(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	batch := &database.Batch{}
	for i, def := range models.DefaultColumns {
		s.columns.QueueInsert(batch, &models.Column{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      def.Name,
			Color:     def.Color,
			Position:  i,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return batch.Exec(ctx, s.db)
}
