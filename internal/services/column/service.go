// Package column owns the set of pipeline columns per user: create,
// rename, recolor, delete with reassignment, and drag reorder.
package column

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stanleypangg/dear-applicant/internal/database"
	"github.com/stanleypangg/dear-applicant/internal/models"
	"github.com/stanleypangg/dear-applicant/internal/ordering"
)

// Service defines all column-related business operations. Every call
// is scoped to the requesting user.
type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (*models.Column, error)
	Update(ctx context.Context, userID string, req UpdateRequest) error
	Delete(ctx context.Context, userID, columnID string, destinationColumnID *string) error
	Reorder(ctx context.Context, userID, columnID string, newPosition int) error
}

// CreateRequest encapsulates data for creating a column.
type CreateRequest struct {
	Name  string
	Color string
}

// UpdateRequest patches a column. Nil fields stay unchanged; both
// rename and recolor travel through here.
type UpdateRequest struct {
	ColumnID string
	Name     *string
	Color    *string
}

type service struct {
	db      *sql.DB
	columns *database.ColumnRepo
	apps    *database.ApplicationRepo
}

// NewService creates a new column service.
func NewService(db *sql.DB) Service {
	return &service{
		db:      db,
		columns: database.NewColumnRepo(db),
		apps:    database.NewApplicationRepo(db),
	}
}

// Create appends a new column to the end of the user's board.
func (s *service) Create(ctx context.Context, userID string, req CreateRequest) (*models.Column, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	color := strings.TrimSpace(req.Color)
	if color == "" {
		return nil, ErrColorRequired
	}

	// position = count is racy under concurrent creates, but the batch
	// write isn't atomic anyway; the next renumbering pass repairs it.
	position, err := s.columns.CountForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count columns: %w", err)
	}

	now := time.Now().UTC()
	col := &models.Column{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.columns.Insert(ctx, col); err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	return col, nil
}

// Update renames and/or recolors a column.
func (s *service) Update(ctx context.Context, userID string, req UpdateRequest) error {
	if _, err := s.columns.GetForUser(ctx, req.ColumnID, userID); err != nil {
		return err
	}

	var name, color *string
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return ErrNameEmpty
		}
		name = &trimmed
	}
	if req.Color != nil {
		trimmed := strings.TrimSpace(*req.Color)
		if trimmed == "" {
			return ErrColorEmpty
		}
		color = &trimmed
	}

	if err := s.columns.UpdateFields(ctx, req.ColumnID, name, color); err != nil {
		return fmt.Errorf("failed to update column: %w", err)
	}
	return nil
}

// Delete removes a column. A non-empty column needs a destination: its
// applications are appended after the destination's existing ones in
// their original relative order before the source column goes away.
// Remaining columns are renumbered densely afterwards.
func (s *service) Delete(ctx context.Context, userID, columnID string, destinationColumnID *string) error {
	if _, err := s.columns.GetForUser(ctx, columnID, userID); err != nil {
		return err
	}

	appCount, err := s.apps.CountInColumn(ctx, columnID)
	if err != nil {
		return fmt.Errorf("failed to count applications: %w", err)
	}

	if appCount > 0 {
		if destinationColumnID == nil {
			return ErrDestinationRequired
		}
		destID := *destinationColumnID
		if destID == columnID {
			// "another column" means another one
			return ErrDestinationNotFound
		}
		if _, err := s.columns.GetForUser(ctx, destID, userID); err != nil {
			var notFound *models.NotFoundError
			if errors.As(err, &notFound) {
				return ErrDestinationNotFound
			}
			return fmt.Errorf("failed to load destination column: %w", err)
		}

		appIDs, err := s.apps.ListIDsInColumn(ctx, columnID)
		if err != nil {
			return fmt.Errorf("failed to list applications: %w", err)
		}
		destCount, err := s.apps.CountInColumn(ctx, destID)
		if err != nil {
			return fmt.Errorf("failed to count destination applications: %w", err)
		}

		now := time.Now().UTC()
		batch := &database.Batch{}
		for i, appID := range appIDs {
			s.apps.QueueMove(batch, appID, destID, destCount+i, now)
		}
		s.columns.QueueDelete(batch, columnID)
		if err := batch.Exec(ctx, s.db); err != nil {
			return fmt.Errorf("failed to delete column: %w", err)
		}
	} else {
		if err := s.columns.Delete(ctx, columnID); err != nil {
			return fmt.Errorf("failed to delete column: %w", err)
		}
	}

	return s.renumber(ctx, userID)
}

// Reorder moves a column to newPosition within the user's board and
// rewrites every column position densely.
func (s *service) Reorder(ctx context.Context, userID, columnID string, newPosition int) error {
	if newPosition < 0 {
		return ErrNegativePosition
	}
	if _, err := s.columns.GetForUser(ctx, columnID, userID); err != nil {
		return err
	}

	ids, err := s.columns.ListIDsForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list columns: %w", err)
	}

	batch := &database.Batch{}
	for i, id := range ordering.Reorder(ids, columnID, newPosition) {
		s.columns.QueuePosition(batch, id, i)
	}
	if err := batch.Exec(ctx, s.db); err != nil {
		return fmt.Errorf("failed to reorder columns: %w", err)
	}
	return nil
}

// renumber closes the gap a deletion leaves in the user's column
// positions.
func (s *service) renumber(ctx context.Context, userID string) error {
	ids, err := s.columns.ListIDsForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list columns: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	batch := &database.Batch{}
	for i, id := range ids {
		s.columns.QueuePosition(batch, id, i)
	}
	if err := batch.Exec(ctx, s.db); err != nil {
		return fmt.Errorf("failed to renumber columns: %w", err)
	}
	return nil
}
