// Package history is the append-only transition log: one entry per
// application creation and per cross-column move, the provenance
// source for the Sankey view.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/stanleypangg/dear-applicant/internal/database"
	"github.com/stanleypangg/dear-applicant/internal/models"
)

// Service records and reads column transitions.
type Service interface {
	// Record queues a transition append onto the caller's batch so it
	// lands in the same unit of work as the application write it
	// describes. fromColumnID nil means "created directly into
	// toColumnID".
	Record(b *database.Batch, applicationID string, fromColumnID *string, toColumnID string, at time.Time)

	// ListForApplication returns an application's transitions oldest
	// first, guarded by ownership.
	ListForApplication(ctx context.Context, userID, applicationID string) ([]*models.Transition, error)
}

type service struct {
	transitions *database.TransitionRepo
	apps        *database.ApplicationRepo
}

// NewService creates a new history service.
func NewService(db *sql.DB) Service {
	return &service{
		transitions: database.NewTransitionRepo(db),
		apps:        database.NewApplicationRepo(db),
	}
}

func (s *service) Record(b *database.Batch, applicationID string, fromColumnID *string, toColumnID string, at time.Time) {
	s.transitions.QueueInsert(b, &models.Transition{
		ID:             uuid.NewString(),
		ApplicationID:  applicationID,
		FromColumnID:   fromColumnID,
		ToColumnID:     toColumnID,
		TransitionedAt: at,
	})
}

func (s *service) ListForApplication(ctx context.Context, userID, applicationID string) ([]*models.Transition, error) {
	if _, err := s.apps.GetForUser(ctx, applicationID, userID); err != nil {
		return nil, err
	}
	return s.transitions.ListForApplication(ctx, applicationID)
}
