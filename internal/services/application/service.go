// Package application owns job-application records: create with the
// initial transition, partial field updates, delete with position
// compaction, and same- or cross-column moves.
package application

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
	"github.com/stanleypangg/dear-applicant/internal/services/history"
)

// Service defines all application-related business operations. Every
// call is scoped to the requesting user.
type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (*models.Application, error)
	Update(ctx context.Context, userID string, req UpdateRequest) error
	Delete(ctx context.Context, userID, applicationID string) error
	Move(ctx context.Context, userID, applicationID, toColumnID string, newPosition int) error
	Get(ctx context.Context, userID, applicationID string) (*models.Application, error)
}

// CreateRequest encapsulates data for creating an application. Numeric
// and date fields arrive already parsed; the transport boundary owns
// string-to-value conversion.
type CreateRequest struct {
	ColumnID       string
	Company        string
	Role           string
	URL            string
	DateApplied    *time.Time
	SalaryMin      *int
	SalaryMax      *int
	SalaryCurrency string
	Notes          string
}

// UpdateRequest patches an application. Non-nullable fields use nil =
// unchanged; nullable fields carry a Set flag, and a Set field with a
// nil value clears the column. ColumnID and Position are never touched
// here — moves are their own operation.
type UpdateRequest struct {
	ApplicationID  string
	Company        *string
	Role           *string
	URL            *string
	URLSet         bool
	DateApplied    *time.Time
	DateAppliedSet bool
	SalaryMin      *int
	SalaryMinSet   bool
	SalaryMax      *int
	SalaryMaxSet   bool
	SalaryCurrency *string
	Notes          *string
	NotesSet       bool
}

type service struct {
	db      *sql.DB
	columns *database.ColumnRepo
	apps    *database.ApplicationRepo
	log     history.Service
}

// NewService creates a new application service.
func NewService(db *sql.DB, log history.Service) Service {
	return &service{
		db:      db,
		columns: database.NewColumnRepo(db),
		apps:    database.NewApplicationRepo(db),
		log:     log,
	}
}

// Create inserts an application at the end of its column and records
// the initial transition (from nowhere into the column) in the same
// unit of work.
func (s *service) Create(ctx context.Context, userID string, req CreateRequest) (*models.Application, error) {
	company := strings.TrimSpace(req.Company)
	if company == "" {
		return nil, ErrCompanyRequired
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		return nil, ErrRoleRequired
	}
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		return nil, ErrSalaryRange
	}

	if _, err := s.columns.GetForUser(ctx, req.ColumnID, userID); err != nil {
		return nil, err
	}

	// position = count is racy if two creates hit the same column
	// simultaneously, but the batch write isn't atomic anyway; any
	// later renumbering pass silently repairs the duplicate.
	position, err := s.apps.CountInColumn(ctx, req.ColumnID)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	currency := strings.TrimSpace(req.SalaryCurrency)
	if currency == "" {
		currency = models.DefaultSalaryCurrency
	}

	now := time.Now().UTC()
	app := &models.Application{
		ID:             uuid.NewString(),
		UserID:         userID,
		ColumnID:       req.ColumnID,
		Company:        company,
		Role:           role,
		URL:            blankToNil(req.URL),
		DateApplied:    req.DateApplied,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		SalaryCurrency: currency,
		Notes:          blankToNil(req.Notes),
		Position:       position,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	batch := &database.Batch{}
	s.apps.QueueInsert(batch, app)
	s.log.Record(batch, app.ID, nil, app.ColumnID, now)
	if err := batch.Exec(ctx, s.db); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// Update applies a partial patch. The salary invariant is checked
// against effective values: the request's value where present, the
// stored one where not — the only place a stored field participates in
// validating a different field's new value.
func (s *service) Update(ctx context.Context, userID string, req UpdateRequest) error {
	app, err := s.apps.GetForUser(ctx, req.ApplicationID, userID)
	if err != nil {
		return err
	}

	patch := database.ApplicationPatch{UpdatedAt: time.Now().UTC()}

	if req.Company != nil {
		trimmed := strings.TrimSpace(*req.Company)
		if trimmed == "" {
			return ErrCompanyEmpty
		}
		patch.Company = &trimmed
	}
	if req.Role != nil {
		trimmed := strings.TrimSpace(*req.Role)
		if trimmed == "" {
			return ErrRoleEmpty
		}
		patch.Role = &trimmed
	}
	if req.URLSet {
		patch.URLSet = true
		patch.URL = trimToNil(req.URL)
	}
	if req.DateAppliedSet {
		patch.DateAppliedSet = true
		patch.DateApplied = req.DateApplied
	}
	if req.SalaryMinSet {
		patch.SalaryMinSet = true
		patch.SalaryMin = req.SalaryMin
	}
	if req.SalaryMaxSet {
		patch.SalaryMaxSet = true
		patch.SalaryMax = req.SalaryMax
	}
	if req.SalaryCurrency != nil {
		// blank currency keeps the stored value, matching the form
		// semantics of "leave the field alone"
		if trimmed := strings.TrimSpace(*req.SalaryCurrency); trimmed != "" {
			patch.SalaryCurrency = &trimmed
		}
	}
	if req.NotesSet {
		patch.NotesSet = true
		patch.Notes = trimToNil(req.Notes)
	}

	effectiveMin := app.SalaryMin
	if patch.SalaryMinSet {
		effectiveMin = patch.SalaryMin
	}
	effectiveMax := app.SalaryMax
	if patch.SalaryMaxSet {
		effectiveMax = patch.SalaryMax
	}
	if effectiveMin != nil && effectiveMax != nil && *effectiveMin > *effectiveMax {
		return ErrSalaryRange
	}

	if err := s.apps.Update(ctx, req.ApplicationID, patch); err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	return nil
}

// Delete removes an application (contacts and transitions cascade) and
// recompacts the positions left behind in its column.
func (s *service) Delete(ctx context.Context, userID, applicationID string) error {
	app, err := s.apps.GetForUser(ctx, applicationID, userID)
	if err != nil {
		return err
	}

	if err := s.apps.Delete(ctx, applicationID); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}

	remaining, err := s.apps.ListIDsInColumn(ctx, app.ColumnID)
	if err != nil {
		return fmt.Errorf("failed to list applications: %w", err)
	}
	if len(remaining) == 0 {
		return nil
	}

	batch := &database.Batch{}
	for i, id := range ordering.RemoveAndCompact(remaining, applicationID) {
		s.apps.QueuePosition(batch, id, i)
	}
	if err := batch.Exec(ctx, s.db); err != nil {
		return fmt.Errorf("failed to recompact positions: %w", err)
	}
	return nil
}

// Move relocates an application. Same-column moves are pure reorders
// and write no transition; cross-column moves compact the source,
// splice into the destination, and append exactly one transition — all
// in one unit of work.
func (s *service) Move(ctx context.Context, userID, applicationID, toColumnID string, newPosition int) error {
	if newPosition < 0 {
		return ErrNegativePosition
	}

	app, err := s.apps.GetForUser(ctx, applicationID, userID)
	if err != nil {
		return err
	}
	if _, err := s.columns.GetForUser(ctx, toColumnID, userID); err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			return ErrTargetColumnNotFound
		}
		return fmt.Errorf("failed to load target column: %w", err)
	}

	now := time.Now().UTC()
	batch := &database.Batch{}

	if app.ColumnID == toColumnID {
		ids, err := s.apps.ListIDsInColumn(ctx, toColumnID)
		if err != nil {
			return fmt.Errorf("failed to list applications: %w", err)
		}
		for i, id := range ordering.Reorder(ids, applicationID, newPosition) {
			s.apps.QueuePosition(batch, id, i)
		}
	} else {
		sourceIDs, err := s.apps.ListIDsInColumn(ctx, app.ColumnID)
		if err != nil {
			return fmt.Errorf("failed to list source applications: %w", err)
		}
		for i, id := range ordering.RemoveAndCompact(sourceIDs, applicationID) {
			s.apps.QueuePosition(batch, id, i)
		}

		targetIDs, err := s.apps.ListIDsInColumn(ctx, toColumnID)
		if err != nil {
			return fmt.Errorf("failed to list target applications: %w", err)
		}
		for i, id := range ordering.InsertAt(targetIDs, applicationID, newPosition) {
			if id == applicationID {
				s.apps.QueueMove(batch, id, toColumnID, i, now)
			} else {
				s.apps.QueuePosition(batch, id, i)
			}
		}

		fromColumnID := app.ColumnID
		s.log.Record(batch, applicationID, &fromColumnID, toColumnID, now)
	}

	if err := batch.Exec(ctx, s.db); err != nil {
		return fmt.Errorf("failed to move application: %w", err)
	}
	return nil
}

// Get retrieves one application, guarded by ownership.
func (s *service) Get(ctx context.Context, userID, applicationID string) (*models.Application, error) {
	return s.apps.GetForUser(ctx, applicationID, userID)
}

func blankToNil(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func trimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	return blankToNil(*s)
}
