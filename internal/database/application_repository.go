package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/stanleypangg/dear-applicant/internal/models"
)

// ApplicationRepo handles all application SQL. As with columns, reads
// are user-scoped and ownership failures surface as NotFoundError.
type ApplicationRepo struct {
	db *sql.DB
}

// NewApplicationRepo creates an ApplicationRepo on db.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

const applicationFields = `id, user_id, column_id, company, role, url, date_applied,
	salary_min, salary_max, salary_currency, notes, position, created_at, updated_at`

func scanApplication(row interface{ Scan(...any) error }) (*models.Application, error) {
	app := &models.Application{}
	var url, notes sql.NullString
	var dateApplied sql.NullTime
	var salaryMin, salaryMax sql.NullInt64
	err := row.Scan(
		&app.ID, &app.UserID, &app.ColumnID, &app.Company, &app.Role,
		&url, &dateApplied, &salaryMin, &salaryMax,
		&app.SalaryCurrency, &notes, &app.Position, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	app.URL = nullStringToPtr(url)
	app.DateApplied = nullTimeToPtr(dateApplied)
	app.SalaryMin = nullInt64ToPtr(salaryMin)
	app.SalaryMax = nullInt64ToPtr(salaryMax)
	app.Notes = nullStringToPtr(notes)
	return app, nil
}

// QueueInsert adds the application insert to a batch.
func (r *ApplicationRepo) QueueInsert(b *Batch, app *models.Application) {
	b.Add(
		`INSERT INTO applications (`+applicationFields+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID, app.UserID, app.ColumnID, app.Company, app.Role,
		ptrToAny(app.URL), ptrToAny(app.DateApplied),
		ptrToAny(app.SalaryMin), ptrToAny(app.SalaryMax),
		app.SalaryCurrency, ptrToAny(app.Notes), app.Position,
		app.CreatedAt, app.UpdatedAt,
	)
}

// GetForUser retrieves one application owned by userID.
func (r *ApplicationRepo) GetForUser(ctx context.Context, id, userID string) (*models.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+applicationFields+` FROM applications WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("application")
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

// ListForUser retrieves all of the user's applications ordered by
// position (grouping by column is the caller's concern).
func (r *ApplicationRepo) ListForUser(ctx context.Context, userID string) ([]*models.Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+applicationFields+` FROM applications WHERE user_id = ? ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// ListIDsInColumn retrieves application ids for one column ordered by
// position.
func (r *ApplicationRepo) ListIDsInColumn(ctx context.Context, columnID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM applications WHERE column_id = ? ORDER BY position`,
		columnID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountInColumn returns how many applications a column holds.
func (r *ApplicationRepo) CountInColumn(ctx context.Context, columnID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE column_id = ?`, columnID,
	).Scan(&count)
	return count, err
}

// ApplicationPatch describes a partial update. Non-nullable fields use
// nil = unchanged; nullable fields carry an explicit Set flag so that
// "clear to NULL" and "leave alone" stay distinct.
type ApplicationPatch struct {
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
	UpdatedAt      time.Time
}

// Update applies the patch to one application row.
func (r *ApplicationRepo) Update(ctx context.Context, id string, p ApplicationPatch) error {
	sets := []string{"updated_at = ?"}
	args := []any{p.UpdatedAt}

	if p.Company != nil {
		sets = append(sets, "company = ?")
		args = append(args, *p.Company)
	}
	if p.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *p.Role)
	}
	if p.URLSet {
		sets = append(sets, "url = ?")
		args = append(args, ptrToAny(p.URL))
	}
	if p.DateAppliedSet {
		sets = append(sets, "date_applied = ?")
		args = append(args, ptrToAny(p.DateApplied))
	}
	if p.SalaryMinSet {
		sets = append(sets, "salary_min = ?")
		args = append(args, ptrToAny(p.SalaryMin))
	}
	if p.SalaryMaxSet {
		sets = append(sets, "salary_max = ?")
		args = append(args, ptrToAny(p.SalaryMax))
	}
	if p.SalaryCurrency != nil {
		sets = append(sets, "salary_currency = ?")
		args = append(args, *p.SalaryCurrency)
	}
	if p.NotesSet {
		sets = append(sets, "notes = ?")
		args = append(args, ptrToAny(p.Notes))
	}

	args = append(args, id)
	_, err := r.db.ExecContext(ctx,
		`UPDATE applications SET `+strings.Join(sets, ", ")+` WHERE id = ?`,
		args...,
	)
	return err
}

// Delete removes the application row; contacts and transitions go with
// it via ON DELETE CASCADE.
func (r *ApplicationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
	return err
}

// QueuePosition adds a position rewrite for one application to the batch.
func (r *ApplicationRepo) QueuePosition(b *Batch, id string, position int) {
	b.Add(`UPDATE applications SET position = ? WHERE id = ?`, position, id)
}

// QueueMove adds the column transfer for the moved application: new
// column, new position, refreshed updated_at.
func (r *ApplicationRepo) QueueMove(b *Batch, id, columnID string, position int, updatedAt time.Time) {
	b.Add(
		`UPDATE applications SET column_id = ?, position = ?, updated_at = ? WHERE id = ?`,
		columnID, position, updatedAt, id,
	)
}
