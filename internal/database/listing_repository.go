package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/stanleypangg/dear-applicant/internal/models"
)

// ListingRepo handles job-listing SQL for the sync worker and the job
// board read path.
type ListingRepo struct {
	db *sql.DB
}

// NewListingRepo creates a ListingRepo on db.
func NewListingRepo(db *sql.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

// QueueUpsert adds an insert-or-update keyed on (source, source_id) to
// the batch. created_at survives conflicts; everything else tracks the
// feed.
func (r *ListingRepo) QueueUpsert(b *Batch, l *models.JobListing) {
	b.Add(
		`INSERT INTO job_listings
			(id, source, source_id, company, title, locations, url, category, sponsorship, active, date_posted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source, source_id) DO UPDATE SET
			company = excluded.company,
			title = excluded.title,
			locations = excluded.locations,
			url = excluded.url,
			category = excluded.category,
			sponsorship = excluded.sponsorship,
			active = excluded.active,
			date_posted = excluded.date_posted,
			updated_at = excluded.updated_at`,
		l.ID, l.Source, l.SourceID, l.Company, l.Title, l.Locations, l.URL,
		ptrToAny(l.Category), ptrToAny(l.Sponsorship), l.Active,
		ptrToAny(l.DatePosted), l.CreatedAt, l.UpdatedAt,
	)
}

// MarkInactiveExcept flags every listing from source whose source_id is
// not in keep as inactive. Called after a sync pass so listings dropped
// from the feed stop showing by default.
func (r *ListingRepo) MarkInactiveExcept(ctx context.Context, source string, keep []string, now time.Time) error {
	if len(keep) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keep)), ", ")
	args := make([]any, 0, len(keep)+2)
	args = append(args, now, source)
	for _, id := range keep {
		args = append(args, id)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE job_listings SET active = 0, updated_at = ?
		 WHERE source = ? AND source_id NOT IN (`+placeholders+`)`,
		args...,
	)
	return err
}

// ListingFilter narrows the job board listing query.
type ListingFilter struct {
	Query           string // substring match on company or title
	Category        string
	Sponsorship     string
	Location        string // substring match inside the locations JSON
	IncludeInactive bool
	Page            int // 1-based
	PageSize        int
}

func (f ListingFilter) where() (string, []any) {
	var conds []string
	var args []any

	if !f.IncludeInactive {
		conds = append(conds, "active = 1")
	}
	if f.Query != "" {
		conds = append(conds, "(company LIKE ? OR title LIKE ?)")
		args = append(args, "%"+f.Query+"%", "%"+f.Query+"%")
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Sponsorship != "" {
		conds = append(conds, "sponsorship = ?")
		args = append(args, f.Sponsorship)
	}
	if f.Location != "" {
		conds = append(conds, "locations LIKE ?")
		args = append(args, "%"+f.Location+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List retrieves one page of listings newest-posted first, plus the
// total row count for the filter.
func (r *ListingRepo) List(ctx context.Context, f ListingFilter) ([]*models.JobListing, int, error) {
	where, args := f.where()

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM job_listings`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageArgs := append(args, f.PageSize, (f.Page-1)*f.PageSize)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source, source_id, company, title, locations, url, category, sponsorship, active, date_posted, created_at, updated_at
		 FROM job_listings`+where+`
		 ORDER BY date_posted DESC
		 LIMIT ? OFFSET ?`,
		pageArgs...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var listings []*models.JobListing
	for rows.Next() {
		l := &models.JobListing{}
		var category, sponsorship sql.NullString
		var datePosted sql.NullTime
		if err := rows.Scan(
			&l.ID, &l.Source, &l.SourceID, &l.Company, &l.Title, &l.Locations, &l.URL,
			&category, &sponsorship, &l.Active, &datePosted, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		l.Category = nullStringToPtr(category)
		l.Sponsorship = nullStringToPtr(sponsorship)
		l.DatePosted = nullTimeToPtr(datePosted)
		listings = append(listings, l)
	}
	return listings, total, rows.Err()
}

// DistinctCategories returns the non-null category values for the
// filter dropdown.
func (r *ListingRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

// DistinctSponsorships returns the non-null sponsorship values for the
// filter dropdown.
func (r *ListingRepo) DistinctSponsorships(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "sponsorship")
}

func (r *ListingRepo) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT `+column+` FROM job_listings WHERE `+column+` IS NOT NULL ORDER BY `+column,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// LastSyncedAt reports the newest updated_at across all listings, or
// nil when the table is empty. The aggregate loses the column's
// DATETIME declaration, so the value comes back as raw text and is
// parsed here.
func (r *ListingRepo) LastSyncedAt(ctx context.Context) (*time.Time, error) {
	var latest sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(updated_at) FROM job_listings`,
	).Scan(&latest)
	if err != nil {
		return nil, err
	}
	if !latest.Valid {
		return nil, nil
	}
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if parsed, perr := time.Parse(layout, latest.String); perr == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("failed to parse last sync time %q", latest.String)
}
