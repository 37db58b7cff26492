// Package jobsync pulls external job listings into the local store: a
// fetch-validate-upsert pass over the Simplify new-grad feed, followed
// by deactivating listings the feed no longer carries.
package jobsync

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/stanleypangg/dear-applicant/internal/database"
	"github.com/stanleypangg/dear-applicant/internal/models"
)

// Source tags every listing this syncer writes.
const Source = "simplify"

// upsertBatchSize caps how many listing upserts share one grouped
// write.
const upsertBatchSize = 50

// feedListing is the shape of one entry in Simplify's JSON feed.
type feedListing struct {
	ID          string   `json:"id"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Locations   []string `json:"locations"`
	URL         string   `json:"url"`
	Active      *bool    `json:"active"`
	DatePosted  int64    `json:"date_posted"`
	DateUpdated int64    `json:"date_updated"`
	Source      string   `json:"source"`
	Category    *string  `json:"category"`
	Sponsorship *string  `json:"sponsorship"`
	IsVisible   *bool    `json:"is_visible"`
}

// Syncer fetches and upserts the listings feed.
type Syncer struct {
	db       *sql.DB
	listings *database.ListingRepo
	client   *http.Client
	feedURL  string
}

// NewSyncer creates a Syncer reading from feedURL.
func NewSyncer(db *sql.DB, feedURL string) *Syncer {
	return &Syncer{
		db:       db,
		listings: database.NewListingRepo(db),
		client:   &http.Client{Timeout: 60 * time.Second},
		feedURL:  feedURL,
	}
}

// Sync runs one full pass and returns how many listings it upserted.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	entries, err := s.fetch(ctx)
	if err != nil {
		return 0, err
	}

	// Only visible listings make it into the board.
	visible := entries[:0]
	for _, entry := range entries {
		if entry.IsVisible == nil || *entry.IsVisible {
			visible = append(visible, entry)
		}
	}

	now := time.Now().UTC()
	sourceIDs := make([]string, 0, len(visible))
	synced := 0

	for start := 0; start < len(visible); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(visible))
		batch := &database.Batch{}
		for _, entry := range visible[start:end] {
			listing := mapFeedListing(entry, now)
			sourceIDs = append(sourceIDs, listing.SourceID)
			s.listings.QueueUpsert(batch, listing)
		}
		if err := batch.Exec(ctx, s.db); err != nil {
			return synced, fmt.Errorf("failed to upsert listings: %w", err)
		}
		synced += end - start
	}

	if err := s.listings.MarkInactiveExcept(ctx, Source, sourceIDs, now); err != nil {
		return synced, fmt.Errorf("failed to deactivate stale listings: %w", err)
	}
	return synced, nil
}

func (s *Syncer) fetch(ctx context.Context) ([]feedListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed: %d", resp.StatusCode)
	}

	var entries []feedListing
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("validation failed: unexpected JSON shape: %w", err)
	}

	// Spot-check the first entry carries the required fields.
	if len(entries) > 0 {
		first := entries[0]
		if first.ID == "" || first.CompanyName == "" || first.Title == "" || first.URL == "" {
			return nil, fmt.Errorf("validation failed: unexpected JSON shape")
		}
	}
	return entries, nil
}

func mapFeedListing(entry feedListing, now time.Time) *models.JobListing {
	locations := entry.Locations
	if locations == nil {
		locations = []string{}
	}
	encoded, _ := json.Marshal(locations)

	active := true
	if entry.Active != nil {
		active = *entry.Active
	}

	var datePosted *time.Time
	if entry.DatePosted > 0 {
		t := time.Unix(entry.DatePosted, 0).UTC()
		datePosted = &t
	}

	return &models.JobListing{
		ID:          uuid.NewString(),
		Source:      Source,
		SourceID:    entry.ID,
		Company:     entry.CompanyName,
		Title:       entry.Title,
		Locations:   string(encoded),
		URL:         entry.URL,
		Category:    entry.Category,
		Sponsorship: entry.Sponsorship,
		Active:      active,
		DatePosted:  datePosted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
