package models

import "time"

// JobListing is an externally sourced job posting, upserted by the sync
// worker and keyed on (Source, SourceID). Locations holds a JSON-encoded
// string array, kept opaque the way the feed delivers it.
type JobListing struct {
	ID          string
	Source      string
	SourceID    string
	Company     string
	Title       string
	Locations   string
	URL         string
	Category    *string
	Sponsorship *string
	Active      bool
	DatePosted  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
