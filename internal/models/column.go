package models

import "time"

// Column is a user-defined pipeline stage on the kanban board
// (e.g. "Applied", "Interview", "Offer"). Positions are dense,
// zero-based ordinals within the owning user's column set.
type Column struct {
	ID        string
	UserID    string
	Name      string
	Color     string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
