package models

import "time"

// Application is a tracked job application. It belongs to exactly one
// user and exactly one column at any instant; Position is a dense,
// zero-based ordinal within the owning column.
type Application struct {
	ID             string
	UserID         string
	ColumnID       string
	Company        string
	Role           string
	URL            *string
	DateApplied    *time.Time
	SalaryMin      *int
	SalaryMax      *int
	SalaryCurrency string
	Notes          *string
	Position       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
