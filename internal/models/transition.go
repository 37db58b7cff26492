package models

import "time"

// Transition is an immutable record of an application entering a column.
// FromColumnID is nil when the application was created directly into
// ToColumnID. Rows are never updated; they are only removed by cascade
// when the owning application is deleted.
type Transition struct {
	ID             string
	ApplicationID  string
	FromColumnID   *string
	ToColumnID     string
	TransitionedAt time.Time
}
