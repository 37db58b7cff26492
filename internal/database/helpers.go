package database

import (
	"database/sql"
	"time"
)

// nullStringToPtr converts sql.NullString to *string.
func nullStringToPtr(ns sql.NullString) *string {
	if ns.Valid {
		return &ns.String
	}
	return nil
}

// nullInt64ToPtr converts sql.NullInt64 to *int.
func nullInt64ToPtr(nv sql.NullInt64) *int {
	if nv.Valid {
		val := int(nv.Int64)
		return &val
	}
	return nil
}

// nullTimeToPtr converts sql.NullTime to *time.Time.
func nullTimeToPtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		return &nt.Time
	}
	return nil
}

// ptrToAny lifts a typed pointer into a driver value, mapping nil to
// SQL NULL.
func ptrToAny[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
