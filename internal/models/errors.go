package models

// ValidationError is malformed or missing caller input. It is always
// surfaced before any write and maps to HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError covers both "does not exist" and "exists but is not
// owned by the requester" — the two are deliberately indistinguishable
// to the caller. Maps to HTTP 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// Validation builds a ValidationError with the given message.
func Validation(msg string) error {
	return &ValidationError{Message: msg}
}

// NotFound builds a NotFoundError for the named entity.
func NotFound(entity string) error {
	return &NotFoundError{Message: entity + " not found"}
}
