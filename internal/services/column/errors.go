package column

import "github.com/stanleypangg/dear-applicant/internal/models"

// Column-related errors. Validation errors map to 400, not-found to
// 404; ownership failures reuse the not-found message so other users'
// data never leaks through error text.
var (
	ErrNameRequired        = models.Validation("Name is required")
	ErrColorRequired       = models.Validation("Color is required")
	ErrNameEmpty           = models.Validation("Name cannot be empty")
	ErrColorEmpty          = models.Validation("Color cannot be empty")
	ErrNegativePosition    = models.Validation("newPosition must be a non-negative integer")
	ErrDestinationRequired = models.Validation("destinationColumnId is required when column has applications")

	ErrDestinationNotFound = models.NotFound("destination column")
)
