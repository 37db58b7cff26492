package application

import "github.com/stanleypangg/dear-applicant/internal/models"

// Application-related errors.
var (
	ErrCompanyRequired  = models.Validation("Company is required")
	ErrRoleRequired     = models.Validation("Role is required")
	ErrCompanyEmpty     = models.Validation("Company cannot be empty")
	ErrRoleEmpty        = models.Validation("Role cannot be empty")
	ErrSalaryRange      = models.Validation("salaryMin must be <= salaryMax")
	ErrNegativePosition = models.Validation("newPosition must be a non-negative integer")

	ErrTargetColumnNotFound = models.NotFound("target column")
)
