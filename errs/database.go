package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Database & Storage Specific Errors
var (
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrForeignKeyConstraint      = errors.New("foreign key constraint violation")
	ErrDatabaseTimeout           = errors.New("database timeout")
)

// NewDatabaseError creates a new database error with details about the operation.
// The database is opened with TranslateError, so driver-specific constraint failures
// arrive here as gorm's portable sentinels.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	// Errors that are already API errors pass through untouched
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	switch {
	case cause == nil:
	case errors.Is(cause, gorm.ErrDuplicatedKey):
		return &ApiErr{
			StatusCode: http.StatusConflict,
			err:        fmt.Errorf("%s already exists", entity),
			Details:    details,
			Cause:      cause,
			kind:       ErrUniqueConstraintViolation,
		}
	case errors.Is(cause, gorm.ErrForeignKeyViolated):
		return &ApiErr{
			StatusCode: http.StatusBadRequest,
			err:        fmt.Errorf("invalid reference in %s", entity),
			Details:    "The referenced resource does not exist or cannot be linked",
			Cause:      cause,
			kind:       ErrForeignKeyConstraint,
		}
	case errors.Is(cause, gorm.ErrRecordNotFound):
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        fmt.Errorf("%s not found", entity),
			Details:    details,
			Cause:      cause,
			kind:       ErrNotFound,
		}
	case errors.Is(cause, context.DeadlineExceeded):
		return &ApiErr{
			StatusCode: http.StatusServiceUnavailable,
			err:        ErrDatabaseTimeout,
			Details:    fmt.Sprintf("Database timeout during %s", operation),
			Cause:      cause,
			Field:      "timeout",
		}
	case strings.Contains(cause.Error(), "connection"):
		return &ApiErr{
			StatusCode: http.StatusServiceUnavailable,
			err:        ErrDatabaseConnection,
			Details:    "Unable to connect to database",
			Cause:      cause,
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}
