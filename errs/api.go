package errs

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Common error sentinel values
var (
	ErrForbidden   = errors.New("operation not allowed")
	ErrBadRequest  = errors.New("malformed request")
	ErrConflict    = errors.New("resource conflict")
	ErrCORSBlocked = errors.New("request blocked by CORS policy")
)

// Request & Input-Validation Errors
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrInvalidJSON          = errors.New("invalid JSON")
)

type ApiErr struct {
	StatusCode int
	err        error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
	kind       error  // sentinel matched by errors.Is, when the message itself is free-form
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		if apiErr, ok := e.Cause.(*ApiErr); ok {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// Is lets free-form errors built by the constructors below still match their sentinel.
func (e *ApiErr) Is(target error) bool {
	return e.kind != nil && e.kind == target
}

// Message returns the error message without details, suitable for end users.
func (e *ApiErr) Message() string {
	return e.err.Error()
}

func NewNotFoundError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, err: errors.New(message), kind: ErrNotFound}
}

func NewForbiddenError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusForbidden, err: errors.New(message), kind: ErrForbidden}
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: errors.New(message), kind: ErrBadRequest}
}

func NewConflictError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusConflict, err: errors.New(message), kind: ErrConflict}
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        errors.New(message),
		Cause:      cause,
	}
}

func NewCORSError(origin string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrCORSBlocked,
		Details:    fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin),
	}
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrUniqueConstraintViolation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Request & Input-Validation Error Constructors
func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMissingRequiredField,
		Details:    fmt.Sprintf("Missing required field: %s", fieldName),
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidField,
		Details:    fmt.Sprintf("Invalid field %s: %s", fieldName, reason),
		Field:      fieldName,
	}
}

func NewInvalidJSONError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidJSON,
		Details:    "Invalid JSON format",
		Cause:      cause,
		Field:      "json",
	}
}

// NewValidationError reports per-field validation failures. Field names the first offending field.
func NewValidationError(fields map[string]string) *ApiErr {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+fields[name])
	}

	apiErr := &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidField,
		Details:    strings.Join(parts, "; "),
	}
	if len(names) > 0 {
		apiErr.Field = names[0]
	}
	return apiErr
}
