package errs

import (
	"errors"
	"net/http"
)

// Authentication & Authorization Errors
var (
	ErrMissingToken    = errors.New("missing access token")
	ErrExpiredToken    = errors.New("expired access token")
	ErrInvalidToken    = errors.New("invalid access token")
	ErrProfileRequired = errors.New("profile required")
)

func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingToken,
		Details:    "Missing access token",
		Field:      "authorization",
	}
}

func NewExpiredTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrExpiredToken,
		Details:    "Access token has expired",
		Field:      "authorization",
	}
}

func NewInvalidTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Details:    "Invalid access token",
		Field:      "authorization",
	}
}

// NewProfileRequiredError is returned when an authenticated account has not created its profile yet.
func NewProfileRequiredError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrProfileRequired,
		Details:    "Create a profile before managing lists",
		Field:      "profile",
	}
}
