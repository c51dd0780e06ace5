package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Configuration & Environment Errors
var (
	ErrConfigMissing      = errors.New("configuration missing")
	ErrServiceUnavailable = errors.New("service unavailable")
)

func NewConfigMissingError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Missing configuration value %s", key),
		Field:      key,
	}
}

// NewServiceUnavailableError reports a feature whose backing service is not configured or reachable.
func NewServiceUnavailableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnavailable,
		Details:    fmt.Sprintf("%s is unavailable", service),
		Cause:      cause,
	}
}
