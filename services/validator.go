package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/baglist-backend/errs"
)

// Validator wraps go-playground/validator and reports failures as errs.ApiErr.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a validator that names fields by their json tag.
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a 400 error naming every offending field.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errs.NewBadRequestError(err.Error())
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
	}
	return errs.NewValidationError(fieldErrors)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "iso4217":
		return "must be an ISO 4217 currency code"
	case "alphanum":
		return "must contain only letters and digits"
	default:
		return "is invalid"
	}
}
