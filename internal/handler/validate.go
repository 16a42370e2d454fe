package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-manager/internal/service"
)

// RequestValidator plugs go-playground/validator into echo.  Field names in
// errors are the JSON names.
type RequestValidator struct {
	v *validator.Validate
}

// NewValidator builds the validator installed as echo's e.Validator.
func NewValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &RequestValidator{v: v}
}

// Validate runs the struct's validate tags.
func (rv *RequestValidator) Validate(i any) error { return rv.v.Struct(i) }

// normalizer is implemented by request DTOs that clean their fields up
// after binding.  It runs before validation so the rules see stored values.
type normalizer interface {
	normalize()
}

// bindValid binds the request body into dst, normalizes it and validates it.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return service.ValidationError(service.FieldError{Field: "body", Message: "Invalid request body"})
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	if err := c.Validate(dst); err != nil {
		return service.ValidationError(fieldErrors(err)...)
	}
	return nil
}

// fieldErrors converts validator output into client-facing field errors.
func fieldErrors(err error) []service.FieldError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []service.FieldError{{Field: "body", Message: "Invalid request data"}}
	}
	out := make([]service.FieldError, 0, len(ves))
	for _, fe := range ves {
		out = append(out, service.FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

// describe renders one failed rule as a readable message.
func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", name, fe.Param())
	case "email":
		return "Invalid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", name)
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}
