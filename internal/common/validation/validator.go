// internal/common/validation/validator.go
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// PostalCodePattern matches Dutch postal codes such as "1234 AB" or "1234ab".
var PostalCodePattern = regexp.MustCompile(`^[1-9][0-9]{3} ?[A-Za-z]{2}$`)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// First returns the first violation, or nil when valid.
func (r *ValidationResult) First() *ValidationError {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	return &r.Errors[0]
}

type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock pins the reference time used by the notfutureyear rule.
func NewWithClock(now func() time.Time) *Validator {
	v := &Validator{validate: validator.New(validator.WithRequiredStructEnabled()), now: now}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.validate.RegisterValidation("postcode", func(fl validator.FieldLevel) bool {
		return PostalCodePattern.MatchString(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("notfutureyear", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(v.now().Year())
	})

	return v
}

// Struct validates s and reports violations in field order.
func (v *Validator) Struct(s interface{}) *ValidationResult {
	err := v.validate.Struct(s)
	if err == nil {
		return &ValidationResult{Valid: true}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "", Message: err.Error(), Code: "INVALID_INPUT"}},
		}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fieldPath(fe),
			Message: message(fe),
			Code:    code(fe.Tag()),
		})
	}
	return &ValidationResult{Valid: false, Errors: out}
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe)
	kind := fe.Kind()
	isCollection := kind == reflect.Slice || kind == reflect.Array || kind == reflect.Map
	isString := kind == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		switch {
		case isCollection:
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		case isString:
			return fmt.Sprintf("%s must be at least %s character(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		switch {
		case isCollection:
			return fmt.Sprintf("%s must contain at most %s item(s)", field, fe.Param())
		case isString:
			return fmt.Sprintf("%s must be at most %s character(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "postcode":
		return fmt.Sprintf("%s must be a valid postal code (e.g. 1234 AB)", field)
	case "notfutureyear":
		return fmt.Sprintf("%s must not be later than the current year", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

func code(tag string) string {
	switch tag {
	case "required":
		return "REQUIRED_FIELD_MISSING"
	case "min":
		return "MIN_VIOLATION"
	case "max":
		return "MAX_VIOLATION"
	case "postcode", "email":
		return "PATTERN_MISMATCH"
	case "notfutureyear":
		return "MAX_VIOLATION"
	}
	return "INVALID_VALUE"
}
