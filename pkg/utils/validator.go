package utils

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,254}$`)

// NewValidator returns a validator engine shared by the form schemas.
//
// Field names in validation errors come from the `form` struct tag, so they
// match the names posted by the dashboard forms. Two extra tags are registered:
//
//	identifier      - opaque key made of letters, digits, '-' and '_'
//	positive_amount - decimal string strictly greater than zero
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("identifier", validateIdentifier)
	_ = v.RegisterValidation("positive_amount", validatePositiveAmount)

	return v
}

// ValidateIdentifier reports whether s is a well-formed opaque identifier
func ValidateIdentifier(s string) bool {
	return identifierRegex.MatchString(s)
}

// ParseAmount parses a decimal amount string. Empty input coerces to zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func validateIdentifier(fl validator.FieldLevel) bool {
	return ValidateIdentifier(fl.Field().String())
}

func validatePositiveAmount(fl validator.FieldLevel) bool {
	amount, err := ParseAmount(fl.Field().String())
	if err != nil {
		return false
	}
	return amount.IsPositive()
}
