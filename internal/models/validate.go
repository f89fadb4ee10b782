package models

import (
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the domain rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			return slices.Contains(Weekdays, fl.Field().String())
		})
	})
	return validate
}

// Validate checks v against its struct tags.
func Validate(v any) error {
	return Validator().Struct(v)
}
