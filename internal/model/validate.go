package model

import (
	"github.com/go-playground/validator/v10"
)

// NewValidator создает валидатор с правилами доменных типов
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("rating_level", func(fl validator.FieldLevel) bool {
		return RatingLevel(fl.Field().String()).Valid()
	})
	return v
}
