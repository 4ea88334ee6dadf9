package api

import (
	"github.com/go-playground/validator/v10"

	"campusrent/internal/domain/entity"
)

type Validator struct {
	validator *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("roll_number", func(fl validator.FieldLevel) bool {
		return entity.RollNumberExact.MatchString(fl.Field().String())
	})

	return &Validator{validator: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}
