package validation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/macs03/dynamicweb/model"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: NewValidate()}
}

// NewValidate returns a validator with the "date" tag registered for
// YYYY-MM-DD strings.
func NewValidate() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(model.DateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}
