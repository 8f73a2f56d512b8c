package filter

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tawajud/core"
)

var (
	genderTag  = "gender"
	genderText = "{0} must be Male or Female"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(genderTag, genderValidation)
	core.RegisterCustomTranslation(validate, translator, genderTag, genderText)
}

func genderValidation(fl validator.FieldLevel) bool {
	_, ok := ParseGender(fl.Field().String())
	return ok
}
