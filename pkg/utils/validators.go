package utils

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var passportPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{7}$`)

// IsPassport reports whether s is a passport series and number such as AB1234567
func IsPassport(s string) bool {
	return passportPattern.MatchString(s)
}

func validatePassport(fl validator.FieldLevel) bool {
	return IsPassport(fl.Field().String())
}

// RegisterValidators installs the custom binding rules on gin's validator engine
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("passport", validatePassport)
}
