package model

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Custom binding tags for the request payloads: department and gender check
// enum membership, dateonly checks the YYYY-MM-DD wire format.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("department", validDepartment)
	_ = v.RegisterValidation("gender", validGender)
	_ = v.RegisterValidation("dateonly", validDateOnly)
}

func validDepartment(fl validator.FieldLevel) bool {
	return Department(fl.Field().String()).IsValid()
}

func validGender(fl validator.FieldLevel) bool {
	return Gender(fl.Field().String()).IsValid()
}

func validDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateOnly, fl.Field().String())
	return err == nil
}
