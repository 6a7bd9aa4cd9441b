package validator

import (
	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

// ValidateStruct runs the struct tags and flattens the failures.
func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	if err := validate.Struct(data); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errs = append(errs, &ErrorResponse{
				FailedField: fieldErr.StructNamespace(),
				Tag:         fieldErr.Tag(),
				Value:       fieldErr.Param(),
			})
		}
	}
	return errs
}
