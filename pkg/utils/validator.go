package utils

import (
	"fmt"
	"reflect"
	"strings"

	"cinephile/internal/data/entity"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields under their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	v.RegisterValidation("showtime", func(fl validator.FieldLevel) bool {
		_, err := entity.ParseShowTime(fl.Field().String())
		return err == nil
	})

	return v
}

// RegisterValueType makes the tags on fields of the given wrapper types apply
// to the value fn extracts from them.
func RegisterValueType(fn validator.CustomTypeFunc, types ...any) {
	validate.RegisterCustomTypeFunc(fn, types...)
}

// ValidateStruct checks the shape of a request DTO and returns field -> message.
func ValidateStruct(data any) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, err := range validationErrors {
			errors[err.Field()] = getErrorMessage(err)
		}
	}

	return errors
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		return fmt.Sprintf("ensure this field has at least %s characters", err.Param())
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", err.Param())
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("must be one of: %s", options)
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "showtime":
		return "time has wrong format, use hh:mm[:ss]"
	case "eqfield":
		return fmt.Sprintf("must match %s", err.Param())
	default:
		return fmt.Sprintf("invalid %s field", err.Field())
	}
}
