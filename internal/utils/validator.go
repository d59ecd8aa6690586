// internal/utils/validator.go
package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/tauro-app/tauro-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("size_group", validateSizeGroup)
	validate.RegisterValidation("decimal_10_2", validateDecimal10_2)
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateSizeGroup(fl validator.FieldLevel) bool {
	return models.SizeGroup(fl.Field().String()).Valid()
}

// decimal(10,2) columns hold at most 8 integer digits and 2 decimals.
var maxDecimal10_2 = decimal.NewFromInt(100_000_000)

// validateDecimal10_2 rejects values a decimal(10,2) column would round or
// overflow. Decimal fields arrive here as float64 through decimalValue.
func validateDecimal10_2(fl validator.FieldLevel) bool {
	var d decimal.Decimal
	switch v := fl.Field().Interface().(type) {
	case float64:
		d = decimal.NewFromFloat(v)
	case decimal.Decimal:
		d = v
	default:
		return false
	}
	return d.Equal(d.Round(2)) && d.Abs().LessThan(maxDecimal10_2)
}

// decimalValue lets numeric tags (gt, gte, ...) apply to decimal fields.
// An invalid NullDecimal reads as nil so omitempty skips it.
func decimalValue(field reflect.Value) interface{} {
	switch v := field.Interface().(type) {
	case decimal.Decimal:
		f, _ := v.Float64()
		return f
	case decimal.NullDecimal:
		if !v.Valid {
			return nil
		}
		f, _ := v.Decimal.Float64()
		return f
	}
	return nil
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_without":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "size_group":
		return "Size group must be one of XS-S-M-L-XL, 2XL-3XL, 4XL"
	case "gte":
		return e.Field() + " must be at least " + e.Param()
	case "decimal_10_2":
		return e.Field() + " must have at most 2 decimals and be below 100000000"
	default:
		return e.Field() + " is invalid"
	}
}
