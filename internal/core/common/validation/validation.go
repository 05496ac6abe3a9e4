package validation

import (
	stderrors "errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	errors "github.com/frahmantamala/expense-approval/internal"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report fields by their JSON names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("cents", cents)
	})
	return validate
}

// cents accepts floats with at most two decimal places, the precision of a
// NUMERIC(12,2) column.
func cents(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Float32 && field.Kind() != reflect.Float64 {
		return false
	}
	v := field.Float()
	return math.Round(v*100)/100 == v
}

// Struct validates a DTO against its `validate` tags. A nil result means the
// DTO is valid; callers returning plain error must check for nil first.
func Struct(v interface{}) *errors.AppError {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed)
	}

	details := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, errors.ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
			Code:    strings.ToUpper(fe.Tag()),
		})
	}

	return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
		WithDetails(errors.ValidationErrors{Errors: details})
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "cents":
		return fmt.Sprintf("%s must have at most 2 decimal places", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "alpha":
		return fmt.Sprintf("%s must contain letters only", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in %s format", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
