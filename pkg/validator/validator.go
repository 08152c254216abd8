package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"

	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/model"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// direction accepts the stored movement values and the IN/OUT aliases
	validate.RegisterValidation("direction", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseDirection(fl.Field().String())
		return ok
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return []*ErrorResponse{{FailedField: "", Tag: err.Error()}}
		}
		for _, err := range validationErrs {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errs = append(errs, &element)
		}
	}
	return errs
}

// Check validates data and reports the first failure as InvalidArgument.
func Check(data interface{}) error {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	msg := fmt.Sprintf("field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	if first.Value != "" {
		msg += fmt.Sprintf(" (%s)", first.Value)
	}
	return errors.Annotate(storeerrors.InvalidArgument, msg)
}
