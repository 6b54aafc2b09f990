package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"reviflow/internal/domain"
	"reviflow/internal/util"

	"github.com/go-playground/validator/v10"
)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance. Field names in reported
// errors follow the json tags of the validated struct.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates a request DTO against its `validate` tags.
func (v *Validator) Struct(s interface{}) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationErrors{{Field: "body", Message: err.Error()}}
	}

	result := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		result = append(result, toValidationError(fe))
	}
	return result
}

// ValidateID checks a path or query identifier. An empty value is reported
// as missing only when required.
func (v *Validator) ValidateID(field, value string, required bool) domain.ValidationErrors {
	if strings.TrimSpace(value) == "" {
		if required {
			return domain.ValidationErrors{domain.NewMissingFieldError(field)}
		}
		return nil
	}
	if !util.IsULID(value) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, value)}
	}
	return nil
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min", "max", "len":
		return domain.ValidationError{Field: field, Message: lengthMessage(fe), Value: fe.Value()}
	case "oneof":
		return domain.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", ")),
			Value:   fe.Value(),
		}
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

// fieldPath drops the struct name prefix: "ScoreRequest.details[0].question"
// becomes "details[0].question".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func lengthMessage(fe validator.FieldError) string {
	kind := fe.Kind()
	sized := kind == reflect.String || kind == reflect.Slice || kind == reflect.Map || kind == reflect.Array
	switch fe.Tag() {
	case "min":
		if sized {
			return fmt.Sprintf("must contain at least %s item(s) or character(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if sized {
			return fmt.Sprintf("must contain at most %s item(s) or character(s)", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("must have length %s", fe.Param())
	}
}
