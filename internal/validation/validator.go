package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"quizbot/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator checks request and upstream payloads against their validate tags and
// reports failures as domain.ValidationErrors keyed by JSON field name.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("difficulty", validDifficulty)

	return &Validator{validate: v}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validDifficulty(fl validator.FieldLevel) bool {
	_, err := domain.ParseDifficulty(fl.Field().String())
	return err == nil
}

// Struct validates s. A nil result means s is valid.
func (v *Validator) Struct(s any) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewValidationError(err.Error())
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, translate(fe))
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func translate(fe validator.FieldError) domain.ValidationError {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required", "notblank":
		return domain.NewMissingFieldError(field)
	case "min", "gte":
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeOutOfRange,
			Message: fmt.Sprintf("%s must be at least %s", field, fe.Param()),
			Value:   fe.Value(),
		}
	case "max", "lte":
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeOutOfRange,
			Message: fmt.Sprintf("%s must be at most %s", field, fe.Param()),
			Value:   fe.Value(),
		}
	case "len":
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeOutOfRange,
			Message: fmt.Sprintf("%s must have exactly %s entries", field, fe.Param()),
			Value:   fe.Value(),
		}
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}
