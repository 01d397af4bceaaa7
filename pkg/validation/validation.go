package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "jotter/pkg/domain-errors"
	s "jotter/pkg/string"
)

var structs = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}()

// tagMessages renders a failed tag; %[1]s is the field, %[2]s the tag param.
var tagMessages = map[string]string{
	"required": "%[1]s is required",
	"email":    "%[1]s must be a valid email",
	"uuid":     "%[1]s must be a valid uuid",
	"max":      "%[1]s must be at most %[2]s",
	"oneof":    "%[1]s must be one of [%[2]s]",
	"notblank": "%[1]s must not be blank",
}

// Validate checks struct tags and reports the first failing field as a
// validation error.
func Validate(req any) error {
	if err := structs.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

// Valid is Validate for callers that show their own fixed message.
func Valid(req any) bool {
	return structs.Struct(req) == nil
}

func ErrorMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request body"
	}

	first := fieldErrs[0]
	name := first.Field()
	if name == "" {
		name = first.StructField()
	}
	format, ok := tagMessages[first.ActualTag()]
	if !ok {
		format = "%[1]s is invalid"
	}
	return fmt.Sprintf(format, s.ToSnakeCase(name), first.Param())
}
