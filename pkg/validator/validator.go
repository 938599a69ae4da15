package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// messages maps a validation tag to its error text. %p is replaced by the tag parameter.
var messages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"min":      "must be at least %p characters",
	"max":      "must be at most %p characters",
	"gte":      "must be greater than or equal to %p",
	"lte":      "must be less than or equal to %p",
	"gt":       "must be greater than %p",
	"oneof":    "must be one of: %p",
	"uuid":     "must be a valid UUID",
	"eth_addr": "must be a valid wallet address",
	"datetime": "must match format %p",
}

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports fields by their JSON names so error keys match the request body.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ValidateVar checks a single value against a tag expression such as "eth_addr".
func (cv *CustomValidator) ValidateVar(field interface{}, tag string) error {
	return cv.validator.Var(field, tag)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	result := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return result
	}

	for _, e := range validationErrors {
		field := e.Field()
		// eth_addr|len=0 reports the whole alternation as its tag
		tag := strings.SplitN(e.Tag(), "|", 2)[0]

		msg, ok := messages[tag]
		if !ok {
			msg = "is invalid"
		}
		result[field] = field + " " + strings.ReplaceAll(msg, "%p", e.Param())
	}

	return result
}
