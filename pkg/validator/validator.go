package validator

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"staff-service/internal/domain/entity"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// PasswordSymbols is the punctuation set a password must draw at least one symbol from.
const PasswordSymbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterValidation("specialty", func(fl validator.FieldLevel) bool {
		return entity.Specialty(fl.Field().String()).IsValid()
	})
	v.RegisterValidation("dni", func(fl validator.FieldLevel) bool {
		return entity.NationalIDFormat(fl.Field().String())
	})
	v.RegisterValidation("dniletter", func(fl validator.FieldLevel) bool {
		return entity.ValidNationalID(fl.Field().String())
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// FirstError returns the message of the first violated rule, in field order.
func (cv *CustomValidator) FirstError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		return message(validationErrors[0])
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errors[e.Field()] = message(e)
		}
	}

	return errors
}

func message(e validator.FieldError) string {
	field := e.Field()
	value := fmt.Sprint(e.Value())
	switch e.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "uuid", "uuid4":
		return value + " is not a valid UUID!"
	case "specialty":
		return value + " is not a valid specialty"
	case "dni":
		return field + " must be 8 digits followed by an uppercase letter"
	case "dniletter":
		return value + " is not a valid DNI number!"
	case "password":
		return field + " must contain an uppercase letter, a lowercase letter, a number and a symbol, and no whitespace"
	case "min":
		return field + " must be at least " + e.Param() + " characters"
	case "max":
		return field + " must be at most " + e.Param() + " characters"
	default:
		return field + " is invalid"
	}
}

// StrongPassword reports whether s has an upper and a lower case letter, a digit,
// a symbol from PasswordSymbols and no whitespace. Length is checked separately.
func StrongPassword(s string) bool {
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
