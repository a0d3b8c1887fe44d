package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// UzPhoneRegex matches Uzbek numbers: +998 followed by 9 digits
	UzPhoneRegex = regexp.MustCompile(`^\+998[0-9]{9}$`)

	phoneNoiseRegex = regexp.MustCompile(`[\s\-\(\)]`)
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the custom uzphone tag registered
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("uzphone", func(fl validator.FieldLevel) bool {
		return UzPhoneRegex.MatchString(CleanPhone(fl.Field().String()))
	})

	return &Validator{validate: v}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// CleanPhone strips spaces, dashes and parentheses from a phone number
func CleanPhone(phone string) string {
	return phoneNoiseRegex.ReplaceAllString(phone, "")
}

// ValidateUzPhone reports whether phone is a valid +998XXXXXXXXX number
// after cleaning formatting characters
func ValidateUzPhone(phone string) bool {
	return UzPhoneRegex.MatchString(CleanPhone(phone))
}

// FormatValidationErrors converts validation errors to a field->message map
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", e.Field())
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
			case "oneof":
				errors[field] = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
			case "uzphone":
				errors[field] = "Phone number must match +998XXXXXXXXX"
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}
