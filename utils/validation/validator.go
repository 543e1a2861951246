package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// EmailRegex is a simple email validation regex
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// PhoneRegex accepts loosely formatted phone numbers: at least nine
	// characters out of digits, spaces and common punctuation.
	PhoneRegex = regexp.MustCompile(`^[0-9+ ()./\-]{9,}$`)

	// DateRangeRegex matches exception keys of the form
	// "YYYY-MM-DD_YYYY-MM-DD".
	DateRangeRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\d{4}-\d{2}-\d{2}$`)
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the site's custom rules
// registered.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterValidation("phone_loose", func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String())
	})
	return &Validator{validate: v}
}

// ValidateStruct validates a struct using struct tags. Errors come back
// in struct field order.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to a field → message map
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", e.Field())
			case "email":
				errors[field] = "Invalid email format"
			case "phone_loose":
				errors[field] = "Invalid phone number"
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
			case "gte":
				errors[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
			case "lte":
				errors[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}

// FirstValidationError returns the first failed field and its message, in
// struct field order.
func FirstValidationError(err error) (string, string) {
	if validationErrs, ok := err.(validator.ValidationErrors); ok && len(validationErrs) > 0 {
		msgs := FormatValidationErrors(validationErrs[0:1])
		for field, msg := range msgs {
			return field, msg
		}
	}
	return "", err.Error()
}

// ValidateEmail checks if an email is valid
func ValidateEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	return EmailRegex.MatchString(email)
}

// ValidatePhone checks a phone number against the loose pattern.
func ValidatePhone(phone string) bool {
	return PhoneRegex.MatchString(strings.TrimSpace(phone))
}

// ValidateDateRangeKey checks an opening-hours exception key: two ISO
// dates joined by an underscore, from not after to.
func ValidateDateRangeKey(key string) bool {
	if !DateRangeRegex.MatchString(key) {
		return false
	}
	parts := strings.SplitN(key, "_", 2)
	return parts[0] <= parts[1]
}
