package phone

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidatorTag is the struct tag name registered by RegisterValidation.
const ValidatorTag = "e164strict"

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// IsE164 reports whether v is a string holding an E.164 number once
// surrounding whitespace is removed: a plus, a non-zero digit, then 7 to 14
// more digits.
func IsE164(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return e164Pattern.MatchString(strings.TrimSpace(s))
}

// RegisterValidation adds the e164strict tag to v.
func RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation(ValidatorTag, func(fl validator.FieldLevel) bool {
		return IsE164(fl.Field().String())
	})
}
