package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits, spaces, dashes, dots, parentheses and a leading +")

	// ErrInvalidLength indicates the national number is not 10 digits
	ErrInvalidLength = errors.New("phone number must be exactly 10 digits")

	// ErrInvalidPrefix indicates the number is not a mobile number
	ErrInvalidPrefix = errors.New("phone number must start with 07")
)

// mobilePrefix starts every national mobile number
const mobilePrefix = "07"

// countryCode is dropped in favour of the leading 0
const countryCode = "94"

var digitsRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator normalizes passenger phone numbers
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates a mobile number and returns it in national form.
// Accepts 0771234567, 077 123 4567, 077-123-4567, (077) 123.4567, +94771234567
// and 94771234567; all of them normalize to 0771234567.
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	if !digitsRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	if len(sanitized) != 10 {
		return "", ErrInvalidLength
	}

	if !strings.HasPrefix(sanitized, mobilePrefix) {
		return "", ErrInvalidPrefix
	}

	return sanitized, nil
}

// Sanitize removes separators and rewrites the country code to a leading 0
func (v *PhoneValidator) Sanitize(phone string) string {
	phone = strings.TrimSpace(phone)
	plus := strings.HasPrefix(phone, "+")
	phone = strings.TrimPrefix(phone, "+")

	phone = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "").Replace(phone)

	if strings.HasPrefix(phone, countryCode) && (plus || len(phone) == 11) {
		phone = "0" + phone[len(countryCode):]
	}

	return phone
}
