package validator

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength bounds passenger names
const MaxNameLength = 100

var (
	// ErrEmptyName indicates the passenger name is blank
	ErrEmptyName = errors.New("passenger name cannot be empty")

	// ErrNameTooLong indicates the passenger name exceeds MaxNameLength
	ErrNameTooLong = errors.New("passenger name must be at most 100 characters")

	// ErrInvalidName indicates the name holds digits or control characters
	ErrInvalidName = errors.New("passenger name may only contain letters, spaces, dots, apostrophes and hyphens")
)

// ValidatePassengerName trims and checks a passenger name. Inner runs of
// whitespace collapse to one space.
func ValidatePassengerName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsMark(r):
		case r == ' ', r == '.', r == '\'', r == '-':
		default:
			return "", ErrInvalidName
		}
	}
	return name, nil
}
