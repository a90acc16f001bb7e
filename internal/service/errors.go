package service

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrEmptyEmail        = errors.New("email is empty")
	ErrInvalidEmail      = errors.New("email is invalid")
	ErrSessionRequired   = errors.New("session id is required")
	ErrIncompleteAnswers = errors.New("quiz answers are incomplete")
)

// Messages shown next to the email field.
const (
	EmptyEmailMessage   = "Please enter your email"
	InvalidEmailMessage = "Please enter a valid email address"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the address shape only.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// EmailMessage returns the inline hint for a ValidateEmail error, or ""
// for anything else.
func EmailMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyEmail):
		return EmptyEmailMessage
	case errors.Is(err, ErrInvalidEmail):
		return InvalidEmailMessage
	}
	return ""
}
