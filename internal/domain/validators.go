package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxIBANLength  = 34
	MaxRatePerHour = 500
	MinNameLength  = 2
	MinPasswordLen = 8
	// MaxPasswordLen is bcrypt's input limit in bytes.
	MaxPasswordLen = 72
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("E-Mail erforderlich")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("Gültige E-Mail")
	}
	return nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateName checks a trainer display name.
func ValidateName(name string) error {
	if len([]rune(strings.TrimSpace(name))) < MinNameLength {
		return fmt.Errorf("Name angeben")
	}
	return nil
}

// ValidateRate checks an hourly rate.
func ValidateRate(rate float64) error {
	if rate < 0 {
		return fmt.Errorf("Stundensatz darf nicht negativ sein")
	}
	if rate > MaxRatePerHour {
		return fmt.Errorf("Unrealistischer Stundensatz")
	}
	return nil
}

// NormalizeIBAN trims an IBAN and returns nil for an empty value.
func NormalizeIBAN(iban string) (*string, error) {
	iban = strings.TrimSpace(iban)
	if iban == "" {
		return nil, nil
	}
	if len(iban) > MaxIBANLength {
		return nil, fmt.Errorf("IBAN zu lang")
	}
	return &iban, nil
}
