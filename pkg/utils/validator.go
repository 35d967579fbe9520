package utils

import (
	"fmt"
	"regexp"
)

var (
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	controlRegex  = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateAmountCents validates a claim amount expressed in minor units
func ValidateAmountCents(amountCents int64) error {
	if amountCents <= 0 {
		return fmt.Errorf("amount must be positive: %d", amountCents)
	}
	return nil
}

// ValidateCurrency validates an ISO 4217 style currency code
func ValidateCurrency(currency string) error {
	if !currencyRegex.MatchString(currency) {
		return fmt.Errorf("invalid currency code: %q", currency)
	}
	return nil
}

// SanitizeString removes control characters from user-supplied text
func SanitizeString(s string) string {
	return controlRegex.ReplaceAllString(s, "")
}
