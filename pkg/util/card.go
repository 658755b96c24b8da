package util

import (
	"regexp"
	"strings"
)

const (
	cardNumberDigits  = 16
	cardBINDigits     = 6
	expiryDigits      = 4
	cvvMaxDigits      = 4
	walletPhoneDigits = 10
)

var (
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// FormatCardNumber keeps up to sixteen digits and groups them in fours.
func FormatCardNumber(raw string) string {
	d := LimitDigits(raw, cardNumberDigits)
	var b strings.Builder
	for i, r := range d {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CardDigits strips the grouping from a formatted card number.
func CardDigits(formatted string) string {
	return LimitDigits(formatted, cardNumberDigits)
}

// HasCardBIN reports whether enough digits are present to look up the issuer.
func HasCardBIN(digits string) bool {
	return len(digits) >= cardBINDigits
}

// IsFullCardNumber reports whether digits is a complete card number.
func IsFullCardNumber(digits string) bool {
	return len(digits) == cardNumberDigits
}

// FormatExpiry keeps four digits and inserts a slash after the month.
func FormatExpiry(raw string) string {
	d := LimitDigits(raw, expiryDigits)
	if len(d) > 2 {
		return d[:2] + "/" + d[2:]
	}
	return d
}

func IsValidExpiry(expiry string) bool {
	return expiryPattern.MatchString(expiry)
}

// FormatCVV keeps at most four digits.
func FormatCVV(raw string) string {
	return LimitDigits(raw, cvvMaxDigits)
}

func IsValidCVV(cvv string) bool {
	return cvvPattern.MatchString(cvv)
}

// FormatWalletPhone keeps at most ten digits.
func FormatWalletPhone(raw string) string {
	return LimitDigits(raw, walletPhoneDigits)
}

func IsValidWalletPhone(phone string) bool {
	return len(phone) == walletPhoneDigits && DigitsOnly(phone) == phone
}

// LastFour returns the final four characters of s, or s when shorter.
func LastFour(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}
