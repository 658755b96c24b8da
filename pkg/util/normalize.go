package util

import (
	"strings"
	"unicode"
)

const (
	zipLength      = 5
	phoneMaxDigits = 15
	phoneMinDigits = 10
)

// DigitsOnly strips every non-digit rune.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// LimitDigits strips non-digits and truncates to max digits.
func LimitDigits(s string, max int) string {
	d := DigitsOnly(s)
	if len(d) > max {
		return d[:max]
	}
	return d
}

// NormalizeZip keeps digits and left-pads with zeros to five. Input with more
// than five digits is returned unpadded and fails IsValidZip.
func NormalizeZip(raw string) string {
	d := DigitsOnly(raw)
	if len(d) < zipLength {
		d = strings.Repeat("0", zipLength-len(d)) + d
	}
	return d
}

// IsValidZip reports whether zip is exactly five digits.
func IsValidZip(zip string) bool {
	return len(zip) == zipLength && DigitsOnly(zip) == zip
}

// NormalizePhone keeps at most fifteen digits.
func NormalizePhone(raw string) string {
	return LimitDigits(raw, phoneMaxDigits)
}

// IsValidPhone reports whether a normalized phone has at least ten digits.
func IsValidPhone(phone string) bool {
	return len(phone) >= phoneMinDigits
}

// HumanizeField turns a snake_case field key into a label: "first_name" -> "first name".
func HumanizeField(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}
