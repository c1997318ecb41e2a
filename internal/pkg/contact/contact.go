package contact

import (
	"strings"

	"github.com/loginus-id/api/internal/domain"
)

// NormalizePhone strips everything except digits and '+'.
// "+7 (999) 000-11-11" and "+79990001111" normalize identically.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Digits strips everything except digits, including '+'. Used for the
// quick-access phone comparison, which ignores the leading plus.
func Digits(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeEmail lowercases and trims surrounding whitespace.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize applies the normalization appropriate for the contact type.
func Normalize(value string, typ domain.ContactType) string {
	if typ == domain.ContactPhone {
		return NormalizePhone(value)
	}
	return NormalizeEmail(value)
}
