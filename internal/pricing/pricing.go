// Package pricing turns a destination number and message text into a coin
// cost. Everything here is pure: the same input always yields the same quote
// and no account state is consulted.
package pricing

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	// PartSize is the number of characters billed as one SMS part.
	PartSize = 160
	// MaxParts is the longest message accepted, in parts.
	MaxParts = 3
	// MaxMessageLength is MaxParts * PartSize characters.
	MaxMessageLength = PartSize * MaxParts

	minPhoneLength = 8
)

var (
	ErrInvalidPhone   = errors.New("invalid phone number format")
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = errors.New("message too long")
)

// NormalizePhone keeps the digits of raw and a single leading '+'.
// The result must start with '+' and be at least 8 characters long.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder

	b.Grow(len(raw))

	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	phone := b.String()
	if !strings.HasPrefix(phone, "+") || len(phone) < minPhoneLength {
		return "", ErrInvalidPhone
	}

	return phone, nil
}

// Parts returns how many SMS parts message occupies. Length is counted in
// characters, not bytes.
func Parts(message string) (int, error) {
	n := utf8.RuneCountInString(message)

	switch {
	case n == 0:
		return 0, ErrEmptyMessage
	case n > MaxMessageLength:
		return 0, ErrMessageTooLong
	}

	return (n + PartSize - 1) / PartSize, nil
}
