// Package phone formats phone number input into the canonical dash-grouped
// form (XXX-XXXX-XXXX) as it is typed, one edit at a time.
package phone

import (
	"errors"
	"strings"
)

// MaxDigits caps input at a Korean mobile number (3+4+4).
const MaxDigits = 11

var (
	ErrNoDigits      = errors.New("phone: no digits")
	ErrTooManyDigits = errors.New("phone: too many digits")

	ErrInvalidCharacters = errors.New("phone: only digits, spaces and dashes are allowed")
)

// Edit is one mutation of the phone field. A Backspace edit always trims the
// last digit, wherever the cursor is.
type Edit struct {
	Insert    string
	Backspace bool
}

func Insert(s string) Edit { return Edit{Insert: s} }

func Backspace() Edit { return Edit{Backspace: true} }

// Apply returns the text the field should show after e. When the edit is
// rejected the current text is returned unchanged with accepted=false.
func Apply(current string, e Edit) (text string, accepted bool) {
	if e.Backspace {
		digits := StripNonDigits(current)
		if digits == "" {
			return "", true
		}
		digits = digits[:len(digits)-1]
		// current may come from outside the field and exceed the cap
		if len(digits) > MaxDigits {
			digits = digits[:MaxDigits]
		}
		return Format(digits), true
	}

	if e.Insert != "" && !isDigits(e.Insert) {
		return current, false
	}
	digits := StripNonDigits(current + e.Insert)
	if len(digits) > MaxDigits {
		return current, false
	}
	return Format(digits), true
}

// Format groups the digits of s. Non-digits are ignored, so the result
// depends only on the digit content and Format(Format(s)) == Format(s).
func Format(s string) string {
	d := StripNonDigits(s)
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 7:
		return d[:3] + "-" + d[3:]
	default:
		return d[:3] + "-" + d[3:7] + "-" + d[7:]
	}
}

// Normalize prepares a submitted number for storage. Only digits, spaces and
// dashes are allowed. The result is the canonical grouping of the digits,
// except that a hand-typed 3-3-4 number (011-222-3333) is kept as typed.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	for i := 0; i < len(s); i++ {
		if c := s[i]; (c < '0' || c > '9') && c != '-' && c != ' ' {
			return "", ErrInvalidCharacters
		}
	}
	d := StripNonDigits(s)
	if d == "" {
		return "", ErrNoDigits
	}
	if len(d) > MaxDigits {
		return "", ErrTooManyDigits
	}
	if len(d) == 10 && s == d[:3]+"-"+d[3:6]+"-"+d[6:] {
		return s, nil
	}
	return Format(d), nil
}

func StripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
