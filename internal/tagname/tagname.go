// Package tagname converts raw tag input to its canonical form and checks
// that the canonical form is legal.
package tagname

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxLen is the maximum tag name length in runes.
const MaxLen = 20

var (
	ErrEmpty       = errors.New("tag name is empty")
	ErrTooLong     = errors.New("tag name is longer than 20 characters")
	ErrInvalidChar = errors.New("tag name contains invalid characters")
)

// Normalize trims surrounding whitespace (spaces, tabs, newlines) and
// lowercases the result. Idempotent; kana and kanji pass through unchanged.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Validate checks a normalized tag name. Checks run in order: non-empty,
// length, character set. The allowed set is ASCII letters and digits,
// hiragana, katakana, the prolonged sound mark, CJK unified ideographs,
// hyphen and underscore. Full-width alphanumerics, spaces, punctuation and
// emoji are all rejected.
func Validate(name string) error {
	if name == "" {
		return ErrEmpty
	}
	if utf8.RuneCountInString(name) > MaxLen {
		return ErrTooLong
	}
	for _, r := range name {
		if !allowedRune(r) {
			return ErrInvalidChar
		}
	}
	return nil
}

func allowedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r >= 'ぁ' && r <= 'ん': // hiragana
		return true
	case r >= 'ァ' && r <= 'ヶ': // katakana
		return true
	case r == 'ー': // prolonged sound mark
		return true
	case r >= '一' && r <= '龠': // CJK unified ideographs
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}
