package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldLower lowercases and strips diacritics ("MIÉRCOLES" -> "miercoles").
func FoldLower(input string) string {
	out, _, err := transform.String(stripAccents, strings.ToLower(input))
	if err != nil {
		return strings.ToLower(input)
	}
	return out
}

func IsUpperLetter(b byte) bool { return b >= 'A' && b <= 'Z' }

func IsDigit(b byte) bool { return b >= '0' && b <= '9' }

// Letters keeps only A-Z from an already uppercased string.
func Letters(upper string) string {
	return keep(upper, IsUpperLetter)
}

// Digits keeps only 0-9.
func Digits(input string) string {
	return keep(input, IsDigit)
}

// Compact keeps A-Z and 0-9 in their original order.
func Compact(upper string) string {
	return keep(upper, func(b byte) bool { return IsUpperLetter(b) || IsDigit(b) })
}

// LeadingLetters returns the longest A-Z prefix.
func LeadingLetters(input string) string {
	i := 0
	for i < len(input) && IsUpperLetter(input[i]) {
		i++
	}
	return input[:i]
}

// IsCanonicalCode matches five uppercase letters followed by one or more digits.
func IsCanonicalCode(input string) bool {
	if len(input) < 6 {
		return false
	}
	for i := 0; i < 5; i++ {
		if !IsUpperLetter(input[i]) {
			return false
		}
	}
	for i := 5; i < len(input); i++ {
		if !IsDigit(input[i]) {
			return false
		}
	}
	return true
}

var confusables = map[byte]string{
	'0': "O",
	'1': "IL",
	'2': "Z",
	'5': "S",
	'6': "G",
	'8': "B",
}

// LooksLike reports whether digit d is commonly mistyped for letter l.
func LooksLike(d, l byte) bool {
	return strings.IndexByte(confusables[d], l) >= 0
}

func keep(input string, pred func(byte) bool) string {
	out := strings.Builder{}
	out.Grow(len(input))
	for i := 0; i < len(input); i++ {
		if pred(input[i]) {
			out.WriteByte(input[i])
		}
	}
	return out.String()
}

func StringPtr(v string) *string { return &v }
