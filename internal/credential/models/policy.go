package models

import "unicode"

const MinPasswordLength = 8

// MeetsPolicy requires at least MinPasswordLength characters, an upper and
// a lower case letter, and a symbol, digit or whitespace.
func MeetsPolicy(password string) bool {
	if len([]rune(password)) < MinPasswordLength {
		return false
	}
	var upper, lower, other bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r), unicode.IsSpace(r), unicode.IsPunct(r), unicode.IsSymbol(r):
			other = true
		}
	}
	return upper && lower && other
}
