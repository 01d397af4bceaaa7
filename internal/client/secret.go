package client

import "strings"

type Visibility int

const (
	Masked Visibility = iota
	Plain
)

const maskRune = "•"

// SecretField is a password input with its own show/hide toggle.
type SecretField struct {
	Value      string
	Visibility Visibility
}

func (f *SecretField) Toggle() {
	if f.Visibility == Masked {
		f.Visibility = Plain
		return
	}
	f.Visibility = Masked
}

// Display is what the field shows; Value is unaffected by visibility.
func (f *SecretField) Display() string {
	if f.Visibility == Plain {
		return f.Value
	}
	return strings.Repeat(maskRune, len([]rune(f.Value)))
}
