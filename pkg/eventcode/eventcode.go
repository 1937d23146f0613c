// Package eventcode generates and validates the short public codes that
// identify events. Codes are meant to be read aloud or typed from a phone
// screen, so the alphabet drops the visually ambiguous characters 0, 1, I
// and O.
package eventcode

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Alphabet is the set of characters codes are drawn from: uppercase
// letters and digits minus {0, 1, I, O}.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length is the fixed code length.
const Length = 5

// Generate returns a new random code. Each character is drawn uniformly
// from Alphabet using crypto/rand.
func Generate() (string, error) {
	max := big.NewInt(int64(len(Alphabet)))

	var sb strings.Builder
	sb.Grow(Length)
	for i := 0; i < Length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(Alphabet[n.Int64()])
	}
	return sb.String(), nil
}

// IsValid reports whether code has the right length and every character
// belongs to Alphabet. Lowercase input is rejected, not normalized.
func IsValid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(Alphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
