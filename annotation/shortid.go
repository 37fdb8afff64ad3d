package annotation

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	ShortIDLength   = 6
	shortIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var alphabetSize = big.NewInt(int64(len(shortIDAlphabet)))

// NewShortID returns a random 6 character id over [a-z0-9]. Uniqueness is not
// checked here, a collision surfaces as ErrDuplicateShortID from persistence.
func NewShortID() string {
	var b strings.Builder
	b.Grow(ShortIDLength)
	for i := 0; i < ShortIDLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			panic(err)
		}
		b.WriteByte(shortIDAlphabet[n.Int64()])
	}
	return b.String()
}

// ValidShortID reports whether s could have been produced by NewShortID.
func ValidShortID(s string) bool {
	if len(s) != ShortIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// ShareURL builds the viewer link for a short id.
func ShareURL(origin, shortID string) string {
	return strings.TrimRight(origin, "/") + "/view/" + shortID
}
