// Package password hashes and checks user passwords with bcrypt.
package password

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is used for every new or changed password.
const DefaultCost = 10

// MinLength is the shortest accepted plaintext.
const MinLength = 6

// MaxLength is the longest plaintext bcrypt accepts, in bytes.
const MaxLength = 72

type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted bcrypt digest of plain.
func (h *Hasher) Hash(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), h.cost)
}

// Compare reports whether plain matches digest. bcrypt compares in constant time.
func (h *Hasher) Compare(digest []byte, plain string) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(plain)) == nil
}
