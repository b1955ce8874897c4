package security

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const codeDigits = 6

// CodeHasher issues one-time codes and keeps only their bcrypt hash.
type CodeHasher struct {
	cost int
}

func NewCodeHasher() *CodeHasher {
	return &CodeHasher{cost: bcrypt.DefaultCost}
}

// Generate returns a fresh zero-padded numeric code.
func (h *CodeHasher) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

func (h *CodeHasher) Hash(code string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(code), h.cost)
	return string(bytes), err
}

func (h *CodeHasher) Compare(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
