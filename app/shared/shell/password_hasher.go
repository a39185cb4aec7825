package shell

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell/config"
)

// HashesPasswords turns a clear text password into the value stored in users.pass_hash.
type HashesPasswords interface {
	Hash(password string) (string, error)
}

// SHA256Hasher stores the unsalted hex SHA-256 digest of the password.
// It exists for compatibility with hashes already stored that way; prefer BcryptHasher for new deployments.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

// BcryptHasher stores a salted bcrypt hash.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// NewPasswordHasher returns the hasher for scheme ("sha256" or "bcrypt").
func NewPasswordHasher(scheme string) (HashesPasswords, error) {
	switch scheme {
	case config.PasswordHashSHA256:
		return SHA256Hasher{}, nil
	case config.PasswordHashBcrypt:
		return BcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("unsupported password hash scheme %q", scheme)
	}
}
