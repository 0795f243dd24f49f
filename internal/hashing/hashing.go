// Package hashing turns plaintext passwords into one-way digests and checks
// candidates against them.
package hashing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/certzilla/auth-server/internal/config"
)

var (
	// ErrUnknownFormat is returned by Verify for digests no hasher understands.
	ErrUnknownFormat = errors.New("unknown password hash format")
	// ErrPasswordTooLong is returned by Hash when the algorithm cannot take
	// the whole plaintext.
	ErrPasswordTooLong = errors.New("password is too long")
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// Multi hashes with one algorithm and verifies digests of any supported
// algorithm, so switching HASH_ALGORITHM keeps existing users able to log in.
type Multi struct {
	primary Hasher
	bcrypt  *Bcrypt
	argon2  *Argon2
}

var _ Hasher = (*Multi)(nil)

// New builds a Multi from configuration.
func New(cfg config.Hash) (*Multi, error) {
	b, err := NewBcrypt(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	a, err := NewArgon2(Argon2Params{
		Time:        cfg.Argon2Time,
		MemoryKiB:   cfg.Argon2MemKiB,
		Parallelism: cfg.Argon2Par,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		return nil, err
	}

	m := &Multi{bcrypt: b, argon2: a}
	switch cfg.Algorithm {
	case config.HashBcrypt:
		m.primary = b
	case config.HashArgon2id:
		m.primary = a
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", cfg.Algorithm)
	}

	return m, nil
}

func (m *Multi) Hash(plaintext string) (string, error) {
	return m.primary.Hash(plaintext)
}

func (m *Multi) Verify(plaintext, digest string) (bool, error) {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		return m.argon2.Verify(plaintext, digest)
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		return m.bcrypt.Verify(plaintext, digest)
	default:
		return false, ErrUnknownFormat
	}
}
