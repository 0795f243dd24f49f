// Package secret generates one-time codes and reset tokens and handles their
// at-rest form.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
)

const (
	otpMin = 100000
	otpMax = 999999

	// ResetTokenBytes is the entropy of a reset token before hex encoding.
	ResetTokenBytes = 32
)

// Generator produces fresh secrets.
type Generator interface {
	OTP() (string, error)
	ResetToken() (string, error)
}

// Random draws secrets from crypto/rand.
type Random struct{}

var _ Generator = Random{}

// OTP returns a six-digit code drawn uniformly from [100000, 999999].
func (Random) OTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// ResetToken returns 32 random bytes hex-encoded.
func (Random) ResetToken() (string, error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken is the at-rest form of a reset token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// MatchToken reports whether token hashes to storedHash, in constant time.
func MatchToken(token, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashToken(token)), []byte(storedHash)) == 1
}
