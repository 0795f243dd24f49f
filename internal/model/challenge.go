package model

import (
	"fmt"
	"time"
)

// ChallengeKind tags the pending one-time secret of a user.
type ChallengeKind string

const (
	ChallengeNone  ChallengeKind = "none"
	ChallengeOTP   ChallengeKind = "otp"
	ChallengeReset ChallengeKind = "reset"
)

// Challenge is the per-user OTP/reset state. It is one of
// NoChallenge, OTPPending{code, expiry} or ResetPending{tokenHash, expiry};
// a secret never exists without its expiry.
type Challenge struct {
	kind      ChallengeKind
	secret    string
	expiresAt time.Time
}

// NoChallenge returns the idle state.
func NoChallenge() Challenge {
	return Challenge{kind: ChallengeNone}
}

// OTPPending returns a pending one-time code challenge.
func OTPPending(code string, expiresAt time.Time) Challenge {
	return Challenge{kind: ChallengeOTP, secret: code, expiresAt: expiresAt}
}

// ResetPending returns a pending reset challenge holding the token hash.
func ResetPending(tokenHash string, expiresAt time.Time) Challenge {
	return Challenge{kind: ChallengeReset, secret: tokenHash, expiresAt: expiresAt}
}

// RestoreChallenge rebuilds a challenge from its stored parts.
func RestoreChallenge(kind ChallengeKind, secret string, expiresAt *time.Time) (Challenge, error) {
	switch kind {
	case "", ChallengeNone:
		return NoChallenge(), nil
	case ChallengeOTP, ChallengeReset:
		if secret == "" || expiresAt == nil {
			return Challenge{}, fmt.Errorf("incomplete %s challenge", kind)
		}
		return Challenge{kind: kind, secret: secret, expiresAt: *expiresAt}, nil
	default:
		return Challenge{}, fmt.Errorf("unknown challenge kind %q", kind)
	}
}

// Kind returns the tag. The zero Challenge is ChallengeNone.
func (c Challenge) Kind() ChallengeKind {
	if c.kind == "" {
		return ChallengeNone
	}
	return c.kind
}

// PendingOTP returns the code and expiry when an OTP is pending.
func (c Challenge) PendingOTP() (code string, expiresAt time.Time, ok bool) {
	if c.kind != ChallengeOTP {
		return "", time.Time{}, false
	}
	return c.secret, c.expiresAt, true
}

// PendingReset returns the token hash and expiry when a reset is pending.
func (c Challenge) PendingReset() (tokenHash string, expiresAt time.Time, ok bool) {
	if c.kind != ChallengeReset {
		return "", time.Time{}, false
	}
	return c.secret, c.expiresAt, true
}

// Parts flattens the challenge for storage. Secret and expiry are nil for NoChallenge.
func (c Challenge) Parts() (kind ChallengeKind, secret *string, expiresAt *time.Time) {
	if c.Kind() == ChallengeNone {
		return ChallengeNone, nil, nil
	}
	s, e := c.secret, c.expiresAt
	return c.kind, &s, &e
}
