package model

import "time"

// Session links an opaque browser cookie secret to a user. Only a SHA-256
// hash of the secret is stored.
type Session struct {
	ID         string
	UserID     string
	SecretHash string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// OTPChallenge is a pending one-time-passcode sign-in. The challenge id is
// what the client holds between "code sent" and "code verified"; the code
// itself is stored only as a bcrypt hash.
type OTPChallenge struct {
	ID         string
	Email      string
	CodeHash   string
	Attempts   int
	ExpiresAt  time.Time
	LastSentAt time.Time
	CreatedAt  time.Time
}

// Expired reports whether the challenge is past its expiry at the given time.
func (c *OTPChallenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// ResendRemaining returns how many seconds of the resend window are left at
// the given time, zero if the window has elapsed.
func (c *OTPChallenge) ResendRemaining(now time.Time, window time.Duration) int {
	remaining := c.LastSentAt.Add(window).Sub(now)
	if remaining <= 0 {
		return 0
	}
	// Round up so the client never shows 00:00 while resend is still gated.
	return int((remaining + time.Second - 1) / time.Second)
}
