package repository

import (
	"context"
	"time"

	"storeit/internal/model"
)

// SessionRepository defines data access for browser sessions.
type SessionRepository interface {
	// Create inserts a new session row.
	Create(ctx context.Context, s *model.Session) error

	// FindBySecretHash returns a session by the hash of its cookie secret.
	// sql.ErrNoRows when absent.
	FindBySecretHash(ctx context.Context, hash string) (*model.Session, error)

	// DeleteBySecretHash removes a session. Returns nil if the row was
	// deleted or did not exist.
	DeleteBySecretHash(ctx context.Context, hash string) error
}

// OTPRepository defines data access for pending one-time-passcode challenges.
type OTPRepository interface {
	// Create inserts a new challenge row.
	Create(ctx context.Context, c *model.OTPChallenge) error

	// FindByID returns a challenge. sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id string) (*model.OTPChallenge, error)

	// ResetCode replaces the code hash and restarts the expiry and resend
	// clocks. Also clears the attempt counter. sql.ErrNoRows when absent.
	ResetCode(ctx context.Context, id, codeHash string, sentAt, expiresAt time.Time) error

	// IncrementAttempts bumps the failed-verify counter and returns the new
	// value. sql.ErrNoRows when absent.
	IncrementAttempts(ctx context.Context, id string) (int, error)

	// Delete removes a challenge after successful verification or abandonment.
	// Returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
