package postgres

import (
	"context"
	"database/sql"
	"time"

	"storeit/internal/model"
	"storeit/internal/repository"
)

// SessionPostgres is a PostgreSQL implementation of repository.SessionRepository.
type SessionPostgres struct {
	db *sql.DB
}

// NewSessionPostgres creates a new SessionPostgres repository.
func NewSessionPostgres(db *sql.DB) *SessionPostgres {
	return &SessionPostgres{db: db}
}

var _ repository.SessionRepository = (*SessionPostgres)(nil)

// Create inserts a new session row.
func (r *SessionPostgres) Create(ctx context.Context, s *model.Session) error {
	const q = `
		INSERT INTO sessions (id, user_id, secret_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, q, s.ID, s.UserID, s.SecretHash, s.ExpiresAt, s.CreatedAt)
	return err
}

// FindBySecretHash fetches a session by secret hash.
func (r *SessionPostgres) FindBySecretHash(ctx context.Context, hash string) (*model.Session, error) {
	const q = `
		SELECT id, user_id, secret_hash, expires_at, created_at
		FROM sessions
		WHERE secret_hash = $1
	`
	var s model.Session
	if err := r.db.QueryRowContext(ctx, q, hash).Scan(
		&s.ID, &s.UserID, &s.SecretHash, &s.ExpiresAt, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteBySecretHash removes a session. Missing rows are not an error.
func (r *SessionPostgres) DeleteBySecretHash(ctx context.Context, hash string) error {
	const q = `DELETE FROM sessions WHERE secret_hash = $1`
	_, err := r.db.ExecContext(ctx, q, hash)
	return err
}

// OTPPostgres is a PostgreSQL implementation of repository.OTPRepository.
type OTPPostgres struct {
	db *sql.DB
}

// NewOTPPostgres creates a new OTPPostgres repository.
func NewOTPPostgres(db *sql.DB) *OTPPostgres {
	return &OTPPostgres{db: db}
}

var _ repository.OTPRepository = (*OTPPostgres)(nil)

// Create inserts a new challenge row.
func (r *OTPPostgres) Create(ctx context.Context, c *model.OTPChallenge) error {
	const q = `
		INSERT INTO otp_challenges (id, email, code_hash, attempts, expires_at, last_sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.Email, c.CodeHash, c.Attempts, c.ExpiresAt, c.LastSentAt, c.CreatedAt)
	return err
}

// FindByID fetches a challenge by ID.
func (r *OTPPostgres) FindByID(ctx context.Context, id string) (*model.OTPChallenge, error) {
	const q = `
		SELECT id, email, code_hash, attempts, expires_at, last_sent_at, created_at
		FROM otp_challenges
		WHERE id = $1
	`
	var c model.OTPChallenge
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Email, &c.CodeHash, &c.Attempts, &c.ExpiresAt, &c.LastSentAt, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// ResetCode replaces the code hash, restarts expiry and resend clocks, and
// clears the attempt counter.
func (r *OTPPostgres) ResetCode(ctx context.Context, id, codeHash string, sentAt, expiresAt time.Time) error {
	const q = `
		UPDATE otp_challenges
		SET code_hash = $2, attempts = 0, last_sent_at = $3, expires_at = $4
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, id, codeHash, sentAt, expiresAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementAttempts bumps the failed-verify counter and returns the new value.
func (r *OTPPostgres) IncrementAttempts(ctx context.Context, id string) (int, error) {
	const q = `
		UPDATE otp_challenges SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts
	`
	var attempts int
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&attempts); err != nil {
		return 0, err
	}
	return attempts, nil
}

// Delete removes a challenge. Missing rows are not an error.
func (r *OTPPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM otp_challenges WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
