package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storeit/internal/config"
	"storeit/internal/mail"
	"storeit/internal/model"
	"storeit/internal/repository"
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrFullNameRequired = errors.New("full name is required")
	ErrUserNotFound     = errors.New("no account for this email")
	ErrChallengeGone    = errors.New("challenge not found")
	ErrChallengeExpired = errors.New("challenge expired")
	ErrCodeInvalid      = errors.New("code invalid")
	ErrTooManyAttempts  = errors.New("too many attempts")
	ErrUnauthorized     = errors.New("not signed in")
)

// Challenge is the pending-OTP handle the client holds between "code sent"
// and "code verified". RetryAfterSeconds is how long the resend control stays
// gated; Countdown is the same value formatted MM:SS for display.
type Challenge struct {
	ID                string `json:"challenge_id"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
	Countdown         string `json:"countdown"`
}

// AuthService defines the OTP sign-up/sign-in and session use cases.
type AuthService interface {
	// SignUp creates the user if absent and issues an OTP challenge.
	SignUp(ctx context.Context, fullName, email string) (*Challenge, error)

	// SignIn issues an OTP challenge for an existing user.
	SignIn(ctx context.Context, email string) (*Challenge, error)

	// Resend re-issues the code for a pending challenge. Inside the resend
	// window it is a no-op that reports the remaining gate time; outside it
	// a fresh code is generated, mailed, and the window restarts.
	Resend(ctx context.Context, challengeID string) (*Challenge, error)

	// Verify checks the submitted code. Success creates a session and
	// returns the user together with the opaque session secret.
	Verify(ctx context.Context, challengeID, code string) (*model.User, string, error)

	// SignOut tears the session down. Unknown secrets are not an error.
	SignOut(ctx context.Context, secret string) error

	// UserBySession resolves a cookie secret to its user.
	UserBySession(ctx context.Context, secret string) (*model.User, error)
}

// authService is a concrete implementation of AuthService.
type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	otps     repository.OTPRepository
	sender   mail.Sender
	cfg      config.AuthConfig

	// Injectable for tests.
	now     func() time.Time
	genCode func() (string, error)
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository,
	otps repository.OTPRepository, sender mail.Sender, cfg config.AuthConfig) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		otps:     otps,
		sender:   sender,
		cfg:      cfg,
		now:      time.Now,
		genCode:  generateCode,
	}
}

func (s *authService) resendWindow() time.Duration {
	return time.Duration(s.cfg.ResendWindowSec) * time.Second
}

func (s *authService) otpTTL() time.Duration {
	return time.Duration(s.cfg.OTPTTLMinutes) * time.Minute
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// issueChallenge creates a challenge row and mails the code. If the mail
// cannot be sent the row is removed again so the client never holds a
// challenge id whose code was never delivered.
func (s *authService) issueChallenge(ctx context.Context, email string) (*Challenge, error) {
	code, err := s.genCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}

	now := s.now().UTC()
	ch := &model.OTPChallenge{
		ID:         uuid.New().String(),
		Email:      email,
		CodeHash:   string(hash),
		ExpiresAt:  now.Add(s.otpTTL()),
		LastSentAt: now,
		CreatedAt:  now,
	}
	if err := s.otps.Create(ctx, ch); err != nil {
		return nil, fmt.Errorf("save challenge: %w", err)
	}
	if err := s.sender.SendOTP(ctx, email, code); err != nil {
		if delErr := s.otps.Delete(ctx, ch.ID); delErr != nil {
			return nil, fmt.Errorf("send otp: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("send otp: %w", err)
	}

	return &Challenge{
		ID:                ch.ID,
		RetryAfterSeconds: s.cfg.ResendWindowSec,
		Countdown:         model.FormatCountdown(s.cfg.ResendWindowSec),
	}, nil
}

func (s *authService) SignUp(ctx context.Context, fullName, email string) (*Challenge, error) {
	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)
	if fullName == "" {
		return nil, ErrFullNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		now := s.now().UTC()
		if _, err := s.users.Create(ctx, &model.User{
			ID:        uuid.New().String(),
			FullName:  fullName,
			Email:     email,
			Avatar:    s.cfg.DefaultAvatarURL,
			CreatedAt: now,
		}); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	return s.issueChallenge(ctx, email)
}

func (s *authService) SignIn(ctx context.Context, email string) (*Challenge, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.issueChallenge(ctx, email)
}

func (s *authService) Resend(ctx context.Context, challengeID string) (*Challenge, error) {
	if challengeID == "" {
		return nil, ErrIDRequired
	}
	ch, err := s.otps.FindByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChallengeGone
		}
		return nil, err
	}

	now := s.now().UTC()
	if remaining := ch.ResendRemaining(now, s.resendWindow()); remaining > 0 {
		// Still gated: no mail, just report the countdown.
		return &Challenge{
			ID:                ch.ID,
			RetryAfterSeconds: remaining,
			Countdown:         model.FormatCountdown(remaining),
		}, nil
	}

	code, err := s.genCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}
	if err := s.otps.ResetCode(ctx, ch.ID, string(hash), now, now.Add(s.otpTTL())); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChallengeGone
		}
		return nil, err
	}
	if err := s.sender.SendOTP(ctx, ch.Email, code); err != nil {
		return nil, fmt.Errorf("send otp: %w", err)
	}

	return &Challenge{
		ID:                ch.ID,
		RetryAfterSeconds: s.cfg.ResendWindowSec,
		Countdown:         model.FormatCountdown(s.cfg.ResendWindowSec),
	}, nil
}

func (s *authService) Verify(ctx context.Context, challengeID, code string) (*model.User, string, error) {
	if challengeID == "" {
		return nil, "", ErrIDRequired
	}
	ch, err := s.otps.FindByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrChallengeGone
		}
		return nil, "", err
	}

	now := s.now().UTC()
	if ch.Expired(now) {
		return nil, "", ErrChallengeExpired
	}
	if ch.Attempts >= s.cfg.MaxVerifyTries {
		return nil, "", ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(ch.CodeHash), []byte(code)) != nil {
		attempts, incErr := s.otps.IncrementAttempts(ctx, challengeID)
		if incErr != nil {
			return nil, "", incErr
		}
		if attempts >= s.cfg.MaxVerifyTries {
			return nil, "", ErrTooManyAttempts
		}
		return nil, "", ErrCodeInvalid
	}

	user, err := s.users.FindByEmail(ctx, ch.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	secret, err := newSessionSecret()
	if err != nil {
		return nil, "", fmt.Errorf("generate session secret: %w", err)
	}
	if err := s.sessions.Create(ctx, &model.Session{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		SecretHash: hashSecret(secret),
		ExpiresAt:  now.Add(time.Duration(s.cfg.SessionTTLHours) * time.Hour),
		CreatedAt:  now,
	}); err != nil {
		return nil, "", fmt.Errorf("save session: %w", err)
	}

	// The challenge is spent; cleanup is best-effort.
	_ = s.otps.Delete(ctx, challengeID)

	return user, secret, nil
}

func (s *authService) SignOut(ctx context.Context, secret string) error {
	if secret == "" {
		return nil
	}
	return s.sessions.DeleteBySecretHash(ctx, hashSecret(secret))
}

func (s *authService) UserBySession(ctx context.Context, secret string) (*model.User, error) {
	if secret == "" {
		return nil, ErrUnauthorized
	}
	sess, err := s.sessions.FindBySecretHash(ctx, hashSecret(secret))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if sess.Expired(s.now().UTC()) {
		_ = s.sessions.DeleteBySecretHash(ctx, sess.SecretHash)
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// generateCode draws a uniform six-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// newSessionSecret draws the opaque cookie value. Only its hash is stored.
func newSessionSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
