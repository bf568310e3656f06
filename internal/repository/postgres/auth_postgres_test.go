package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"storeit/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSessionPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSessionPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("create", func(t *testing.T) {
		s := &model.Session{
			ID:         "sess-id",
			UserID:     "user-id",
			SecretHash: "hash",
			ExpiresAt:  now.Add(24 * time.Hour),
			CreatedAt:  now,
		}
		mock.ExpectExec("INSERT INTO sessions").
			WithArgs(s.ID, s.UserID, s.SecretHash, s.ExpiresAt, s.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, s))
	})

	t.Run("find by secret hash", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "secret_hash", "expires_at", "created_at"}).
			AddRow("sess-id", "user-id", "hash", now.Add(time.Hour), now)

		mock.ExpectQuery("SELECT (.+) FROM sessions WHERE secret_hash = ?").
			WithArgs("hash").
			WillReturnRows(rows)

		s, err := repo.FindBySecretHash(ctx, "hash")

		assert.NoError(t, err)
		assert.Equal(t, "user-id", s.UserID)
	})

	t.Run("find missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM sessions WHERE secret_hash = ?").
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		s, err := repo.FindBySecretHash(ctx, "nope")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, s)
	})

	t.Run("delete", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM sessions WHERE secret_hash = ?").
			WithArgs("hash").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteBySecretHash(ctx, "hash"))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewOTPPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("create", func(t *testing.T) {
		c := &model.OTPChallenge{
			ID:         "ch-id",
			Email:      "a@x.com",
			CodeHash:   "hash",
			ExpiresAt:  now.Add(15 * time.Minute),
			LastSentAt: now,
			CreatedAt:  now,
		}
		mock.ExpectExec("INSERT INTO otp_challenges").
			WithArgs(c.ID, c.Email, c.CodeHash, c.Attempts, c.ExpiresAt, c.LastSentAt, c.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, c))
	})

	t.Run("find by id", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "code_hash", "attempts", "expires_at", "last_sent_at", "created_at"}).
			AddRow("ch-id", "a@x.com", "hash", 2, now.Add(time.Minute), now, now)

		mock.ExpectQuery("SELECT (.+) FROM otp_challenges WHERE id = ?").
			WithArgs("ch-id").
			WillReturnRows(rows)

		c, err := repo.FindByID(ctx, "ch-id")

		assert.NoError(t, err)
		assert.Equal(t, 2, c.Attempts)
	})

	t.Run("reset code", func(t *testing.T) {
		mock.ExpectExec("UPDATE otp_challenges").
			WithArgs("ch-id", "new-hash", now, now.Add(15*time.Minute)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.ResetCode(ctx, "ch-id", "new-hash", now, now.Add(15*time.Minute)))
	})

	t.Run("reset code missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE otp_challenges").
			WithArgs("missing", "new-hash", now, now.Add(15*time.Minute)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ResetCode(ctx, "missing", "new-hash", now, now.Add(15*time.Minute))
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})

	t.Run("increment attempts", func(t *testing.T) {
		mock.ExpectQuery("UPDATE otp_challenges SET attempts").
			WithArgs("ch-id").
			WillReturnRows(sqlmock.NewRows([]string{"attempts"}).AddRow(3))

		attempts, err := repo.IncrementAttempts(ctx, "ch-id")

		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("delete", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM otp_challenges WHERE id = ?").
			WithArgs("ch-id").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "ch-id"))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
