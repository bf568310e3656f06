package mocks

import (
	"context"
	"time"

	"storeit/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s *model.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) FindBySecretHash(ctx context.Context, hash string) (*model.Session, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionRepository) DeleteBySecretHash(ctx context.Context, hash string) error {
	args := m.Called(ctx, hash)
	return args.Error(0)
}

type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) Create(ctx context.Context, c *model.OTPChallenge) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockOTPRepository) FindByID(ctx context.Context, id string) (*model.OTPChallenge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OTPChallenge), args.Error(1)
}

func (m *MockOTPRepository) ResetCode(ctx context.Context, id, codeHash string, sentAt, expiresAt time.Time) error {
	args := m.Called(ctx, id, codeHash, sentAt, expiresAt)
	return args.Error(0)
}

func (m *MockOTPRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockOTPRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
