package mocks

import (
	"context"

	"storeit/internal/model"
	"storeit/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, fullName, email string) (*service.Challenge, error) {
	args := m.Called(ctx, fullName, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Challenge), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email string) (*service.Challenge, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Challenge), args.Error(1)
}

func (m *MockAuthService) Resend(ctx context.Context, challengeID string) (*service.Challenge, error) {
	args := m.Called(ctx, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Challenge), args.Error(1)
}

func (m *MockAuthService) Verify(ctx context.Context, challengeID, code string) (*model.User, string, error) {
	args := m.Called(ctx, challengeID, code)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) SignOut(ctx context.Context, secret string) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

func (m *MockAuthService) UserBySession(ctx context.Context, secret string) (*model.User, error) {
	args := m.Called(ctx, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
