package mocks

import (
	"context"
	"io"

	"storeit/internal/model"
	"storeit/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, owner *model.User, r io.Reader, originalFilename, contentType string, size int64) (*model.File, error) {
	args := m.Called(ctx, owner, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Get(ctx context.Context, viewer *model.User, id string) (*model.File, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context, viewer *model.User, q service.ListQuery) (*service.FileListResult, error) {
	args := m.Called(ctx, viewer, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileListResult), args.Error(1)
}

func (m *MockFileService) Rename(ctx context.Context, user *model.User, id, name string) (*model.File, error) {
	args := m.Called(ctx, user, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Share(ctx context.Context, user *model.User, id, emails string) (*model.File, error) {
	args := m.Called(ctx, user, id, emails)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Unshare(ctx context.Context, user *model.User, id, email string) (*model.File, error) {
	args := m.Called(ctx, user, id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, user *model.User, id string) error {
	args := m.Called(ctx, user, id)
	return args.Error(0)
}

func (m *MockFileService) DownloadURL(ctx context.Context, viewer *model.User, id string) (string, error) {
	args := m.Called(ctx, viewer, id)
	return args.String(0), args.Error(1)
}

func (m *MockFileService) Usage(ctx context.Context, user *model.User) (*service.UsageSummary, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UsageSummary), args.Error(1)
}
