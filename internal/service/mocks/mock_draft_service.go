package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/ahmadchreiff/eigen-journal/internal/model"
	"github.com/ahmadchreiff/eigen-journal/internal/service"
)

type MockDraftService struct {
	mock.Mock
}

func (m *MockDraftService) Submit(ctx context.Context, in service.SubmitInput, r io.Reader, size int64, originalFilename string) (*model.Draft, error) {
	args := m.Called(ctx, in, r, size, originalFilename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Draft), args.Error(1)
}

func (m *MockDraftService) Get(ctx context.Context, id string) (*model.Draft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Draft), args.Error(1)
}

func (m *MockDraftService) ListAll(ctx context.Context) ([]model.Draft, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Draft), args.Error(1)
}

func (m *MockDraftService) UpdateStatus(ctx context.Context, id, status string) (*model.Draft, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Draft), args.Error(1)
}

func (m *MockDraftService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDraftService) StreamFile(ctx context.Context, id string) (io.ReadCloser, *model.Draft, error) {
	args := m.Called(ctx, id)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var d *model.Draft
	if args.Get(1) != nil {
		d = args.Get(1).(*model.Draft)
	}
	return rc, d, args.Error(2)
}
