package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ahmadchreiff/eigen-journal/internal/model"
)

type MockDraftRepository struct {
	mock.Mock
}

func (m *MockDraftRepository) Create(ctx context.Context, d *model.Draft) (*model.Draft, error) {
	args := m.Called(ctx, d)
	if f, ok := args.Get(0).(func(context.Context, *model.Draft) *model.Draft); ok {
		return f(ctx, d), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Draft), args.Error(1)
}

func (m *MockDraftRepository) FindByID(ctx context.Context, id string) (*model.Draft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Draft), args.Error(1)
}

func (m *MockDraftRepository) ListAll(ctx context.Context) ([]model.Draft, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Draft), args.Error(1)
}

func (m *MockDraftRepository) Update(ctx context.Context, d *model.Draft) (*model.Draft, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Draft), args.Error(1)
}

func (m *MockDraftRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
