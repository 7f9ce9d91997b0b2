package mocks

import (
	"context"

	"lg/macrocoach-go-api/internal/coach"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of coach.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load(ctx context.Context, userID int) (coach.Snapshot, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(coach.Snapshot), args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, userID int, doc coach.Document) error {
	args := m.Called(ctx, userID, doc)
	return args.Error(0)
}

func (m *MockStore) AppendEntry(ctx context.Context, userID, cycle int, kind coach.EntryKind, e coach.Entry) error {
	args := m.Called(ctx, userID, cycle, kind, e)
	return args.Error(0)
}

func (m *MockStore) DeleteEntry(ctx context.Context, userID int, kind coach.EntryKind, id string) error {
	args := m.Called(ctx, userID, kind, id)
	return args.Error(0)
}

func (m *MockStore) AppendCycle(ctx context.Context, userID int, rec coach.CycleRecord) error {
	args := m.Called(ctx, userID, rec)
	return args.Error(0)
}

func (m *MockStore) ListCycles(ctx context.Context, userID int) ([]coach.CycleRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]coach.CycleRecord), args.Error(1)
}
