package kv

import (
	"context"
	"time"
)

// MockStore provides customizable hooks for testing Store consumers.
type MockStore struct {
	PutFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	DeleteFunc func(ctx context.Context, key string) error
}

// Ensure MockStore implements Store
var _ Store = (*MockStore)(nil)

// Put calls PutFunc if set, otherwise returns nil
func (m *MockStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, value, ttl)
	}
	return nil
}

// Get calls GetFunc if set, otherwise returns ErrNotFound
func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil, ErrNotFound
}

// Delete calls DeleteFunc if set, otherwise returns nil
func (m *MockStore) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}
