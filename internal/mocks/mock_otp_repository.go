package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/usersvc/domain"
)

// MockOTPRepository implements domain.OTPRepository interface for testing.
// Without overrides it behaves like an in-memory store that ignores TTLs.
type MockOTPRepository struct {
	SaveFunc   func(ctx context.Context, email, code string, ttl time.Duration) error
	GetFunc    func(ctx context.Context, email string) (string, error)
	DeleteFunc func(ctx context.Context, email string) error

	mu    sync.Mutex
	codes map[string]string
}

// NewMockOTPRepository creates a new MockOTPRepository with default behaviors
func NewMockOTPRepository() *MockOTPRepository {
	return &MockOTPRepository{codes: make(map[string]string)}
}

// Save stores a code
func (m *MockOTPRepository) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, email, code, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[email] = code
	return nil
}

// Get returns the stored code
func (m *MockOTPRepository) Get(ctx context.Context, email string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.codes[email]
	if !ok {
		return "", domain.ErrOTPNotFound
	}
	return code, nil
}

// Delete removes the stored code
func (m *MockOTPRepository) Delete(ctx context.Context, email string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, email)
	return nil
}

// Compile-time interface compliance verification
var _ domain.OTPRepository = (*MockOTPRepository)(nil)
