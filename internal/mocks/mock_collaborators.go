package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/you/usersvc/domain"
)

// MockImageStore implements domain.ImageStore interface for testing
type MockImageStore struct {
	UploadFunc func(ctx context.Context, key string, upload *domain.AvatarUpload) (string, error)
}

// NewMockImageStore creates a new MockImageStore with default behaviors
func NewMockImageStore() *MockImageStore {
	return &MockImageStore{}
}

// Upload stores an image
func (m *MockImageStore) Upload(ctx context.Context, key string, upload *domain.AvatarUpload) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, upload)
	}
	// Default behavior: consume the body and return a fake URL
	if _, err := io.Copy(io.Discard, upload.Content); err != nil {
		return "", err
	}
	return "https://cdn.example.com/" + key, nil
}

// MockWelcomeNotifier implements domain.WelcomeNotifier and records who was greeted
type MockWelcomeNotifier struct {
	mu    sync.Mutex
	Users []*domain.User
}

// NewMockWelcomeNotifier creates a new MockWelcomeNotifier
func NewMockWelcomeNotifier() *MockWelcomeNotifier {
	return &MockWelcomeNotifier{}
}

// NotifyWelcome records the user
func (m *MockWelcomeNotifier) NotifyWelcome(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users = append(m.Users, user)
}

// Count returns how many users were greeted
func (m *MockWelcomeNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users)
}

// MockAuditLogger implements domain.AuditLogger and records events
type MockAuditLogger struct {
	LogEventFunc func(ctx context.Context, event *domain.AuditEvent) error

	mu     sync.Mutex
	Events []*domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// LogEvent records the event
func (m *MockAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	m.Events = append(m.Events, event)
	m.mu.Unlock()
	if m.LogEventFunc != nil {
		return m.LogEventFunc(ctx, event)
	}
	return nil
}

// HasEvent reports whether an event of the given type was recorded
func (m *MockAuditLogger) HasEvent(eventType domain.AuditEventType) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.EventType == eventType {
			return true
		}
	}
	return false
}

// Compile-time interface compliance verification
var (
	_ domain.ImageStore      = (*MockImageStore)(nil)
	_ domain.WelcomeNotifier = (*MockWelcomeNotifier)(nil)
	_ domain.AuditLogger     = (*MockAuditLogger)(nil)
)
