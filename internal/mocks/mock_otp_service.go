package mocks

import (
	"context"
	"time"

	"github.com/you/usersvc/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	SendFunc   func(ctx context.Context, identity domain.Identity) (*domain.OTPRequest, error)
	VerifyFunc func(ctx context.Context, identity domain.Identity, code string) (*domain.User, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Send issues a code
func (m *MockOTPService) Send(ctx context.Context, identity domain.Identity) (*domain.OTPRequest, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, identity)
	}
	// Default behavior: return a mock OTP request
	return &domain.OTPRequest{
		Email:     identity.Email,
		Phone:     identity.Phone,
		Code:      "123456",
		UserID:    1,
		ExpiresAt: time.Now().Add(2 * time.Minute),
	}, nil
}

// Verify checks a code
func (m *MockOTPService) Verify(ctx context.Context, identity domain.Identity, code string) (*domain.User, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, identity, code)
	}
	// Default behavior: accept "123456"
	if code != "123456" {
		return nil, domain.ErrOTPInvalid
	}
	return &domain.User{ID: 1, Username: identity.Username, Email: identity.Email}, nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
