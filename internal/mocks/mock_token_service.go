package mocks

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/you/usersvc/domain"
)

// MockTokenService implements domain.TokenService interface for testing.
// Default tokens look like "access_token_user_<id>_<n>" and are unique per call.
type MockTokenService struct {
	GenerateAccessTokenFunc  func(user *domain.User) (string, error)
	GenerateRefreshTokenFunc func(user *domain.User) (string, error)
	ValidateAccessTokenFunc  func(token string) (*domain.TokenClaims, error)
	ValidateRefreshTokenFunc func(token string) (*domain.TokenClaims, error)

	AccessTTLValue  time.Duration
	RefreshTTLValue time.Duration

	counter atomic.Uint64
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{
		AccessTTLValue:  15 * time.Minute,
		RefreshTTLValue: 240 * time.Hour,
	}
}

// GenerateAccessToken generates an access token for the user
func (m *MockTokenService) GenerateAccessToken(user *domain.User) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(user)
	}
	return fmt.Sprintf("access_token_user_%d_%d", user.ID, m.counter.Add(1)), nil
}

// GenerateRefreshToken generates a refresh token for the user
func (m *MockTokenService) GenerateRefreshToken(user *domain.User) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(user)
	}
	return fmt.Sprintf("refresh_token_user_%d_%d", user.ID, m.counter.Add(1)), nil
}

// ValidateAccessToken validates an access token and returns claims
func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	return parseMockToken(token, "access_token_user_", "access", m.AccessTTLValue)
}

// ValidateRefreshToken validates a refresh token and returns claims
func (m *MockTokenService) ValidateRefreshToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(token)
	}
	return parseMockToken(token, "refresh_token_user_", "refresh", m.RefreshTTLValue)
}

// AccessTTL returns the access token lifetime
func (m *MockTokenService) AccessTTL() time.Duration { return m.AccessTTLValue }

// RefreshTTL returns the refresh token lifetime
func (m *MockTokenService) RefreshTTL() time.Duration { return m.RefreshTTLValue }

func parseMockToken(token, prefix, tokenType string, ttl time.Duration) (*domain.TokenClaims, error) {
	rest, ok := strings.CutPrefix(token, prefix)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	idPart, _, _ := strings.Cut(rest, "_")
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || id == 0 {
		return nil, domain.ErrTokenInvalid
	}

	now := time.Now().Unix()
	return &domain.TokenClaims{
		UserID:    uint(id),
		TokenType: tokenType,
		IssuedAt:  now,
		ExpiresAt: now + int64(ttl.Seconds()),
	}, nil
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
