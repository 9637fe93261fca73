package mocks

import (
	"context"
	"time"

	"github.com/you/usersvc/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, in domain.RegisterInput) (*domain.User, error)
	LoginFunc          func(ctx context.Context, identity domain.Identity, password string) (*domain.AuthResult, error)
	LoginWithUserFunc  func(ctx context.Context, user *domain.User) (*domain.AuthResult, error)
	RefreshTokenFunc   func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc         func(ctx context.Context, userID uint) error
	ChangePasswordFunc func(ctx context.Context, userID uint, oldPassword, newPassword string) error
	GetUserProfileFunc func(ctx context.Context, userID uint) (*domain.User, error)
	UpdateProfileFunc  func(ctx context.Context, userID uint, update domain.ProfileUpdate) (*domain.User, error)
	UpdateAvatarFunc   func(ctx context.Context, userID uint, upload *domain.AvatarUpload) (string, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register registers a new user
func (m *MockAuthService) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	// Default behavior: return a mock user
	return &domain.User{
		ID:        1,
		Fullname:  in.Fullname,
		Username:  in.Username,
		Email:     in.Email,
		Phone:     in.Phone,
		Avatar:    domain.DefaultAvatarURL,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// Login authenticates a user
func (m *MockAuthService) Login(ctx context.Context, identity domain.Identity, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identity, password)
	}
	return mockAuthResult(&domain.User{ID: 1, Username: identity.Username, Email: identity.Email}), nil
}

// LoginWithUser issues tokens for an already verified user
func (m *MockAuthService) LoginWithUser(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	if m.LoginWithUserFunc != nil {
		return m.LoginWithUserFunc(ctx, user)
	}
	return mockAuthResult(user), nil
}

// RefreshToken rotates a token pair
func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	if refreshToken == "" {
		return nil, domain.ErrRefreshTokenMissing
	}
	return mockAuthResult(&domain.User{ID: 1}), nil
}

// Logout revokes the user's refresh token
func (m *MockAuthService) Logout(ctx context.Context, userID uint) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, userID)
	}
	return nil
}

// ChangePassword changes the user's password
func (m *MockAuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, userID, oldPassword, newPassword)
	}
	return nil
}

// GetUserProfile gets user profile information
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return &domain.User{ID: userID, Username: "testuser", Email: "test@example.com"}, nil
}

// UpdateProfile updates profile fields
func (m *MockAuthService) UpdateProfile(ctx context.Context, userID uint, update domain.ProfileUpdate) (*domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, update)
	}
	return &domain.User{ID: userID, Fullname: update.Fullname, Phone: update.Phone, Address: update.Address}, nil
}

// UpdateAvatar uploads a new avatar
func (m *MockAuthService) UpdateAvatar(ctx context.Context, userID uint, upload *domain.AvatarUpload) (string, error) {
	if m.UpdateAvatarFunc != nil {
		return m.UpdateAvatarFunc(ctx, userID, upload)
	}
	return "https://cdn.example.com/avatars/" + upload.Filename, nil
}

func mockAuthResult(user *domain.User) *domain.AuthResult {
	return &domain.AuthResult{
		User:         user,
		AccessToken:  "mock_access_token",
		RefreshToken: "mock_refresh_token",
		ExpiresIn:    900,
	}
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
