package mocks

import (
	"context"

	"github.com/you/usersvc/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc            func(ctx context.Context, user *domain.User) error
	FindByIDFunc          func(ctx context.Context, id uint) (*domain.User, error)
	FindByIdentityFunc    func(ctx context.Context, identity domain.Identity) (*domain.User, error)
	UpdatePasswordFunc    func(ctx context.Context, userID uint, passwordHash string) error
	UpdateProfileFunc     func(ctx context.Context, userID uint, update domain.ProfileUpdate) (*domain.User, error)
	UpdateAvatarFunc      func(ctx context.Context, userID uint, avatarURL string) error
	SetRefreshTokenFunc   func(ctx context.Context, userID uint, token string) error
	SwapRefreshTokenFunc  func(ctx context.Context, userID uint, oldToken, newToken string) (bool, error)
	ClearRefreshTokenFunc func(ctx context.Context, userID uint) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByIdentity finds a user by username, email or phone
func (m *MockUserRepository) FindByIdentity(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if m.FindByIdentityFunc != nil {
		return m.FindByIdentityFunc(ctx, identity)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// UpdatePassword stores a new password hash
func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, userID, passwordHash)
	}
	return nil
}

// UpdateProfile applies a profile update
func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID uint, update domain.ProfileUpdate) (*domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, update)
	}
	// Default behavior: echo the update back
	return &domain.User{ID: userID, Fullname: update.Fullname, Phone: update.Phone, Address: update.Address}, nil
}

// UpdateAvatar stores a new avatar URL
func (m *MockUserRepository) UpdateAvatar(ctx context.Context, userID uint, avatarURL string) error {
	if m.UpdateAvatarFunc != nil {
		return m.UpdateAvatarFunc(ctx, userID, avatarURL)
	}
	return nil
}

// SetRefreshToken stores the current refresh token
func (m *MockUserRepository) SetRefreshToken(ctx context.Context, userID uint, token string) error {
	if m.SetRefreshTokenFunc != nil {
		return m.SetRefreshTokenFunc(ctx, userID, token)
	}
	return nil
}

// SwapRefreshToken rotates the refresh token
func (m *MockUserRepository) SwapRefreshToken(ctx context.Context, userID uint, oldToken, newToken string) (bool, error) {
	if m.SwapRefreshTokenFunc != nil {
		return m.SwapRefreshTokenFunc(ctx, userID, oldToken, newToken)
	}
	// Default behavior: swap wins
	return true, nil
}

// ClearRefreshToken removes the stored refresh token
func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID uint) error {
	if m.ClearRefreshTokenFunc != nil {
		return m.ClearRefreshTokenFunc(ctx, userID)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
