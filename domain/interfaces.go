package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	// FindByIdentity returns the first user matching any non-empty identifier
	FindByIdentity(ctx context.Context, identity Identity) (*User, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*User, error)
	UpdateAvatar(ctx context.Context, userID uint, avatarURL string) error
	SetRefreshToken(ctx context.Context, userID uint, token string) error
	// SwapRefreshToken replaces oldToken with newToken only if oldToken is
	// still the stored value. It returns false when the swap lost.
	SwapRefreshToken(ctx context.Context, userID uint, oldToken, newToken string) (bool, error)
	ClearRefreshToken(ctx context.Context, userID uint) error
}

// OTPRepository stores short-lived one-time codes keyed by email
type OTPRepository interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

// AuthService defines the authentication lifecycle
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Login(ctx context.Context, identity Identity, password string) (*AuthResult, error)
	LoginWithUser(ctx context.Context, user *User) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, userID uint) error
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*User, error)
	UpdateAvatar(ctx context.Context, userID uint, upload *AvatarUpload) (string, error)
}

// OTPService defines OTP operations
type OTPService interface {
	// Send issues a code for the user matching identity and dispatches it
	Send(ctx context.Context, identity Identity) (*OTPRequest, error)
	// Verify consumes a code and returns the user it was issued for
	Verify(ctx context.Context, identity Identity, code string) (*User, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(user *User) (string, error)
	GenerateRefreshToken(user *User) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(ctx context.Context, to, message string) error
	SendEmail(ctx context.Context, to, subject, body string) error
}

// WelcomeNotifier delivers the post-registration greeting
type WelcomeNotifier interface {
	NotifyWelcome(user *User)
}

// ImageStore uploads images to an external host and returns their public URL
type ImageStore interface {
	Upload(ctx context.Context, key string, upload *AvatarUpload) (string, error)
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Fullname  string `json:"fullname,omitempty"`
	TokenType string `json:"typ"`
	ID        string `json:"jti"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
