package domain

import (
	"io"
	"time"
)

// DefaultAvatarURL is assigned to every user at registration
const DefaultAvatarURL = "https://img.myloview.com/stickers/default-avatar-profile-icon-vector-social-media-user-image-700-240336019.jpg"

// User represents a registered user.
// PasswordHash and RefreshToken never leave the service in JSON.
type User struct {
	ID           uint      `json:"id"`
	Fullname     string    `json:"fullname"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Avatar       string    `json:"avatar"`
	Address      string    `json:"address,omitempty"`
	PasswordHash string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterInput carries the registration form
type RegisterInput struct {
	Fullname string
	Username string
	Email    string
	Password string
	Phone    string
}

// Identity locates a user by any of its unique identifiers.
// Empty fields are ignored.
type Identity struct {
	Username string
	Email    string
	Phone    string
}

// IsEmpty reports whether no identifier is set
func (i Identity) IsEmpty() bool {
	return i.Username == "" && i.Email == "" && i.Phone == ""
}

// ProfileUpdate holds the mutable profile fields; empty fields are left unchanged
type ProfileUpdate struct {
	Fullname string
	Phone    string
	Address  string
}

// IsEmpty reports whether the update would change nothing
func (p ProfileUpdate) IsEmpty() bool {
	return p.Fullname == "" && p.Phone == "" && p.Address == ""
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// OTPRequest represents an issued one-time code
type OTPRequest struct {
	Email     string
	Phone     string
	Code      string
	UserID    uint
	ExpiresAt time.Time
}

// AvatarUpload is an image received from the client
type AvatarUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}
