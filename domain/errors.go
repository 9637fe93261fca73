package domain

import "errors"

// Validation errors
var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrIdentifierRequired = errors.New("username or email is required")
	ErrPasswordsRequired  = errors.New("both passwords are required")
	ErrNothingToUpdate    = errors.New("no profile fields to update")
	ErrAvatarRequired     = errors.New("avatar file is required")
)

// Authentication errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserAlreadyExists    = errors.New("user with this email, username or phone already exists")
	ErrIncorrectOldPassword = errors.New("previous password is incorrect")
)

// OTP errors
var (
	ErrOTPInvalid  = errors.New("invalid otp code")
	ErrOTPNotFound = errors.New("otp not found or expired")
)

// Token errors
var (
	ErrRefreshTokenMissing = errors.New("refresh token is required")
	ErrRefreshTokenReused  = errors.New("refresh token is expired or used")
	ErrTokenInvalid        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrTokenMalformed      = errors.New("malformed token")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized request")
)

// Collaborator errors
var (
	ErrNotificationFailed = errors.New("notification delivery failed")
	ErrImageUploadFailed  = errors.New("image upload failed")
)
