package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterRequest represents registration request
type RegisterRequest struct {
	Fullname string `json:"fullname" form:"fullname" validate:"required,max=100"`
	Username string `json:"username" form:"username" validate:"required,max=50"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Phone    string `json:"phone" form:"phone" validate:"required,max=20"`
}

func (r *RegisterRequest) normalize() {
	r.Fullname = strings.TrimSpace(r.Fullname)
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

// LoginRequest represents login request. The identifier check happens in
// the service so that a missing identifier is reported as 401.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (r *LoginRequest) normalize() {
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	r.Email = strings.TrimSpace(r.Email)
}

// RefreshRequest represents token refresh request; the cookie takes precedence
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

// ChangePasswordRequest represents password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" form:"newPassword" validate:"required"`
}

func (r *ChangePasswordRequest) normalize() {}

// UpdateUserRequest represents profile update request
type UpdateUserRequest struct {
	Fullname string `json:"fullname" form:"fullname" validate:"omitempty,max=100"`
	Phone    string `json:"phone" form:"phone" validate:"omitempty,max=20"`
	Address  string `json:"address" form:"address" validate:"omitempty,max=255"`
}

func (r *UpdateUserRequest) normalize() {
	r.Fullname = strings.TrimSpace(r.Fullname)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
}

// SendOTPRequest represents OTP issue request. "emails" is accepted as an alias of "email".
type SendOTPRequest struct {
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	Emails   string `json:"emails" form:"emails"`
	Phone    string `json:"phone" form:"phone" validate:"omitempty,max=20"`
	Username string `json:"username" form:"username"`
}

func (r *SendOTPRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		r.Email = strings.TrimSpace(r.Emails)
	}
	r.Phone = strings.TrimSpace(r.Phone)
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
}

type normalizer interface {
	normalize()
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessages turns validator errors into client-facing messages
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", e.Field()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return messages
}
