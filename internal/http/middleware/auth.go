package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/you/usersvc/domain"
)

// Context keys set by the middleware in this package
const (
	ContextUserKey    = "user"
	ContextUserIDKey  = "user_id"
	ContextOTPUserKey = "otp_user"
)

// AuthMW wraps the token service and user repository for middleware
type AuthMW struct {
	tokenSvc domain.TokenService
	userRepo domain.UserRepository
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, userRepo domain.UserRepository) *AuthMW {
	return &AuthMW{
		tokenSvc: tokenSvc,
		userRepo: userRepo,
	}
}

// WithJWT returns the JWT middleware function
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return AuthMiddleware(mw.tokenSvc, mw.userRepo)
}

// CurrentUser returns the user attached by AuthMiddleware
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	return userFromContext(c, ContextUserKey)
}

// OTPUser returns the user attached by OTPMiddleware
func OTPUser(c *gin.Context) (*domain.User, bool) {
	return userFromContext(c, ContextOTPUserKey)
}

func userFromContext(c *gin.Context, key string) (*domain.User, bool) {
	v, exists := c.Get(key)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}
