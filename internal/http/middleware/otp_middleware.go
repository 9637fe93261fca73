package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/you/usersvc/domain"
	"github.com/you/usersvc/internal/http/response"
)

// OTPRequest is the body accepted by OTPMiddleware
type OTPRequest struct {
	OTP      string `json:"otp" form:"otp"`
	Email    string `json:"email" form:"email"`
	Phone    string `json:"phone" form:"phone"`
	Username string `json:"username" form:"username"`
}

// OTPMiddleware consumes a one-time code and attaches the user it was issued for
func OTPMiddleware(otpSvc domain.OTPService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OTPRequest
		if err := c.ShouldBind(&req); err != nil {
			response.Validation(c, "invalid request body", []string{err.Error()})
			c.Abort()
			return
		}

		identity := domain.Identity{Username: req.Username, Email: req.Email, Phone: req.Phone}
		user, err := otpSvc.Verify(c.Request.Context(), identity, req.OTP)
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextOTPUserKey, user)
		c.Next()
	}
}
