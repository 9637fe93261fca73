package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/you/usersvc/domain"
	"github.com/you/usersvc/internal/http/handlers"
	"github.com/you/usersvc/internal/http/middleware"
	"go.uber.org/zap"
)

// BuildRouter wires every route and the global middleware
func BuildRouter(ah *handlers.AuthHandlers, hh *handlers.HealthHandlers, jwtmw *middleware.AuthMW, otpSvc domain.OTPService, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = handlers.MaxAvatarSize
	r.Use(middleware.ClientContext(), middleware.RequestLogger(logger), middleware.Recovery(logger))

	r.GET("/health", hh.Health)

	users := r.Group("/api/v1/users")
	users.POST("/register", ah.Register)
	users.POST("/login", ah.Login)
	users.POST("/refresh-token", ah.RefreshToken)
	users.POST("/send-otp", ah.SendOTP)
	users.POST("/verify-otp", middleware.OTPMiddleware(otpSvc), ah.LoginWithOTP)

	secured := users.Group("").Use(jwtmw.WithJWT())
	secured.POST("/logout", ah.Logout)
	secured.POST("/change-password", ah.ChangePassword)
	secured.POST("/fetch-user", ah.FetchUser)
	secured.POST("/update-user", ah.UpdateUser)
	secured.POST("/update-avatar", ah.UpdateAvatar)

	return r
}
