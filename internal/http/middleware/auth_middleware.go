package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/usersvc/domain"
	"github.com/you/usersvc/internal/http/response"
)

// AccessTokenCookie is the cookie carrying the access token
const AccessTokenCookie = "accessToken"

// AuthMiddleware authenticates the request with the access token from the
// accessToken cookie or the Authorization header and loads the user.
func AuthMiddleware(tokenSvc domain.TokenService, userRepo domain.UserRepository) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			response.Abort(c, domain.ErrUnauthorized)
			return
		}

		claims, err := tokenSvc.ValidateAccessToken(token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenMalformed):
				response.Abort(c, err)
			default:
				response.Abort(c, domain.ErrTokenInvalid)
			}
			return
		}

		// the user may have been removed since the token was issued
		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				response.Abort(c, domain.ErrTokenInvalid)
				return
			}
			response.Abort(c, err)
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)

		c.Next()
	})
}

func accessToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	tokenParts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(tokenParts[1])
}
