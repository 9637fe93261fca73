package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/you/usersvc/domain"
	"github.com/you/usersvc/internal/http/middleware"
	"github.com/you/usersvc/internal/http/response"
	"go.uber.org/zap"
)

// RefreshTokenCookie is the cookie carrying the refresh token
const RefreshTokenCookie = "refreshToken"

// MaxAvatarSize is the largest accepted avatar upload
const MaxAvatarSize = 5 << 20

// CookieConfig controls the auth cookies
type CookieConfig struct {
	Domain     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthHandlers handles the user lifecycle HTTP requests
type AuthHandlers struct {
	authSvc  domain.AuthService
	otpSvc   domain.OTPService
	cookies  CookieConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, otpSvc domain.OTPService, cookies CookieConfig, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		authSvc:  authSvc,
		otpSvc:   otpSvc,
		cookies:  cookies,
		validate: newValidator(),
		logger:   logger,
	}
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bind(c, &req, domain.ErrMissingFields.Error()) {
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), domain.RegisterInput{
		Fullname: req.Fullname,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, user, "User registered successfully")
}

// Login handles password login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req, "invalid request body") {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), domain.Identity{Username: req.Username, Email: req.Email}, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.respondWithSession(c, result, "User logged in successfully")
}

// LoginWithOTP issues a session for the user verified by the OTP middleware
func (h *AuthHandlers) LoginWithOTP(c *gin.Context) {
	user, ok := middleware.OTPUser(c)
	if !ok {
		response.Error(c, domain.ErrUserNotFound)
		return
	}

	result, err := h.authSvc.LoginWithUser(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.respondWithSession(c, result, "User logged in successfully")
}

// Logout handles user logout (requires authentication)
func (h *AuthHandlers) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, domain.ErrUnauthorized)
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), user.ID); err != nil {
		response.Error(c, err)
		return
	}

	h.clearAuthCookies(c)
	response.OK(c, http.StatusOK, nil, "User logged out")
}

// RefreshToken rotates the token pair
func (h *AuthHandlers) RefreshToken(c *gin.Context) {
	token, err := c.Cookie(RefreshTokenCookie)
	if err != nil || token == "" {
		var req RefreshRequest
		// an empty body is allowed; a missing token is reported below
		_ = c.ShouldBind(&req)
		token = req.RefreshToken
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setAuthCookies(c, result)
	response.OK(c, http.StatusOK, gin.H{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	}, "Access token refreshed")
}

// ChangePassword changes the authenticated user's password
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !h.bind(c, &req, domain.ErrPasswordsRequired.Error()) {
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, domain.ErrUnauthorized)
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, nil, "Password changed successfully")
}

// FetchUser returns the authenticated user
func (h *AuthHandlers) FetchUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, domain.ErrUnauthorized)
		return
	}

	response.OK(c, http.StatusOK, user, "User fetched successfully")
}

// UpdateUser updates profile fields of the authenticated user
func (h *AuthHandlers) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if !h.bind(c, &req, "invalid request body") {
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, domain.ErrUnauthorized)
		return
	}

	updated, err := h.authSvc.UpdateProfile(c.Request.Context(), user.ID, domain.ProfileUpdate{
		Fullname: req.Fullname,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, updated, "User updated successfully")
}

// UpdateAvatar uploads the multipart file "avatar" and stores its URL
func (h *AuthHandlers) UpdateAvatar(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, domain.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, domain.ErrAvatarRequired)
		return
	}
	if fileHeader.Size > MaxAvatarSize {
		response.Validation(c, "avatar is too large", []string{"avatar must be at most 5MB"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Warn("failed to open uploaded avatar", zap.Error(err))
		response.Error(c, domain.ErrAvatarRequired)
		return
	}
	defer file.Close()

	url, err := h.authSvc.UpdateAvatar(c.Request.Context(), user.ID, &domain.AvatarUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"avatarURL": url}, "Avatar updated successfully")
}

// SendOTP issues a one-time code
func (h *AuthHandlers) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if !h.bind(c, &req, "invalid request body") {
		return
	}

	identity := domain.Identity{Username: req.Username, Email: req.Email, Phone: req.Phone}
	if identity.IsEmpty() {
		response.Validation(c, "email, phone or username is required", nil)
		return
	}

	otp, err := h.otpSvc.Send(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"expiresAt": otp.ExpiresAt}, "OTP sent successfully")
}

func (h *AuthHandlers) respondWithSession(c *gin.Context, result *domain.AuthResult, message string) {
	h.setAuthCookies(c, result)
	response.OK(c, http.StatusOK, gin.H{
		"user":         result.User,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	}, message)
}

// bind decodes the body (JSON or form), normalizes it and runs struct validation
func (h *AuthHandlers) bind(c *gin.Context, req normalizer, message string) bool {
	if err := c.ShouldBind(req); err != nil {
		response.Validation(c, "invalid request body", []string{err.Error()})
		return false
	}
	req.normalize()

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			response.Error(c, err)
			return false
		}
		response.Validation(c, message, validationMessages(err))
		return false
	}
	return true
}

func (h *AuthHandlers) setAuthCookies(c *gin.Context, result *domain.AuthResult) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.AccessTokenCookie, result.AccessToken, int(h.cookies.AccessTTL.Seconds()), "/", h.cookies.Domain, true, true)
	c.SetCookie(RefreshTokenCookie, result.RefreshToken, int(h.cookies.RefreshTTL.Seconds()), "/", h.cookies.Domain, true, true)
}

func (h *AuthHandlers) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", h.cookies.Domain, true, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", h.cookies.Domain, true, true)
}
