package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/you/usersvc/domain"
	"go.uber.org/zap"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	imageStore  domain.ImageStore
	welcome     domain.WelcomeNotifier
	audit       domain.AuditLogger
	logger      *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	imageStore domain.ImageStore,
	welcome domain.WelcomeNotifier,
	audit domain.AuditLogger,
	logger *zap.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		imageStore:  imageStore,
		welcome:     welcome,
		audit:       audit,
		logger:      logger,
	}
}

// Register implements domain.AuthService.
// The user is persisted before any notification; the welcome message is best-effort.
func (s *AuthServiceImpl) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	in.Fullname = strings.TrimSpace(in.Fullname)
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Fullname == "" || in.Username == "" || in.Email == "" || strings.TrimSpace(in.Password) == "" || in.Phone == "" {
		return nil, domain.ErrMissingFields
	}

	existing, err := s.userRepo.FindByIdentity(ctx, domain.Identity{Username: in.Username, Email: in.Email, Phone: in.Phone})
	if err == nil && existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := s.passwordSvc.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Fullname:     in.Fullname,
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		Avatar:       domain.DefaultAvatarURL,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, user.ID).WithEmail(user.Email).WithPhone(user.Phone))
	s.welcome.NotifyWelcome(user)

	return user, nil
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, identity domain.Identity, password string) (*domain.AuthResult, error) {
	// phone is not a login identifier
	identity.Phone = ""
	if identity.IsEmpty() {
		return nil, domain.ErrIdentifierRequired
	}

	user, err := s.userRepo.FindByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logAudit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, 0).WithEmail(identity.Email).WithError(err))
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.logAudit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, user.ID).WithEmail(user.Email).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).WithEmail(user.Email).WithMetadata("method", "password"))
	return result, nil
}

// LoginWithUser implements domain.AuthService for users already authenticated by another factor
func (s *AuthServiceImpl) LoginWithUser(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).WithEmail(user.Email).WithMetadata("method", "otp"))
	return result, nil
}

// RefreshToken implements domain.AuthService. Both tokens are rotated; the stored
// refresh token is replaced with a compare-and-swap so a token can be redeemed once.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrRefreshTokenMissing
	}

	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.RefreshToken != refreshToken {
		s.logAudit(ctx, domain.NewAuditEvent(domain.TokenReuseDetected, user.ID).WithError(domain.ErrRefreshTokenReused))
		return nil, domain.ErrRefreshTokenReused
	}

	accessToken, newRefreshToken, err := s.generatePair(user)
	if err != nil {
		return nil, err
	}

	swapped, err := s.userRepo.SwapRefreshToken(ctx, user.ID, refreshToken, newRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if !swapped {
		// a concurrent refresh redeemed the same token first
		s.logAudit(ctx, domain.NewAuditEvent(domain.TokenReuseDetected, user.ID).
			WithMetadata("race", true).WithError(domain.ErrRefreshTokenReused))
		return nil, domain.ErrRefreshTokenReused
	}
	user.RefreshToken = newRefreshToken

	s.logAudit(ctx, domain.NewAuditEvent(domain.TokenRefreshEvent, user.ID))
	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL().Seconds()),
	}, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, userID uint) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	s.logAudit(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, userID))
	return nil
}

// ChangePassword implements domain.AuthService
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.ErrPasswordsRequired
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, oldPassword) {
		s.logAudit(ctx, domain.NewAuditEvent(domain.PasswordChangeEvent, userID).WithError(domain.ErrIncorrectOldPassword))
		return domain.ErrIncorrectOldPassword
	}

	hashedPassword, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.PasswordChangeEvent, userID))
	return nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// UpdateProfile implements domain.AuthService
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID uint, update domain.ProfileUpdate) (*domain.User, error) {
	update.Fullname = strings.TrimSpace(update.Fullname)
	update.Phone = strings.TrimSpace(update.Phone)
	update.Address = strings.TrimSpace(update.Address)
	if update.IsEmpty() {
		return nil, domain.ErrNothingToUpdate
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.ProfileUpdateEvent, userID))
	return user, nil
}

// UpdateAvatar implements domain.AuthService
func (s *AuthServiceImpl) UpdateAvatar(ctx context.Context, userID uint, upload *domain.AvatarUpload) (string, error) {
	if upload == nil || upload.Content == nil {
		return "", domain.ErrAvatarRequired
	}

	url, err := s.imageStore.Upload(ctx, avatarKey(userID, upload.Filename), upload)
	if err != nil {
		s.logger.Error("avatar upload failed", zap.Uint("user_id", userID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrImageUploadFailed, err)
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, url); err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.AvatarUpdateEvent, userID).WithMetadata("url", url))
	return url, nil
}

// issueTokens creates a fresh pair and makes its refresh token the only valid one
func (s *AuthServiceImpl) issueTokens(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	accessToken, refreshToken, err := s.generatePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	user.RefreshToken = refreshToken

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL().Seconds()),
	}, nil
}

func (s *AuthServiceImpl) generatePair(user *domain.User) (string, string, error) {
	accessToken, err := s.tokenSvc.GenerateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokenSvc.GenerateRefreshToken(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (s *AuthServiceImpl) logAudit(ctx context.Context, event *domain.AuditEvent) {
	if err := s.audit.LogEvent(ctx, event); err != nil {
		s.logger.Warn("audit log failed", zap.String("event_type", string(event.EventType)), zap.Error(err))
	}
}

func avatarKey(userID uint, filename string) string {
	return fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
}
