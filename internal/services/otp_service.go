package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/you/usersvc/domain"
	"go.uber.org/zap"
)

// OTPServiceImpl implements domain.OTPService on top of an OTPRepository
type OTPServiceImpl struct {
	notificationSvc domain.NotificationService
	userRepo        domain.UserRepository
	otpRepo         domain.OTPRepository
	audit           domain.AuditLogger
	logger          *zap.Logger
	config          OTPConfig
	now             func() time.Time
}

type OTPConfig struct {
	Length int
	TTL    time.Duration
}

// NewOTPService creates a new OTP service
func NewOTPService(
	notificationSvc domain.NotificationService,
	userRepo domain.UserRepository,
	otpRepo domain.OTPRepository,
	audit domain.AuditLogger,
	logger *zap.Logger,
	config OTPConfig,
) domain.OTPService {
	return &OTPServiceImpl{
		notificationSvc: notificationSvc,
		userRepo:        userRepo,
		otpRepo:         otpRepo,
		audit:           audit,
		logger:          logger,
		config:          config,
		now:             time.Now,
	}
}

// Send implements domain.OTPService. The code is stored under the user's email,
// texted to the user's own phone when the request identified by phone, and
// emailed to the user.
func (s *OTPServiceImpl) Send(ctx context.Context, identity domain.Identity) (*domain.OTPRequest, error) {
	identity = trimIdentity(identity)
	if identity.IsEmpty() {
		return nil, domain.ErrMissingFields
	}

	user, err := s.lookup(ctx, identity, domain.OTPRequestEvent)
	if err != nil {
		return nil, err
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	if err := s.otpRepo.Save(ctx, user.Email, code, s.config.TTL); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	message := fmt.Sprintf("Your verification code is: %s. It is valid for %d seconds.", code, int(s.config.TTL.Seconds()))

	if identity.Phone != "" {
		if err := s.notificationSvc.SendSMS(ctx, user.Phone, message); err != nil {
			s.discard(ctx, user.Email)
			return nil, fmt.Errorf("%w: sms: %v", domain.ErrNotificationFailed, err)
		}
	}

	if err := s.notificationSvc.SendEmail(ctx, user.Email, "Your verification code", message); err != nil {
		s.discard(ctx, user.Email)
		return nil, fmt.Errorf("%w: email: %v", domain.ErrNotificationFailed, err)
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.OTPRequestEvent, user.ID).WithEmail(user.Email).WithPhone(user.Phone))

	var phone string
	if identity.Phone != "" {
		phone = user.Phone
	}
	return &domain.OTPRequest{
		Email:     user.Email,
		Phone:     phone,
		Code:      code,
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.config.TTL),
	}, nil
}

// Verify implements domain.OTPService. A matching code is deleted so it cannot be replayed.
func (s *OTPServiceImpl) Verify(ctx context.Context, identity domain.Identity, code string) (*domain.User, error) {
	identity = trimIdentity(identity)
	if identity.IsEmpty() {
		return nil, domain.ErrMissingFields
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrOTPInvalid
	}

	user, err := s.lookup(ctx, identity, domain.OTPVerifyFailureEvent)
	if err != nil {
		return nil, err
	}

	storedCode, err := s.otpRepo.Get(ctx, user.Email)
	if err != nil {
		if errors.Is(err, domain.ErrOTPNotFound) {
			s.logAudit(ctx, domain.NewAuditEvent(domain.OTPVerifyFailureEvent, user.ID).WithEmail(user.Email).WithError(err))
			return nil, domain.ErrOTPNotFound
		}
		return nil, fmt.Errorf("failed to get OTP: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(storedCode), []byte(code)) != 1 {
		s.logAudit(ctx, domain.NewAuditEvent(domain.OTPVerifyFailureEvent, user.ID).WithEmail(user.Email).WithError(domain.ErrOTPInvalid))
		return nil, domain.ErrOTPInvalid
	}

	if err := s.otpRepo.Delete(ctx, user.Email); err != nil {
		return nil, fmt.Errorf("failed to consume OTP: %w", err)
	}

	s.logAudit(ctx, domain.NewAuditEvent(domain.OTPVerifyEvent, user.ID).WithEmail(user.Email))
	return user, nil
}

// lookup resolves identity to a user and requires every supplied identifier
// to belong to that user. A mixed identity naming two accounts is unknown.
func (s *OTPServiceImpl) lookup(ctx context.Context, identity domain.Identity, onMismatch domain.AuditEventType) (*domain.User, error) {
	user, err := s.userRepo.FindByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}

	if (identity.Username != "" && identity.Username != strings.ToLower(user.Username)) ||
		(identity.Email != "" && identity.Email != user.Email) ||
		(identity.Phone != "" && identity.Phone != user.Phone) {
		s.logAudit(ctx, domain.NewAuditEvent(onMismatch, user.ID).
			WithEmail(user.Email).
			WithPhone(identity.Phone).
			WithError(domain.ErrUserNotFound).
			WithMetadata("reason", "identity_mismatch"))
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *OTPServiceImpl) discard(ctx context.Context, email string) {
	if err := s.otpRepo.Delete(ctx, email); err != nil {
		s.logger.Warn("failed to discard undelivered OTP", zap.String("email", email), zap.Error(err))
	}
}

func (s *OTPServiceImpl) logAudit(ctx context.Context, event *domain.AuditEvent) {
	if err := s.audit.LogEvent(ctx, event); err != nil {
		s.logger.Warn("audit log failed", zap.String("event_type", string(event.EventType)), zap.Error(err))
	}
}

// generateSecureCode generates a cryptographically secure numeric code
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}

func trimIdentity(identity domain.Identity) domain.Identity {
	return domain.Identity{
		Username: strings.ToLower(strings.TrimSpace(identity.Username)),
		Email:    strings.TrimSpace(identity.Email),
		Phone:    strings.TrimSpace(identity.Phone),
	}
}
