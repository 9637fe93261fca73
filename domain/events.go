package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Authentication events
	UserRegistrationEvent AuditEventType = "USER_REGISTERED"
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	UserLogoutEvent       AuditEventType = "USER_LOGOUT"

	// Token events
	TokenRefreshEvent     AuditEventType = "TOKEN_REFRESHED"
	TokenReuseDetected    AuditEventType = "TOKEN_REUSE_DETECTED"
	WelcomeDeliveryFailed AuditEventType = "WELCOME_DELIVERY_FAILED"

	// OTP events
	OTPRequestEvent       AuditEventType = "OTP_REQUESTED"
	OTPVerifyEvent        AuditEventType = "OTP_VERIFIED"
	OTPVerifyFailureEvent AuditEventType = "OTP_VERIFICATION_FAILED"

	// Account events
	PasswordChangeEvent AuditEventType = "PASSWORD_CHANGED"
	ProfileUpdateEvent  AuditEventType = "PROFILE_UPDATED"
	AvatarUpdateEvent   AuditEventType = "AVATAR_UPDATED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	UserID    uint                   `json:"user_id"`
	Email     string                 `json:"email,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger records audit events
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent) error
}

// ClientContext represents client information extracted from HTTP request
type ClientContext struct {
	IPAddress string
	UserAgent string
	RequestID string
}

type clientContextKey struct{}

// WithClientContext stores client information on ctx
func WithClientContext(ctx context.Context, cc *ClientContext) context.Context {
	return context.WithValue(ctx, clientContextKey{}, cc)
}

// ClientContextFrom returns the client information stored on ctx, if any
func ClientContextFrom(ctx context.Context) *ClientContext {
	cc, _ := ctx.Value(clientContextKey{}).(*ClientContext)
	return cc
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, userID uint) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithPhone sets the phone field
func (e *AuditEvent) WithPhone(phone string) *AuditEvent {
	e.Phone = phone
	return e
}

// WithClientContext sets client context information
func (e *AuditEvent) WithClientContext(cc *ClientContext) *AuditEvent {
	if cc != nil {
		e.IPAddress = cc.IPAddress
		e.UserAgent = cc.UserAgent
		e.RequestID = cc.RequestID
	}
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
