package audit

import (
	"context"

	"github.com/you/usersvc/domain"
	"go.uber.org/zap"
)

// ZapAuditLogger implements domain.AuditLogger by writing one structured line per event
type ZapAuditLogger struct {
	logger *zap.Logger
}

// NewZapAuditLogger creates an audit logger on a named child of logger
func NewZapAuditLogger(logger *zap.Logger) *ZapAuditLogger {
	return &ZapAuditLogger{logger: logger.Named("audit")}
}

// LogEvent implements domain.AuditLogger
func (l *ZapAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	if event.IPAddress == "" {
		event.WithClientContext(domain.ClientContextFrom(ctx))
	}

	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.Uint("user_id", event.UserID),
		zap.Time("timestamp", event.Timestamp),
		zap.Bool("success", event.Success),
	}
	if event.Email != "" {
		fields = append(fields, zap.String("email", event.Email))
	}
	if event.Phone != "" {
		fields = append(fields, zap.String("phone", event.Phone))
	}
	if event.IPAddress != "" {
		fields = append(fields, zap.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}

	if !event.Success {
		fields = append(fields, zap.String("error", event.ErrorMsg))
		l.logger.Warn("audit event", fields...)
		return nil
	}

	l.logger.Info("audit event", fields...)
	return nil
}

var _ domain.AuditLogger = (*ZapAuditLogger)(nil)
