package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/you/usersvc/domain"
	"go.uber.org/zap"
)

// WelcomeConfig tunes the background welcome delivery
type WelcomeConfig struct {
	Workers    int
	QueueSize  int
	MaxRetries uint64
	Backoff    time.Duration
	// Timeout bounds a single delivery including its retries
	Timeout time.Duration
}

// WelcomeDispatcher delivers welcome e-mails off the request path.
// Registrations never wait on it and never fail because of it.
type WelcomeDispatcher struct {
	notifier domain.NotificationService
	audit    domain.AuditLogger
	logger   *zap.Logger
	config   WelcomeConfig

	queue    chan *domain.User
	quit     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewWelcomeDispatcher creates a dispatcher; call Start to begin delivering
func NewWelcomeDispatcher(notifier domain.NotificationService, audit domain.AuditLogger, logger *zap.Logger, config WelcomeConfig) *WelcomeDispatcher {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 100
	}
	if config.Backoff <= 0 {
		config.Backoff = 500 * time.Millisecond
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &WelcomeDispatcher{
		notifier: notifier,
		audit:    audit,
		logger:   logger.Named("welcome"),
		config:   config,
		queue:    make(chan *domain.User, config.QueueSize),
		quit:     make(chan struct{}),
	}
}

// Start launches the worker goroutines
func (d *WelcomeDispatcher) Start(ctx context.Context) {
	for i := 0; i < d.config.Workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
}

// Stop stops accepting work, drains the queue and waits for the workers
func (d *WelcomeDispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.quit)
	})
	d.wg.Wait()
}

// NotifyWelcome implements domain.WelcomeNotifier. It never blocks; when the
// queue is full or the dispatcher is stopped the message is dropped and logged.
func (d *WelcomeDispatcher) NotifyWelcome(user *domain.User) {
	if user == nil {
		return
	}
	select {
	case <-d.quit:
		d.logger.Warn("dispatcher stopped, dropping welcome message", zap.Uint("user_id", user.ID))
		return
	default:
	}

	select {
	case d.queue <- user:
	default:
		d.logger.Warn("welcome queue full, dropping message", zap.Uint("user_id", user.ID))
	}
}

func (d *WelcomeDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case user := <-d.queue:
			d.deliver(ctx, user)
		case <-d.quit:
			for {
				select {
				case user := <-d.queue:
					d.deliver(ctx, user)
				default:
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (d *WelcomeDispatcher) deliver(ctx context.Context, user *domain.User) {
	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	subject, body := welcomeMessage(user)
	backoff := retry.WithMaxRetries(d.config.MaxRetries, retry.NewExponential(d.config.Backoff))

	attempts := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if err := d.notifier.SendEmail(ctx, user.Email, subject, body); err != nil {
			d.logger.Debug("welcome attempt failed", zap.Uint("user_id", user.ID), zap.Int("attempt", attempts), zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		d.logger.Error("welcome delivery failed",
			zap.Uint("user_id", user.ID),
			zap.String("email", user.Email),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		event := domain.NewAuditEvent(domain.WelcomeDeliveryFailed, user.ID).
			WithEmail(user.Email).
			WithMetadata("attempts", attempts).
			WithError(err)
		if auditErr := d.audit.LogEvent(context.WithoutCancel(ctx), event); auditErr != nil {
			d.logger.Warn("audit log failed", zap.Error(auditErr))
		}
		return
	}

	d.logger.Info("welcome delivered", zap.Uint("user_id", user.ID), zap.Int("attempts", attempts))
}

func welcomeMessage(user *domain.User) (string, string) {
	subject := "Welcome aboard!"
	body := fmt.Sprintf("Hi %s,\n\nYour account %q has been created. We are glad to have you.\n", user.Fullname, user.Username)
	return subject, body
}

var _ domain.WelcomeNotifier = (*WelcomeDispatcher)(nil)
