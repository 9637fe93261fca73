package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/you/usersvc/domain"
	"github.com/you/usersvc/internal/config"
	httpx "github.com/you/usersvc/internal/http"
	"github.com/you/usersvc/internal/http/handlers"
	"github.com/you/usersvc/internal/http/middleware"
	"github.com/you/usersvc/internal/infrastructure/audit"
	"github.com/you/usersvc/internal/infrastructure/auth"
	"github.com/you/usersvc/internal/infrastructure/database"
	"github.com/you/usersvc/internal/infrastructure/notifications"
	"github.com/you/usersvc/internal/infrastructure/repositories"
	"github.com/you/usersvc/internal/infrastructure/storage"
	"github.com/you/usersvc/internal/services"
)

// Externals are the connections and providers the container is built on
type Externals struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Notifier   domain.NotificationService
	ImageStore domain.ImageStore
}

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client

	// Repositories
	UserRepo domain.UserRepository
	OTPRepo  domain.OTPRepository

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	ImageStore      domain.ImageStore
	AuditLogger     domain.AuditLogger
	Welcome         *services.WelcomeDispatcher
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
}

// NewContainer connects to Postgres, Redis, the notification providers and
// the image bucket described by cfg, then builds the container on them.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	db, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	sms := notifications.NewTwilioSender(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, logger)
	mail, err := notifications.NewMailSender(notifications.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, logger)
	if err != nil {
		return nil, err
	}

	imageStore, err := storage.NewS3ImageStore(ctx, storage.S3Config{
		Region:        cfg.S3.Region,
		Bucket:        cfg.S3.Bucket,
		Endpoint:      cfg.S3.Endpoint,
		AccessKey:     cfg.S3.AccessKey,
		SecretKey:     cfg.S3.SecretKey,
		PublicBaseURL: cfg.S3.PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure image store: %w", err)
	}

	return Build(cfg, logger, Externals{
		DB:         db,
		Redis:      rdb.Client,
		Notifier:   notifications.NewNotifier(sms, mail),
		ImageStore: imageStore,
	}), nil
}

// Build wires repositories, services and the welcome dispatcher on top of ext
func Build(cfg *config.Config, logger *zap.Logger, ext Externals) *Container {
	c := &Container{
		Config:          cfg,
		Logger:          logger,
		DB:              ext.DB,
		RedisClient:     ext.Redis,
		NotificationSvc: ext.Notifier,
		ImageStore:      ext.ImageStore,
	}

	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.OTPRepo = repositories.NewOTPRepository(c.RedisClient)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(
		c.Config.AccessSecret,
		c.Config.RefreshSecret,
		c.Config.JWTIssuer,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
	)
	c.AuditLogger = audit.NewZapAuditLogger(c.Logger)

	c.Welcome = services.NewWelcomeDispatcher(c.NotificationSvc, c.AuditLogger, c.Logger, services.WelcomeConfig{
		Workers:    c.Config.WelcomeWorkers,
		QueueSize:  c.Config.WelcomeQueueSize,
		MaxRetries: uint64(c.Config.WelcomeMaxRetries),
		Backoff:    c.Config.WelcomeBackoff,
	})

	c.OTPSvc = services.NewOTPService(
		c.NotificationSvc,
		c.UserRepo,
		c.OTPRepo,
		c.AuditLogger,
		c.Logger,
		services.OTPConfig{Length: c.Config.OTP_Length, TTL: c.Config.OTP_TTL},
	)

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.ImageStore,
		c.Welcome,
		c.AuditLogger,
		c.Logger,
	)
}

// Router builds the HTTP handler for the container's services
func (c *Container) Router() *gin.Engine {
	authH := handlers.NewAuthHandlers(c.AuthSvc, c.OTPSvc, handlers.CookieConfig{
		Domain:     c.Config.CookieDomain,
		AccessTTL:  c.Config.AccessTTL,
		RefreshTTL: c.Config.RefreshTTL,
	}, c.Logger)

	healthH := handlers.NewHealthHandlers(map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return c.RedisClient.Ping(ctx).Err()
		},
	})

	jwtMW := middleware.NewAuthMW(c.TokenSvc, c.UserRepo)
	return httpx.BuildRouter(authH, healthH, jwtMW, c.OTPSvc, c.Logger)
}

// Close closes all connections
func (c *Container) Close() error {
	var errs []error
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}

	return errors.Join(errs...)
}
