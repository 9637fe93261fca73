package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks for the YAML file
const DefaultPath = "config/config.yml"

type AppConfig struct {
	Port        int    `yaml:"port"`
	GinMode     string `yaml:"gin_mode"`
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	AccessSecret  string `yaml:"access_secret"`
	RefreshSecret string `yaml:"refresh_secret"`
	Issuer        string `yaml:"issuer"`
	AccessTTL     string `yaml:"access_ttl"`
	RefreshTTL    string `yaml:"refresh_ttl"`
}

type OTPConfig struct {
	TTL    string `yaml:"ttl"`
	Length int    `yaml:"length"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type S3Config struct {
	Region        string `yaml:"region"`
	Bucket        string `yaml:"bucket"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type SentryConfig struct {
	DSN string `yaml:"dsn"`
}

type CookieConfig struct {
	Domain string `yaml:"domain"`
}

type WelcomeConfig struct {
	Workers    int    `yaml:"workers"`
	QueueSize  int    `yaml:"queue_size"`
	MaxRetries int    `yaml:"max_retries"`
	Backoff    string `yaml:"backoff"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	S3       S3Config       `yaml:"s3"`
	Sentry   SentryConfig   `yaml:"sentry"`
	Cookie   CookieConfig   `yaml:"cookie"`
	Welcome  WelcomeConfig  `yaml:"welcome"`
}

type Config struct {
	Port              string
	GinMode           string
	Environment       string
	DSN               string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	AccessSecret      string
	RefreshSecret     string
	JWTIssuer         string
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	OTP_TTL           time.Duration
	OTP_Length        int
	TwilioSID         string
	TwilioToken       string
	TwilioFrom        string
	SMTP              SMTPConfig
	S3                S3Config
	SentryDSN         string
	CookieDomain      string
	WelcomeWorkers    int
	WelcomeQueueSize  int
	WelcomeMaxRetries int
	WelcomeBackoff    time.Duration
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// Load reads DefaultPath, applies .env and environment overrides and validates the result
func Load() (*Config, error) {
	return LoadFrom(DefaultPath)
}

// LoadFrom is Load with an explicit file path. A missing file is not an error;
// defaults and environment variables are used instead.
func LoadFrom(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := parseDuration("jwt access TTL", env("ACCESS_TOKEN_EXPIRY", configFile.JWT.AccessTTL), 15*time.Minute)
	if err != nil {
		return nil, err
	}
	refTTL, err := parseDuration("jwt refresh TTL", env("REFRESH_TOKEN_EXPIRY", configFile.JWT.RefreshTTL), 10*24*time.Hour)
	if err != nil {
		return nil, err
	}
	otpTTL, err := parseDuration("OTP TTL", env("OTP_TTL", configFile.OTP.TTL), 120*time.Second)
	if err != nil {
		return nil, err
	}
	backoff, err := parseDuration("welcome backoff", env("WELCOME_BACKOFF", configFile.Welcome.Backoff), 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	port := configFile.App.Port
	if port == 0 {
		port = 8000
	}

	cfg := &Config{
		Port:              env("PORT", strconv.Itoa(port)),
		GinMode:           env("GIN_MODE", configFile.App.GinMode),
		Environment:       env("APP_ENV", orDefault(configFile.App.Environment, "development")),
		DSN:               env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:         env("REDIS_ADDR", orDefault(configFile.Redis.Addr, "localhost:6379")),
		RedisPassword:     env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:           envInt("REDIS_DB", configFile.Redis.DB),
		AccessSecret:      env("ACCESS_TOKEN_SECRET", configFile.JWT.AccessSecret),
		RefreshSecret:     env("REFRESH_TOKEN_SECRET", configFile.JWT.RefreshSecret),
		JWTIssuer:         env("JWT_ISSUER", orDefault(configFile.JWT.Issuer, "usersvc")),
		AccessTTL:         accTTL,
		RefreshTTL:        refTTL,
		OTP_TTL:           otpTTL,
		OTP_Length:        envInt("OTP_LENGTH", intOrDefault(configFile.OTP.Length, 6)),
		TwilioSID:         env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:       env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:        env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),
		SentryDSN:         env("SENTRY_DSN", configFile.Sentry.DSN),
		CookieDomain:      env("COOKIE_DOMAIN", configFile.Cookie.Domain),
		WelcomeWorkers:    intOrDefault(configFile.Welcome.Workers, 2),
		WelcomeQueueSize:  intOrDefault(configFile.Welcome.QueueSize, 100),
		WelcomeMaxRetries: intOrDefault(configFile.Welcome.MaxRetries, 3),
		WelcomeBackoff:    backoff,
		SMTP: SMTPConfig{
			Host:     env("SMTP_HOST", configFile.SMTP.Host),
			Port:     envInt("SMTP_PORT", intOrDefault(configFile.SMTP.Port, 587)),
			Username: env("SMTP_USERNAME", configFile.SMTP.Username),
			Password: env("SMTP_PASSWORD", configFile.SMTP.Password),
			From:     env("SMTP_FROM", configFile.SMTP.From),
		},
		S3: S3Config{
			Region:        env("S3_REGION", orDefault(configFile.S3.Region, "us-east-1")),
			Bucket:        env("S3_BUCKET", configFile.S3.Bucket),
			Endpoint:      env("S3_ENDPOINT", configFile.S3.Endpoint),
			AccessKey:     env("S3_ACCESS_KEY", configFile.S3.AccessKey),
			SecretKey:     env("S3_SECRET_KEY", configFile.S3.SecretKey),
			PublicBaseURL: env("S3_PUBLIC_BASE_URL", configFile.S3.PublicBaseURL),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.AccessSecret == "" {
		errs = append(errs, errors.New("access token secret is required"))
	}
	if c.RefreshSecret == "" {
		errs = append(errs, errors.New("refresh token secret is required"))
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	if c.OTP_TTL <= 0 {
		errs = append(errs, errors.New("OTP TTL must be positive"))
	}
	if c.OTP_Length < 4 {
		errs = append(errs, errors.New("OTP length must be at least 4"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func loadConfigFile(path string) (*ConfigFile, error) {
	var config ConfigFile

	bytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func parseDuration(name, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOrDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
