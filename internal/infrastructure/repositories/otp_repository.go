package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/usersvc/domain"
)

// OTPRepositoryImpl implements domain.OTPRepository using Redis
type OTPRepositoryImpl struct {
	client *redis.Client
	prefix string
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(client *redis.Client) domain.OTPRepository {
	return &OTPRepositoryImpl{
		client: client,
		prefix: "otp:",
	}
}

// Save implements domain.OTPRepository. A previous code for the same email is overwritten.
func (r *OTPRepositoryImpl) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("otp ttl must be positive, got %s", ttl)
	}
	if err := r.client.Set(ctx, r.prefix+email, code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

// Get implements domain.OTPRepository
func (r *OTPRepositoryImpl) Get(ctx context.Context, email string) (string, error) {
	code, err := r.client.Get(ctx, r.prefix+email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrOTPNotFound
		}
		return "", fmt.Errorf("failed to read otp: %w", err)
	}
	return code, nil
}

// Delete implements domain.OTPRepository
func (r *OTPRepositoryImpl) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, r.prefix+email).Err()
}
