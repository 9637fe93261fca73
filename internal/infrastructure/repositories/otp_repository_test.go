package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/usersvc/domain"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestOTPRepositoryImpl_SaveAndGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewOTPRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "a@x.com", "123456", 120*time.Second))

	code, err := repo.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	assert.True(t, mr.Exists("otp:a@x.com"))
	assert.Equal(t, 120*time.Second, mr.TTL("otp:a@x.com"))
}

func TestOTPRepositoryImpl_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewOTPRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "a@x.com", "123456", 120*time.Second))

	mr.FastForward(119 * time.Second)
	_, err := repo.Get(ctx, "a@x.com")
	require.NoError(t, err, "code is valid until the TTL elapses")

	mr.FastForward(2 * time.Second)
	_, err = repo.Get(ctx, "a@x.com")
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOTPRepositoryImpl_Overwrite(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewOTPRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "a@x.com", "111111", 120*time.Second))
	mr.FastForward(60 * time.Second)
	require.NoError(t, repo.Save(ctx, "a@x.com", "222222", 120*time.Second))

	code, err := repo.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", code)
	assert.Equal(t, 120*time.Second, mr.TTL("otp:a@x.com"), "overwrite resets the expiry")
}

func TestOTPRepositoryImpl_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewOTPRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "a@x.com", "123456", time.Minute))
	require.NoError(t, repo.Delete(ctx, "a@x.com"))

	_, err := repo.Get(ctx, "a@x.com")
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)

	assert.NoError(t, repo.Delete(ctx, "missing@x.com"))
}

func TestOTPRepositoryImpl_RejectsNonPositiveTTL(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewOTPRepository(client)

	assert.Error(t, repo.Save(context.Background(), "a@x.com", "123456", 0))
}
