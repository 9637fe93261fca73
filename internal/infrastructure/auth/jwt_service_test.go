package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/usersvc/domain"
)

func newTestJWTService() *JWTServiceImpl {
	return NewJWTService("access-secret", "refresh-secret", "usersvc-test", 15*time.Minute, 240*time.Hour)
}

func testUser() *domain.User {
	return &domain.User{ID: 42, Username: "alice", Email: "alice@example.com", Fullname: "Alice A"}
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice A", claims.Fullname)
	assert.Equal(t, tokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, int64(15*60), claims.ExpiresAt-claims.IssuedAt)
}

func TestJWTService_RefreshTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateRefreshToken(testUser())
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Empty(t, claims.Email, "refresh tokens carry only the user id")
	assert.Equal(t, tokenTypeRefresh, claims.TokenType)
}

func TestJWTService_TokensAreUnique(t *testing.T) {
	svc := newTestJWTService()
	user := testUser()

	first, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)
	second, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWTService_RejectsCrossUse(t *testing.T) {
	svc := newTestJWTService()
	user := testUser()

	access, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestJWTService_InvalidInputs(t *testing.T) {
	svc := newTestJWTService()
	other := NewJWTService("other-access", "other-refresh", "usersvc-test", time.Minute, time.Hour)
	foreign, err := other.GenerateAccessToken(testUser())
	require.NoError(t, err)

	wrongIssuer := NewJWTService("access-secret", "refresh-secret", "someone-else", time.Minute, time.Hour)
	otherIssuer, err := wrongIssuer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 1, "typ": "access"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "garbage", token: "not-a-jwt", want: domain.ErrTokenMalformed},
		{name: "empty", token: "", want: domain.ErrTokenMalformed},
		{name: "wrong secret", token: foreign, want: domain.ErrTokenInvalid},
		{name: "wrong issuer", token: otherIssuer, want: domain.ErrTokenInvalid},
		{name: "none algorithm", token: none, want: domain.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
