package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/you/usersvc/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// JWTServiceImpl implements domain.TokenService.
// Access and refresh tokens are signed with different secrets so one can never pass as the other.
type JWTServiceImpl struct {
	accessSecret    []byte
	refreshSecret   []byte
	issuer          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	now             func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) *JWTServiceImpl {
	return &JWTServiceImpl{
		accessSecret:    []byte(accessSecret),
		refreshSecret:   []byte(refreshSecret),
		issuer:          issuer,
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
		now:             time.Now,
	}
}

type claims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Fullname  string `json:"fullname,omitempty"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// AccessTTL implements domain.TokenService
func (j *JWTServiceImpl) AccessTTL() time.Duration { return j.accessTokenTTL }

// RefreshTTL implements domain.TokenService
func (j *JWTServiceImpl) RefreshTTL() time.Duration { return j.refreshTokenTTL }

// GenerateAccessToken implements domain.TokenService
func (j *JWTServiceImpl) GenerateAccessToken(user *domain.User) (string, error) {
	c := j.registered(user.ID, tokenTypeAccess, j.accessTokenTTL)
	c.Username = user.Username
	c.Email = user.Email
	c.Fullname = user.Fullname
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(j.accessSecret)
}

// GenerateRefreshToken implements domain.TokenService
func (j *JWTServiceImpl) GenerateRefreshToken(user *domain.User) (string, error) {
	c := j.registered(user.ID, tokenTypeRefresh, j.refreshTokenTTL)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(j.refreshSecret)
}

// ValidateAccessToken implements domain.TokenService
func (j *JWTServiceImpl) ValidateAccessToken(tokenString string) (*domain.TokenClaims, error) {
	return j.validateToken(tokenString, j.accessSecret, tokenTypeAccess)
}

// ValidateRefreshToken implements domain.TokenService
func (j *JWTServiceImpl) ValidateRefreshToken(tokenString string) (*domain.TokenClaims, error) {
	return j.validateToken(tokenString, j.refreshSecret, tokenTypeRefresh)
}

func (j *JWTServiceImpl) registered(userID uint, tokenType string, ttl time.Duration) *claims {
	now := j.now()
	return &claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// unique id keeps two tokens issued in the same second distinct
			ID: uuid.NewString(),
		},
	}
}

// validateToken validates a JWT token and returns claims
func (j *JWTServiceImpl) validateToken(tokenString string, secret []byte, tokenType string) (*domain.TokenClaims, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenMalformed
		}
		return secret, nil
	},
		jwt.WithIssuer(j.issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrTokenMalformed
		default:
			return nil, domain.ErrTokenInvalid
		}
	}

	if !token.Valid || c.TokenType != tokenType || c.UserID == 0 {
		return nil, domain.ErrTokenInvalid
	}

	tokenClaims := &domain.TokenClaims{
		UserID:    c.UserID,
		Username:  c.Username,
		Email:     c.Email,
		Fullname:  c.Fullname,
		TokenType: c.TokenType,
		ID:        c.ID,
	}
	if c.IssuedAt != nil {
		tokenClaims.IssuedAt = c.IssuedAt.Unix()
	}
	if c.ExpiresAt != nil {
		tokenClaims.ExpiresAt = c.ExpiresAt.Unix()
	}

	return tokenClaims, nil
}

var _ domain.TokenService = (*JWTServiceImpl)(nil)
