package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/usersvc/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrUserAlreadyExists, http.StatusConflict},
		{domain.ErrMissingFields, http.StatusBadRequest},
		{domain.ErrUserNotFound, http.StatusBadRequest},
		{domain.ErrOTPNotFound, http.StatusBadRequest},
		{domain.ErrIncorrectOldPassword, http.StatusBadRequest},
		{domain.ErrIdentifierRequired, http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrRefreshTokenReused, http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", domain.ErrTokenExpired), http.StatusUnauthorized},
		{domain.ErrImageUploadFailed, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func perform(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestOK(t *testing.T) {
	w, env := perform(t, func(c *gin.Context) {
		OK(c, http.StatusCreated, gin.H{"id": 1}, "created")
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, "created", env.Message)
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, env.Data)
}

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"domain error keeps message", domain.ErrUserAlreadyExists, http.StatusConflict, domain.ErrUserAlreadyExists.Error()},
		{"collaborator error keeps message", fmt.Errorf("%w: timeout", domain.ErrImageUploadFailed), http.StatusInternalServerError, "image upload failed: timeout"},
		{"unexpected error is hidden", errors.New("pq: connection refused"), http.StatusInternalServerError, internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := perform(t, func(c *gin.Context) { Error(c, tt.err) })

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus, env.StatusCode)
			assert.False(t, env.Success)
			assert.Nil(t, env.Data)
			assert.Equal(t, tt.wantMessage, env.Message)
		})
	}
}

func TestValidation(t *testing.T) {
	w, env := perform(t, func(c *gin.Context) {
		Validation(c, "invalid request", []string{"email is required"})
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"email is required"}, env.Errors)
	assert.False(t, env.Success)
}
