package e2e

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/usersvc/domain"
)

func TestRegistration(t *testing.T) {
	s := NewTestServer(t)

	t.Run("creates the user and greets them", func(t *testing.T) {
		opts := DefaultTestUser()
		opts.Username = "  MixedCase" + opts.Username

		data := registerUser(t, s, opts)

		assert.Equal(t, strings.ToLower(strings.TrimSpace(opts.Username)), data["username"])
		assert.Equal(t, opts.Email, data["email"])
		assert.Equal(t, domain.DefaultAvatarURL, data["avatar"])
		assert.NotContains(t, data, "password")
		assert.NotContains(t, data, "refreshToken")

		require.Eventually(t, func() bool {
			return len(s.Notifier.EmailsTo(opts.Email)) == 1
		}, 2*time.Second, 10*time.Millisecond)
		assert.Empty(t, s.Notifier.SMSTo(opts.Phone), "welcome is e-mail only")
	})

	t.Run("rejects duplicate identifiers", func(t *testing.T) {
		opts := DefaultTestUser()
		registerUser(t, s, opts)

		dup := DefaultTestUser()
		dup.Email = opts.Email
		resp := s.PostJSON(t, "/api/v1/users/register", dup.form())

		assert.Equal(t, http.StatusConflict, resp.Status)
		assert.False(t, resp.Body.Success)
		assert.Equal(t, domain.ErrUserAlreadyExists.Error(), resp.Body.Message)
	})

	t.Run("rejects blank fields", func(t *testing.T) {
		opts := DefaultTestUser()
		opts.Fullname = "   "
		resp := s.PostJSON(t, "/api/v1/users/register", opts.form())

		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Equal(t, domain.ErrMissingFields.Error(), resp.Body.Message)
		assert.NotEmpty(t, resp.Body.Errors)
	})
}
