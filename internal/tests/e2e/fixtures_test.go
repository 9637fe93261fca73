package e2e

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

var userSeq atomic.Int64

// TestUserOptions describes a user to register
type TestUserOptions struct {
	Fullname string
	Username string
	Email    string
	Phone    string
	Password string
}

// DefaultTestUser returns a unique, complete registration form
func DefaultTestUser() *TestUserOptions {
	n := userSeq.Add(1)
	return &TestUserOptions{
		Fullname: fmt.Sprintf("Test User %d", n),
		Username: fmt.Sprintf("user%d", n),
		Email:    fmt.Sprintf("user%d@example.com", n),
		Phone:    fmt.Sprintf("+1555000%04d", n),
		Password: "SecurePass123!",
	}
}

func (o *TestUserOptions) form() map[string]string {
	return map[string]string{
		"fullname": o.Fullname,
		"username": o.Username,
		"email":    o.Email,
		"phone":    o.Phone,
		"password": o.Password,
	}
}

func registerUser(t *testing.T, s *TestServer, opts *TestUserOptions) map[string]interface{} {
	t.Helper()
	resp := s.PostJSON(t, "/api/v1/users/register", opts.form())
	require.Equalf(t, http.StatusCreated, resp.Status, "register failed: %+v", resp.Body)
	return resp.Data(t)
}

type session struct {
	AccessToken  string
	RefreshToken string
}

func loginUser(t *testing.T, s *TestServer, opts *TestUserOptions) session {
	t.Helper()
	resp := s.PostJSON(t, "/api/v1/users/login", map[string]string{"email": opts.Email, "password": opts.Password})
	require.Equalf(t, http.StatusOK, resp.Status, "login failed: %+v", resp.Body)
	data := resp.Data(t)
	return session{
		AccessToken:  data["accessToken"].(string),
		RefreshToken: data["refreshToken"].(string),
	}
}
