package e2e

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	s := NewTestServer(t)

	resp := s.Get(t, "/health")

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, resp.Body.Success)
}
