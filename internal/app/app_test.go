package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR", "READABILITY_FALLBACK", "POLICY_FILE",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_TRUSTED_PROXIES",
		"SEARCH_API_KEY", "SEARCH_ENGINE_ID", "SEARCH_BASE_URL", "SEARCH_TIMEOUT",
		"SEARCH_RPS", "SEARCH_BURST",
		"FETCH_TIMEOUT", "DNS_TIMEOUT", "FETCH_USER_AGENT", "FETCH_PIN_RESOLVED_ADDRESS",
	} {
		t.Setenv(key, "")
	}
}

func TestBuild_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := Build(Options{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Config.HTTPAddr)
	assert.Equal(t, 10*time.Second, c.Fetch.Timeout)
	assert.NotNil(t, c.Policy)
	assert.False(t, c.SearchClient.Configured())
	assert.Equal(t, "closed", c.SearchClient.BreakerState())
}

func TestBuild_ValidatorUsesPolicy(t *testing.T) {
	clearEnv(t)

	c, err := Build(Options{})
	require.NoError(t, err)

	v := c.Validator.Validate(context.Background(), "http://127.0.0.1/")
	assert.False(t, v.Valid)
	assert.Equal(t, "Access to private/internal networks is not allowed.", v.ErrorMessage)

	v = c.Validator.Validate(context.Background(), "http://93.184.216.34:22/")
	assert.False(t, v.Valid)
	assert.Equal(t, "Access to port 22 is not allowed.", v.ErrorMessage)
}

func TestBuild_PolicyFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policy:\n  blocked_ports: [8443]\n"), 0o600))
	t.Setenv("POLICY_FILE", path)

	c, err := Build(Options{})
	require.NoError(t, err)
	assert.Contains(t, c.Policy.BlockedPorts(), 8443)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad fetch timeout", env: map[string]string{"FETCH_TIMEOUT": "soon"}},
		{name: "negative rate", env: map[string]string{"RATE_LIMIT_RPS": "-1"}},
		{name: "missing policy file", env: map[string]string{"POLICY_FILE": "/nonexistent/policy.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Build(Options{})
			assert.Error(t, err)
		})
	}
}
