package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiralog/jiralog/internal/config"
)

// setEnv pins all recognized variables so values leaking in from the
// host environment cannot affect a test.
func setEnv(t *testing.T, email, token, domain string) {
	t.Helper()
	t.Setenv("JIRA_EMAIL", email)
	t.Setenv("JIRA_API_TOKEN", token)
	t.Setenv("JIRA_DOMAIN", domain)
	t.Setenv("JIRA_CLOUD_ID", "")
	t.Setenv("JIRA_OAUTH_TOKEN", "")
}

func TestLoad(t *testing.T) {
	setEnv(t, "dev@example.com", "secret-token", "example.atlassian.net")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", cfg.Email)
	assert.Equal(t, "secret-token", cfg.APIToken)
	assert.Equal(t, "example.atlassian.net", cfg.Domain)
	assert.Empty(t, cfg.CloudID)
	assert.Empty(t, cfg.OAuthToken)
}

func TestLoad_NormalizesDomain(t *testing.T) {
	setEnv(t, "dev@example.com", "secret-token", "https://example.atlassian.net/")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "example.atlassian.net", cfg.Domain)
}

func TestLoad_OptionalFields(t *testing.T) {
	setEnv(t, "dev@example.com", "secret-token", "example.atlassian.net")
	t.Setenv("JIRA_CLOUD_ID", "11223344-5566-7788-99aa-bbccddeeff00")
	t.Setenv("JIRA_OAUTH_TOKEN", "oauth-xyz")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "11223344-5566-7788-99aa-bbccddeeff00", cfg.CloudID)
	assert.Equal(t, "oauth-xyz", cfg.OAuthToken)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		token   string
		domain  string
		wantVar string
	}{
		{"missing email", "", "secret-token", "example.atlassian.net", "JIRA_EMAIL"},
		{"missing token", "dev@example.com", "", "example.atlassian.net", "JIRA_API_TOKEN"},
		{"missing domain", "dev@example.com", "secret-token", "", "JIRA_DOMAIN"},
		{"all missing", "", "", "", "JIRA_EMAIL"},
		{"invalid email", "not-an-email", "secret-token", "example.atlassian.net", "JIRA_EMAIL"},
		{"invalid domain", "dev@example.com", "secret-token", "not_a_domain", "JIRA_DOMAIN"},
		{"domain with path", "dev@example.com", "secret-token", "example.atlassian.net/jira", "JIRA_DOMAIN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.email, tt.token, tt.domain)

			_, err := config.Load()
			var cfgErr *config.Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantVar, cfgErr.Var)
			assert.Contains(t, err.Error(), tt.wantVar)
		})
	}
}

func TestLoad_TrimsValues(t *testing.T) {
	setEnv(t, "  dev@example.com  ", " secret-token ", " example.atlassian.net ")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", cfg.Email)
	assert.Equal(t, "secret-token", cfg.APIToken)
	assert.Equal(t, "example.atlassian.net", cfg.Domain)
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.atlassian.net", "example.atlassian.net"},
		{"https://example.atlassian.net", "example.atlassian.net"},
		{"http://example.atlassian.net", "example.atlassian.net"},
		{"https://example.atlassian.net/", "example.atlassian.net"},
		{"example.atlassian.net///", "example.atlassian.net"},
		{"  example.atlassian.net ", "example.atlassian.net"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, config.NormalizeDomain(tt.in), "NormalizeDomain(%q)", tt.in)
	}
}
