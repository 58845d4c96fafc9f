package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TokenManagementURL is where Atlassian API tokens are created and
// revoked. Quoted in credential-related error output.
const TokenManagementURL = "https://id.atlassian.com/manage-profile/security/api-tokens"

// Config holds the Jira connection settings read from the environment.
// It is constructed once at startup and passed into the components that
// need it; nothing reads the environment after Load returns.
type Config struct {
	// Email is the Atlassian account the worklogs are submitted as.
	Email string `validate:"required,email"`
	// APIToken authenticates together with Email via HTTP basic auth.
	// It is never logged or echoed.
	APIToken string `validate:"required"`
	// Domain is the bare Jira site host, e.g. "yourcompany.atlassian.net".
	// A leading scheme and trailing slashes are stripped on load.
	Domain string `validate:"required,fqdn"`
	// CloudID optionally identifies the site on the api.atlassian.com
	// gateway. Only used together with OAuthToken.
	CloudID string
	// OAuthToken switches authentication to an OAuth 2.0 bearer token
	// when non-empty. Basic auth is used otherwise.
	OAuthToken string
}

// Error describes a missing or unusable configuration value.
type Error struct {
	// Var is the environment variable at fault.
	Var string
	// Reason completes the sentence "<Var> <Reason>".
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s", e.Var, e.Reason)
}

var validate = validator.New()

// Load builds a Config from the JIRA_* environment variables and
// validates it. CloudID and OAuthToken are optional; everything else is
// required.
func Load() (Config, error) {
	cfg := Config{
		Email:      strings.TrimSpace(os.Getenv("JIRA_EMAIL")),
		APIToken:   strings.TrimSpace(os.Getenv("JIRA_API_TOKEN")),
		Domain:     NormalizeDomain(os.Getenv("JIRA_DOMAIN")),
		CloudID:    strings.TrimSpace(os.Getenv("JIRA_CLOUD_ID")),
		OAuthToken: strings.TrimSpace(os.Getenv("JIRA_OAUTH_TOKEN")),
	}
	if err := check(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NormalizeDomain strips an http:// or https:// scheme and any trailing
// slashes so the value is a bare host.
func NormalizeDomain(raw string) string {
	d := strings.TrimSpace(raw)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	return strings.TrimRight(d, "/")
}

// check runs the struct validation and maps the first failure onto the
// environment variable it came from.
func check(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating configuration: %w", err)
	}

	fe := verrs[0]
	switch fe.StructField() {
	case "Email":
		if fe.Tag() == "required" {
			return &Error{Var: "JIRA_EMAIL", Reason: "is not set"}
		}
		return &Error{Var: "JIRA_EMAIL", Reason: fmt.Sprintf("has invalid email format: %q", cfg.Email)}
	case "APIToken":
		return &Error{Var: "JIRA_API_TOKEN", Reason: "is not set"}
	case "Domain":
		if fe.Tag() == "required" {
			return &Error{Var: "JIRA_DOMAIN", Reason: "is not set"}
		}
		return &Error{Var: "JIRA_DOMAIN", Reason: fmt.Sprintf("has invalid domain format: %q (expected format: yourcompany.atlassian.net)", cfg.Domain)}
	}
	return fmt.Errorf("validating configuration: %w", err)
}
