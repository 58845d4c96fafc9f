package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/jiralog/jiralog/internal/config"
)

const (
	// DefaultTimeout bounds each individual worklog request.
	DefaultTimeout = 15 * time.Second
	// DefaultRequestDelay is the fixed pause after every submission
	// attempt, successful or not.
	DefaultRequestDelay = time.Second

	// cloudGatewayBaseURL serves OAuth 2.0 requests addressed by cloud
	// ID instead of site domain.
	cloudGatewayBaseURL = "https://api.atlassian.com/ex/jira"

	// maxBodyExcerpt caps how much of an error response body is kept.
	maxBodyExcerpt = 200
)

// APIError is a non-2xx response from the Jira API.
type APIError struct {
	StatusCode int
	Body       string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("jira API error %d on %s", e.StatusCode, e.Endpoint)
	}
	return fmt.Sprintf("jira API error %d on %s: %s", e.StatusCode, e.Endpoint, e.Body)
}

// Client submits worklogs to the Jira Cloud REST API v3. One worklog is
// created per call; the client paces calls with a fixed delay.
type Client struct {
	baseURL      string
	email        string
	apiToken     string
	bearer       bool
	httpClient   *http.Client
	logger       *log.Logger
	requestDelay time.Duration
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the base URL derived from the configuration.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRequestDelay overrides the fixed delay after each attempt.
func WithRequestDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.requestDelay = d
	}
}

// NewClient builds a client from the loaded configuration. HTTPS is the
// only scheme ever derived from it. When cfg.OAuthToken is set the
// client authenticates with a bearer token, routed through the
// api.atlassian.com gateway if cfg.CloudID is present; otherwise it
// uses basic auth against the site domain.
func NewClient(ctx context.Context, cfg config.Config, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      "https://" + cfg.Domain,
		email:        cfg.Email,
		apiToken:     cfg.APIToken,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		logger:       log.New(io.Discard),
		requestDelay: DefaultRequestDelay,
	}

	if cfg.OAuthToken != "" {
		c.bearer = true
		if cfg.CloudID != "" {
			c.baseURL = fmt.Sprintf("%s/%s", cloudGatewayBaseURL, cfg.CloudID)
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.OAuthToken})
		c.httpClient = oauth2.NewClient(ctx, ts)
		c.httpClient.Timeout = DefaultTimeout
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddWorklog creates a worklog on the given issue. HTTP-level
// rejections come back as *APIError; transport failures come back
// wrapped. The fixed request delay runs after every attempt, including
// failed ones.
func (c *Client) AddWorklog(ctx context.Context, ticket string, wl Worklog) (WorklogCreated, error) {
	created, err := c.postWorklog(ctx, ticket, wl)
	c.pause(ctx)
	return created, err
}

func (c *Client) postWorklog(ctx context.Context, ticket string, wl Worklog) (WorklogCreated, error) {
	path := fmt.Sprintf("/rest/api/3/issue/%s/worklog", ticket)

	payload, err := json.Marshal(wl)
	if err != nil {
		return WorklogCreated{}, fmt.Errorf("encoding worklog: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return WorklogCreated{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if !c.bearer {
		req.SetBasicAuth(c.email, c.apiToken)
	}

	c.logger.Debug("submitting worklog",
		"ticket", ticket, "seconds", wl.TimeSpentSeconds, "started", wl.Started)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return WorklogCreated{}, fmt.Errorf("jira request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return WorklogCreated{}, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return WorklogCreated{}, &APIError{
			StatusCode: resp.StatusCode,
			Body:       excerpt(body),
			Endpoint:   path,
		}
	}

	created := WorklogCreated{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, &created); err != nil {
		// A 2xx with an unexpected body is still a created worklog.
		c.logger.Debug("could not decode worklog response", "ticket", ticket, "err", err)
		return created, nil
	}
	c.logger.Debug("worklog created", "ticket", ticket, "id", created.ID)
	return created, nil
}

// pause sleeps the configured request delay, honouring cancellation.
func (c *Client) pause(ctx context.Context) {
	if c.requestDelay <= 0 {
		return
	}
	t := time.NewTimer(c.requestDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// excerpt trims and truncates a response body for error reporting.
func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodyExcerpt {
		s = s[:maxBodyExcerpt] + "..."
	}
	return s
}
