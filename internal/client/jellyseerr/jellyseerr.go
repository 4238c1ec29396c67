// Package jellyseerr posts issue feedback back to the Jellyseerr front end.
package jellyseerr

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/remediarr/remediarr/core/config"
	"github.com/remediarr/remediarr/internal/client"
)

const service = "jellyseerr"

type Client struct {
	baseURL    string
	apiKey     string
	httpClient client.HTTPClient
}

func New(cfg config.JellyseerrConfig) *Client {
	return &Client{
		baseURL:    client.TrimBaseURL(cfg.URL),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// NewWithHTTPClient is for tests.
func NewWithHTTPClient(cfg config.JellyseerrConfig, httpClient client.HTTPClient) *Client {
	c := New(cfg)
	c.httpClient = httpClient
	return c
}

// CommentIssue posts a comment on an issue, tagged with the bot prefix so
// the loop guard recognizes it when it comes back as a webhook. Server
// builds differ on the comment route, so the plural form is tried when the
// primary one 404s.
func (c *Client) CommentIssue(ctx context.Context, issueID int64, message string) error {
	if !strings.HasPrefix(message, config.BotPrefix) {
		message = config.BotPrefix + " " + message
	}

	attempts := []client.Request{
		{
			Method: http.MethodPost,
			URL:    fmt.Sprintf("%s/api/v1/issue/%d/comment", c.baseURL, issueID),
			Body:   map[string]string{"message": message},
		},
		{
			Method: http.MethodPost,
			URL:    fmt.Sprintf("%s/api/v1/issues/%d/comments", c.baseURL, issueID),
			Body:   map[string]string{"message": message},
		},
	}

	err := c.tryVariants(ctx, attempts)
	if err != nil {
		return fmt.Errorf("commenting on issue %d: %w", issueID, err)
	}
	return nil
}

// CloseIssue marks an issue resolved. The status route also varies between
// server builds; each known variant is tried in turn.
func (c *Client) CloseIssue(ctx context.Context, issueID int64) error {
	attempts := []client.Request{
		{
			Method: http.MethodPost,
			URL:    fmt.Sprintf("%s/api/v1/issue/%d/resolved", c.baseURL, issueID),
		},
		{
			Method: http.MethodPost,
			URL:    fmt.Sprintf("%s/api/v1/issue/%d/resolve", c.baseURL, issueID),
			Body:   map[string]string{"status": "resolved"},
		},
		{
			Method: http.MethodPost,
			URL:    fmt.Sprintf("%s/api/v1/issue/%d/status", c.baseURL, issueID),
			Query:  map[string]string{"status": "resolved"},
		},
	}

	err := c.tryVariants(ctx, attempts)
	if err != nil {
		return fmt.Errorf("closing issue %d: %w", issueID, err)
	}
	return nil
}

// Ping checks reachability and credentials against the status endpoint.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return c.do(ctx, client.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/api/v1/status",
	})
}

func (c *Client) tryVariants(ctx context.Context, attempts []client.Request) error {
	var lastErr error
	for _, attempt := range attempts {
		lastErr = c.do(ctx, attempt)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, r client.Request) error {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	r.Headers["X-Api-Key"] = c.apiKey
	r.Headers["Authorization"] = "Bearer " + c.apiKey
	return client.Do(ctx, c.httpClient, service, r)
}
