// Package notify fans operator notifications out to Gotify and Apprise.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/remediarr/remediarr/core/config"
	"github.com/remediarr/remediarr/internal/client"
)

// Notifier sends to every configured channel. A channel failure is logged
// and does not stop the others; the call errors only when every channel
// failed.
type Notifier struct {
	gotify     config.GotifyConfig
	apprise    config.AppriseConfig
	httpClient client.HTTPClient
}

func New(gotify config.GotifyConfig, apprise config.AppriseConfig) *Notifier {
	return &Notifier{
		gotify:     gotify,
		apprise:    apprise,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// NewWithHTTPClient is for tests.
func NewWithHTTPClient(gotify config.GotifyConfig, apprise config.AppriseConfig, httpClient client.HTTPClient) *Notifier {
	n := New(gotify, apprise)
	n.httpClient = httpClient
	return n
}

// Enabled reports whether any channel is configured.
func (n *Notifier) Enabled() bool {
	return n.gotify.Enabled() || n.apprise.Enabled()
}

func (n *Notifier) Notify(ctx context.Context, title, message string) error {
	attempted, failed := 0, 0

	if n.gotify.Enabled() {
		attempted++
		if err := n.sendGotify(ctx, title, message); err != nil {
			slog.WarnContext(ctx, "gotify notification failed", "error", err)
			failed++
		}
	}

	if n.apprise.Enabled() {
		attempted++
		if err := n.sendApprise(ctx, title, message); err != nil {
			slog.WarnContext(ctx, "apprise notification failed", "error", err)
			failed++
		}
	}

	if attempted > 0 && failed == attempted {
		return fmt.Errorf("all %d notification channels failed", attempted)
	}
	return nil
}

func (n *Notifier) sendGotify(ctx context.Context, title, message string) error {
	return client.Do(ctx, n.httpClient, "gotify", client.Request{
		Method: http.MethodPost,
		URL:    client.TrimBaseURL(n.gotify.URL) + "/message",
		Query:  map[string]string{"token": n.gotify.Token},
		Body: map[string]any{
			"title":    title,
			"message":  message,
			"priority": n.gotify.Priority,
		},
	})
}

func (n *Notifier) sendApprise(ctx context.Context, title, message string) error {
	return client.Do(ctx, n.httpClient, "apprise", client.Request{
		Method: http.MethodPost,
		URL:    client.TrimBaseURL(n.apprise.URL) + "/notify",
		Body: map[string]any{
			"title": title,
			"body":  message,
			"type":  "info",
			"urls":  n.apprise.Targets,
		},
	})
}
