// Package client holds the shared plumbing for the downstream REST clients.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPClient is the slice of *http.Client the API clients depend on, so
// tests can substitute a stub transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is a non-2xx response from a downstream service.
type StatusError struct {
	Service string
	Status  int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Body)
}

// Request describes one downstream call for Do.
type Request struct {
	Method  string
	URL     string
	Query   map[string]string
	Headers map[string]string
	Body    any
	// Out, when non-nil, receives the decoded JSON response body.
	Out any
}

// Do performs a JSON request and decodes the response. Non-2xx statuses come
// back as *StatusError with a truncated body for diagnostics.
func Do(ctx context.Context, httpClient HTTPClient, service string, r Request) error {
	var body io.Reader
	if r.Body != nil {
		encoded, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("encoding %s request body: %w", service, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return fmt.Errorf("building %s request: %w", service, err)
	}

	if len(r.Query) > 0 {
		q := req.URL.Query()
		for k, v := range r.Query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Service: service,
			Status:  resp.StatusCode,
			Body:    strings.TrimSpace(string(snippet)),
		}
	}

	if r.Out != nil {
		if err := json.NewDecoder(resp.Body).Decode(r.Out); err != nil {
			return fmt.Errorf("decoding %s response: %w", service, err)
		}
	}

	return nil
}

// TrimBaseURL normalizes a configured base URL for path joining.
func TrimBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
