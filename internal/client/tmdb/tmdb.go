// Package tmdb answers digital-release questions from The Movie Database.
package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/remediarr/remediarr/core/config"
	"github.com/remediarr/remediarr/internal/client"
)

const (
	service = "tmdb"
	baseURL = "https://api.themoviedb.org/3"
)

type Client struct {
	apiKey     string
	httpClient client.HTTPClient

	// now is stubbed in tests.
	now func() time.Time
}

func New(cfg config.TMDBConfig) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
}

// NewWithHTTPClient is for tests.
func NewWithHTTPClient(cfg config.TMDBConfig, httpClient client.HTTPClient, now func() time.Time) *Client {
	c := New(cfg)
	c.httpClient = httpClient
	if now != nil {
		c.now = now
	}
	return c
}

type movieDetails struct {
	ReleaseDate string `json:"release_date"`
}

// DigitallyReleased reports whether the movie's release date has passed.
// A missing release date means not released.
func (c *Client) DigitallyReleased(ctx context.Context, tmdbID int64) (bool, error) {
	var details movieDetails
	err := client.Do(ctx, c.httpClient, service, client.Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/movie/%d", baseURL, tmdbID),
		Query:  map[string]string{"api_key": c.apiKey},
		Out:    &details,
	})
	if err != nil {
		return false, err
	}

	if details.ReleaseDate == "" {
		return false, nil
	}

	released, err := time.Parse("2006-01-02", details.ReleaseDate)
	if err != nil {
		return false, fmt.Errorf("parsing release date %q: %w", details.ReleaseDate, err)
	}

	return !released.After(c.now()), nil
}
