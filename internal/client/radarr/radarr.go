// Package radarr talks to Radarr's v3 API for movie remediation.
package radarr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/remediarr/remediarr/core/config"
	"github.com/remediarr/remediarr/internal/client"
)

const service = "radarr"

type Client struct {
	baseURL    string
	apiKey     string
	httpClient client.HTTPClient
}

func New(cfg config.ArrConfig) *Client {
	return &Client{
		baseURL:    client.TrimBaseURL(cfg.URL),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// NewWithHTTPClient is for tests.
func NewWithHTTPClient(cfg config.ArrConfig, httpClient client.HTTPClient) *Client {
	c := New(cfg)
	c.httpClient = httpClient
	return c
}

type movie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type movieFile struct {
	ID int64 `json:"id"`
}

type historyRecord struct {
	ID        int64  `json:"id"`
	EventType string `json:"eventType"`
}

// BlocklistLastGrab marks the movie's most recent grab as failed so Radarr
// will not pick the same release again. No grab in history is not an error;
// there is nothing to blocklist then.
func (c *Client) BlocklistLastGrab(ctx context.Context, tmdbID int64) error {
	m, err := c.movieByTMDB(ctx, tmdbID)
	if err != nil {
		return err
	}

	var history []historyRecord
	err = c.do(ctx, client.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/api/v3/history/movie",
		Query:  map[string]string{"movieId": strconv.FormatInt(m.ID, 10)},
		Out:    &history,
	})
	if err != nil {
		return fmt.Errorf("fetching history of movie %d: %w", m.ID, err)
	}

	for _, record := range history {
		if strings.EqualFold(record.EventType, "grabbed") {
			err = c.do(ctx, client.Request{
				Method: http.MethodPost,
				URL:    fmt.Sprintf("%s/api/v3/history/failed/%d", c.baseURL, record.ID),
			})
			if err != nil {
				return fmt.Errorf("marking grab %d failed: %w", record.ID, err)
			}
			return nil
		}
	}

	return nil
}

// DeleteMovieFiles removes every file attached to the movie and returns the
// count.
func (c *Client) DeleteMovieFiles(ctx context.Context, tmdbID int64) (int, error) {
	m, err := c.movieByTMDB(ctx, tmdbID)
	if err != nil {
		return 0, err
	}

	var files []movieFile
	err = c.do(ctx, client.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/api/v3/moviefile",
		Query:  map[string]string{"movieId": strconv.FormatInt(m.ID, 10)},
		Out:    &files,
	})
	if err != nil {
		return 0, fmt.Errorf("listing files of movie %d: %w", m.ID, err)
	}

	deleted := 0
	for _, f := range files {
		err = c.do(ctx, client.Request{
			Method: http.MethodDelete,
			URL:    fmt.Sprintf("%s/api/v3/moviefile/%d", c.baseURL, f.ID),
		})
		if err != nil {
			return deleted, fmt.Errorf("deleting movie file %d: %w", f.ID, err)
		}
		deleted++
	}

	return deleted, nil
}

// SearchMovie triggers a search command for the movie. Older Radarr builds
// only know the singular MovieSearch command name, so a rejected MoviesSearch
// is retried with the old name.
func (c *Client) SearchMovie(ctx context.Context, tmdbID int64) error {
	m, err := c.movieByTMDB(ctx, tmdbID)
	if err != nil {
		return err
	}

	err = c.searchCommand(ctx, "MoviesSearch", m.ID)
	if err == nil {
		return nil
	}

	var statusErr *client.StatusError
	if errors.As(err, &statusErr) && statusErr.Status >= 400 && statusErr.Status < 500 {
		if fallbackErr := c.searchCommand(ctx, "MovieSearch", m.ID); fallbackErr == nil {
			return nil
		}
	}

	return fmt.Errorf("triggering movie search: %w", err)
}

// Ping checks reachability and credentials against the system status
// endpoint.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return c.do(ctx, client.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/api/v3/system/status",
	})
}

func (c *Client) searchCommand(ctx context.Context, name string, movieID int64) error {
	return c.do(ctx, client.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/api/v3/command",
		Body: map[string]any{
			"name":     name,
			"movieIds": []int64{movieID},
		},
	})
}

func (c *Client) movieByTMDB(ctx context.Context, tmdbID int64) (movie, error) {
	var found []movie
	err := c.do(ctx, client.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/api/v3/movie",
		Query:  map[string]string{"tmdbId": strconv.FormatInt(tmdbID, 10)},
		Out:    &found,
	})
	if err != nil {
		return movie{}, fmt.Errorf("looking up movie by tmdb id %d: %w", tmdbID, err)
	}
	if len(found) == 0 {
		return movie{}, fmt.Errorf("no movie with tmdb id %d", tmdbID)
	}
	return found[0], nil
}

func (c *Client) do(ctx context.Context, r client.Request) error {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	r.Headers["X-Api-Key"] = c.apiKey
	return client.Do(ctx, c.httpClient, service, r)
}
