// Package sonarr talks to Sonarr's v3 API for episode remediation.
package sonarr

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/remediarr/remediarr/core/config"
	"github.com/remediarr/remediarr/internal/client"
)

const service = "sonarr"

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

type series struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type episode struct {
	ID            int64 `json:"id"`
	SeasonNumber  int   `json:"seasonNumber"`
	EpisodeNumber int   `json:"episodeNumber"`
	EpisodeFileID int64 `json:"episodeFileId"`
	HasFile       bool  `json:"hasFile"`
}

// DeleteEpisodeFile resolves the series by tvdb id, locates the episode and
// deletes its file. Returns 0 when the episode has no file on disk.
func (c *Client) DeleteEpisodeFile(ctx context.Context, tvdbID int64, season, episodeNum int) (int, error) {
	ep, err := c.findEpisode(ctx, tvdbID, season, episodeNum)
	if err != nil {
		return 0, err
	}

	if !ep.HasFile || ep.EpisodeFileID == 0 {
		return 0, nil
	}

	err = c.do(ctx, client.Request{
		Method: http.MethodDelete,
		URL:    fmt.Sprintf("%s/api/v3/episodefile/%d", c.baseURL, ep.EpisodeFileID),
	})
	if err != nil {
		return 0, fmt.Errorf("deleting episode file %d: %w", ep.EpisodeFileID, err)
	}
	return 1, nil
}

// SearchEpisode triggers an EpisodeSearch command for the episode.
func (c *Client) SearchEpisode(ctx context.Context, tvdbID int64, season, episodeNum int) error {
	ep, err := c.findEpisode(ctx, tvdbID, season, episodeNum)
	if err != nil {
		return err
	}

	err = c.do(ctx, client.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/api/v3/command",
		Body: map[string]any{
			"name":       "EpisodeSearch",
			"episodeIds": []int64{ep.ID},
		},
	})
	if err != nil {
		return fmt.Errorf("triggering episode search: %w", err)
	}
	return nil
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

func (c *Client) findEpisode(ctx context.Context, tvdbID int64, season, episodeNum int) (episode, error) {
	var found []series
	err := c.do(ctx, client.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/api/v3/series",
		Query:  map[string]string{"tvdbId": strconv.FormatInt(tvdbID, 10)},
		Out:    &found,
	})
	if err != nil {
		return episode{}, fmt.Errorf("looking up series by tvdb id %d: %w", tvdbID, err)
	}
	if len(found) == 0 {
		return episode{}, fmt.Errorf("no series with tvdb id %d", tvdbID)
	}

	var episodes []episode
	err = c.do(ctx, client.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/api/v3/episode",
		Query: map[string]string{
			"seriesId":     strconv.FormatInt(found[0].ID, 10),
			"seasonNumber": strconv.Itoa(season),
		},
		Out: &episodes,
	})
	if err != nil {
		return episode{}, fmt.Errorf("listing episodes of series %d: %w", found[0].ID, err)
	}

	for _, ep := range episodes {
		if ep.EpisodeNumber == episodeNum {
			return ep, nil
		}
	}
	return episode{}, fmt.Errorf("episode S%02dE%02d not found in series %d", season, episodeNum, found[0].ID)
}

func (c *Client) do(ctx context.Context, r client.Request) error {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	r.Headers["X-Api-Key"] = c.apiKey
	return client.Do(ctx, c.httpClient, service, r)
}
