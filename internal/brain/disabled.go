package brain

import (
	"context"
	"errors"
)

// Deployments may run with only one media manager configured. The disabled
// stand-ins keep the executor total: a plan that needs the missing manager
// fails its steps with a clear error instead of crashing.

var (
	errSonarrDisabled = errors.New("sonarr is not configured")
	errRadarrDisabled = errors.New("radarr is not configured")
	errTMDBDisabled   = errors.New("tmdb is not configured")
)

type disabledTV struct{}

func DisabledTVManager() TVManager {
	return disabledTV{}
}

func (disabledTV) DeleteEpisodeFile(context.Context, int64, int, int) (int, error) {
	return 0, errSonarrDisabled
}

func (disabledTV) SearchEpisode(context.Context, int64, int, int) error {
	return errSonarrDisabled
}

type disabledMovies struct{}

func DisabledMovieManager() MovieManager {
	return disabledMovies{}
}

func (disabledMovies) BlocklistLastGrab(context.Context, int64) error {
	return errRadarrDisabled
}

func (disabledMovies) DeleteMovieFiles(context.Context, int64) (int, error) {
	return 0, errRadarrDisabled
}

func (disabledMovies) SearchMovie(context.Context, int64) error {
	return errRadarrDisabled
}

type disabledReleases struct{}

func DisabledReleaseDates() ReleaseDates {
	return disabledReleases{}
}

func (disabledReleases) DigitallyReleased(context.Context, int64) (bool, error) {
	return false, errTMDBDisabled
}
