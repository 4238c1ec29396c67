package brain

import "context"

// TVManager is the slice of Sonarr the executor needs.
type TVManager interface {
	// DeleteEpisodeFile removes the file behind one episode and returns how
	// many files were deleted (0 when none was on disk).
	DeleteEpisodeFile(ctx context.Context, tvdbID int64, season, episode int) (int, error)
	// SearchEpisode triggers a new download search for one episode.
	SearchEpisode(ctx context.Context, tvdbID int64, season, episode int) error
}

// MovieManager is the slice of Radarr the executor needs.
type MovieManager interface {
	// BlocklistLastGrab marks the most recent grab as failed so the same
	// release is not picked again.
	BlocklistLastGrab(ctx context.Context, tmdbID int64) error
	// DeleteMovieFiles removes the movie's files and returns the count.
	DeleteMovieFiles(ctx context.Context, tmdbID int64) (int, error)
	// SearchMovie triggers a new download search for the movie.
	SearchMovie(ctx context.Context, tmdbID int64) error
}

// ReleaseDates answers whether a movie is out digitally yet.
type ReleaseDates interface {
	DigitallyReleased(ctx context.Context, tmdbID int64) (bool, error)
}

// Frontend is the slice of Jellyseerr the executor needs.
type Frontend interface {
	CommentIssue(ctx context.Context, issueID int64, message string) error
	CloseIssue(ctx context.Context, issueID int64) error
}

// Notifier fans an operator notification out to whatever channels are
// configured. Implementations swallow per-channel failures internally.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}
