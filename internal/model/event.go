package model

type MediaKind string

type EventKind string

type IssueStatus string

type IssueType string

const (
	MediaKindTV    MediaKind = "tv"
	MediaKindMovie MediaKind = "movie"
)

const (
	EventIssueReported  EventKind = "issue_reported"
	EventIssueCommented EventKind = "issue_commented"
	EventIssueResolved  EventKind = "issue_resolved"
	EventIssueReopened  EventKind = "issue_reopened"
	EventUnknown        EventKind = "unknown"
)

const (
	IssueStatusOpen     IssueStatus = "open"
	IssueStatusResolved IssueStatus = "resolved"
	IssueStatusClosed   IssueStatus = "closed"
	IssueStatusUnknown  IssueStatus = "unknown"
)

// IssueType is the reporter-selected category on the front end. It drives
// coaching only; remediation decisions come from keyword classification.
const (
	IssueTypeAudio    IssueType = "audio"
	IssueTypeVideo    IssueType = "video"
	IssueTypeSubtitle IssueType = "subtitle"
	IssueTypeOther    IssueType = "other"
	IssueTypeNone     IssueType = ""
)

// IssueEvent is the canonical form of one inbound webhook delivery. It lives
// for a single request and is never persisted.
type IssueEvent struct {
	Kind        EventKind   `json:"kind"`
	IssueID     int64       `json:"issue_id"`
	IssueStatus IssueStatus `json:"issue_status"`
	IssueType   IssueType   `json:"issue_type"`

	MediaKind MediaKind `json:"media_kind"`
	TVDBID    int64     `json:"tvdb_id,omitempty"`
	TMDBID    int64     `json:"tmdb_id,omitempty"`
	IMDBID    string    `json:"imdb_id,omitempty"`

	Title   string `json:"title,omitempty"`
	Year    int    `json:"year,omitempty"`
	Season  *int   `json:"season,omitempty"`
	Episode *int   `json:"episode,omitempty"`

	Subject     string `json:"subject,omitempty"`
	Message     string `json:"message,omitempty"`
	CommentText string `json:"comment_text,omitempty"`
	CommentedBy string `json:"commented_by,omitempty"`
}

// Text returns the free text the classifier matches against: the comment
// when present, otherwise subject and message.
func (e IssueEvent) Text() string {
	if e.CommentText != "" {
		return e.CommentText
	}
	return e.Subject + " " + e.Message
}
