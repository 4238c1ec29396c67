package dto

import (
	"strconv"
	"strings"
)

// IssueWebhook is the raw Jellyseerr webhook body. Field names follow the
// front end's JSON payload template; numeric fields arrive as numbers,
// quoted strings, or unexpanded "{{placeholder}}" tokens depending on the
// template version, so anything numeric is a FlexInt.
type IssueWebhook struct {
	NotificationType string         `json:"notification_type"`
	Event            string         `json:"event"`
	Subject          string         `json:"subject"`
	Message          string         `json:"message"`
	Media            MediaPayload   `json:"media"`
	Issue            IssuePayload   `json:"issue"`
	Comment          CommentPayload `json:"comment"`
}

type MediaPayload struct {
	MediaType     string  `json:"media_type"`
	TmdbID        FlexInt `json:"tmdbId"`
	TvdbID        FlexInt `json:"tvdbId"`
	ImdbID        string  `json:"imdbId"`
	Title         string  `json:"title"`
	ReleaseYear   FlexInt `json:"releaseYear"`
	SeasonNumber  FlexInt `json:"seasonNumber"`
	EpisodeNumber FlexInt `json:"episodeNumber"`
}

type IssuePayload struct {
	IssueID         FlexInt `json:"issue_id"`
	IssueType       string  `json:"issue_type"`
	IssueStatus     string  `json:"issue_status"`
	AffectedSeason  FlexInt `json:"affected_season"`
	AffectedEpisode FlexInt `json:"affected_episode"`
	ReportedBy      string  `json:"reportedBy_username"`
}

type CommentPayload struct {
	Message     string `json:"comment_message"`
	CommentedBy string `json:"commentedBy_username"`
}

// FlexInt decodes a JSON number, a numeric string, null, or an unexpanded
// template token. Anything unparseable decodes to zero rather than failing
// the whole payload; zero means absent.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "{{") {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(v)
	return nil
}

func (f FlexInt) Int64() int64 {
	return int64(f)
}

func (f FlexInt) Int() int {
	return int(f)
}
