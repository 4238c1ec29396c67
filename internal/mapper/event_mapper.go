package mapper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/remediarr/remediarr/internal/http/dto"
	"github.com/remediarr/remediarr/internal/model"
)

// EventMapper normalizes a raw webhook payload into a canonical IssueEvent.
// It is pure; validation failures come back as *model.ValidationError.
type EventMapper struct{}

func NewEventMapper() *EventMapper {
	return &EventMapper{}
}

var (
	seasonEpisodeRe = regexp.MustCompile(`(?i)\bS(\d{1,3})\s*E(\d{1,3})\b`)
	seasonWordRe    = regexp.MustCompile(`(?i)\bseason\s+(\d{1,3})\b`)
	episodeWordRe   = regexp.MustCompile(`(?i)\bepisode\s+(\d{1,3})\b`)
	titleYearRe     = regexp.MustCompile(`^(.+?)\s*\((\d{4})\)`)
)

func (m *EventMapper) Map(payload dto.IssueWebhook) (model.IssueEvent, error) {
	event := model.IssueEvent{
		Kind:        mapEventKind(payload.NotificationType, payload.Event),
		IssueID:     payload.Issue.IssueID.Int64(),
		IssueStatus: mapIssueStatus(payload.Issue.IssueStatus),
		IssueType:   mapIssueType(payload.Issue.IssueType),
		TVDBID:      payload.Media.TvdbID.Int64(),
		TMDBID:      payload.Media.TmdbID.Int64(),
		IMDBID:      normalizeIMDB(payload.Media.ImdbID),
		Subject:     strings.TrimSpace(payload.Subject),
		Message:     strings.TrimSpace(payload.Message),
		CommentText: strings.TrimSpace(payload.Comment.Message),
		CommentedBy: strings.TrimSpace(payload.Comment.CommentedBy),
	}

	event.Title, event.Year = extractTitleYear(payload)

	kind, err := resolveMediaKind(payload)
	if err != nil {
		return model.IssueEvent{}, err
	}
	event.MediaKind = kind

	season, episode := resolveSeasonEpisode(payload)
	event.Season = season
	event.Episode = episode

	if kind == model.MediaKindTV && (season == nil || episode == nil) {
		return model.IssueEvent{}, model.NewValidationError("season_episode",
			"season/episode not present in structured fields and not extractable from text")
	}

	return event, nil
}

func mapEventKind(notificationType, eventText string) model.EventKind {
	switch strings.ToUpper(strings.TrimSpace(notificationType)) {
	case "ISSUE_CREATED":
		return model.EventIssueReported
	case "ISSUE_COMMENT":
		return model.EventIssueCommented
	case "ISSUE_RESOLVED":
		return model.EventIssueResolved
	case "ISSUE_REOPENED":
		return model.EventIssueReopened
	}

	// Older payload templates only carry a human-readable event string.
	lower := strings.ToLower(eventText)
	switch {
	case strings.Contains(lower, "comment"):
		return model.EventIssueCommented
	case strings.Contains(lower, "resolved"):
		return model.EventIssueResolved
	case strings.Contains(lower, "reopen"):
		return model.EventIssueReopened
	case strings.Contains(lower, "issue"):
		return model.EventIssueReported
	}
	return model.EventUnknown
}

func mapIssueStatus(raw string) model.IssueStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "open", "":
		return model.IssueStatusOpen
	case "resolved":
		return model.IssueStatusResolved
	case "closed":
		return model.IssueStatusClosed
	}
	return model.IssueStatusUnknown
}

func mapIssueType(raw string) model.IssueType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "audio":
		return model.IssueTypeAudio
	case "video":
		return model.IssueTypeVideo
	case "subtitle", "subtitles":
		return model.IssueTypeSubtitle
	case "other":
		return model.IssueTypeOther
	}
	return model.IssueTypeNone
}

func resolveMediaKind(payload dto.IssueWebhook) (model.MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(payload.Media.MediaType)) {
	case "tv", "show", "series":
		return model.MediaKindTV, nil
	case "movie":
		return model.MediaKindMovie, nil
	}

	// No explicit kind: infer from which external id is populated.
	if payload.Media.TvdbID != 0 {
		return model.MediaKindTV, nil
	}
	if payload.Media.TmdbID != 0 {
		return model.MediaKindMovie, nil
	}

	return "", model.NewValidationError("media_type", "media kind undeterminable: no media_type and no external id")
}

// resolveSeasonEpisode prefers structured fields, then scans subject, message
// and comment for an SxxEyy pattern, then for "season N" / "episode M" prose.
// The first match wins.
func resolveSeasonEpisode(payload dto.IssueWebhook) (*int, *int) {
	var season, episode *int

	if v := payload.Media.SeasonNumber.Int(); v != 0 {
		season = &v
	}
	if v := payload.Issue.AffectedSeason.Int(); season == nil && v != 0 {
		season = &v
	}
	if v := payload.Media.EpisodeNumber.Int(); v != 0 {
		episode = &v
	}
	if v := payload.Issue.AffectedEpisode.Int(); episode == nil && v != 0 {
		episode = &v
	}

	if season != nil && episode != nil {
		return season, episode
	}

	text := strings.Join([]string{payload.Subject, payload.Message, payload.Comment.Message}, " ")

	if m := seasonEpisodeRe.FindStringSubmatch(text); m != nil {
		s, _ := strconv.Atoi(m[1])
		e, _ := strconv.Atoi(m[2])
		if season == nil {
			season = &s
		}
		if episode == nil {
			episode = &e
		}
		return season, episode
	}

	if season == nil {
		if m := seasonWordRe.FindStringSubmatch(text); m != nil {
			s, _ := strconv.Atoi(m[1])
			season = &s
		}
	}
	if episode == nil {
		if m := episodeWordRe.FindStringSubmatch(text); m != nil {
			e, _ := strconv.Atoi(m[1])
			episode = &e
		}
	}

	return season, episode
}

func normalizeIMDB(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" {
		return ""
	}
	if !strings.HasPrefix(id, "tt") {
		return "tt" + id
	}
	return id
}

// extractTitleYear takes the media title when present, otherwise parses a
// "Title (2024)" prefix out of the subject line.
func extractTitleYear(payload dto.IssueWebhook) (string, int) {
	title := strings.TrimSpace(payload.Media.Title)
	year := payload.Media.ReleaseYear.Int()

	if title != "" {
		return title, year
	}

	if m := titleYearRe.FindStringSubmatch(payload.Subject); m != nil {
		title = strings.TrimSpace(m[1])
		if y, err := strconv.Atoi(m[2]); err == nil {
			year = y
		}
		return title, year
	}

	return strings.TrimSpace(payload.Subject), year
}
