package model

type ActionKind string

const (
	ActionTVEpisodeReplace    ActionKind = "tv_episode_replace"
	ActionTVEpisodeSearchOnly ActionKind = "tv_episode_search_only"
	ActionMovieGenericHandle  ActionKind = "movie_generic_handle"
	ActionMovieWrongHandle    ActionKind = "movie_wrong_handle"
	ActionCoachOnly           ActionKind = "coach_only"
	ActionNoop                ActionKind = "noop"
)

// ActionPlan is the decision engine's output: one remediation action plus
// the identifiers and messaging the executor needs to carry it out. The same
// classification and event always produce the same plan.
type ActionPlan struct {
	Kind           ActionKind     `json:"kind"`
	Classification Classification `json:"classification"`

	IssueID int64  `json:"issue_id"`
	Title   string `json:"title,omitempty"`

	TVDBID  int64 `json:"tvdb_id,omitempty"`
	Season  int   `json:"season,omitempty"`
	Episode int   `json:"episode,omitempty"`
	TMDBID  int64 `json:"tmdb_id,omitempty"`

	// SearchAfterDelete is false only for plans whose search is gated (wrong
	// movie pending the release-date check) or skipped (coach/noop).
	SearchAfterDelete bool `json:"search_after_delete"`

	// Template is the comment template family the executor renders on success.
	Template TemplateName `json:"template,omitempty"`

	// CoachKeywords carries the suggested phrases for a coaching comment.
	CoachKeywords []string `json:"coach_keywords,omitempty"`
}

type TemplateName string

const (
	TemplateTVReplaced       TemplateName = "tv_replaced"
	TemplateTVSearchOnly     TemplateName = "tv_search_only"
	TemplateMovieHandled     TemplateName = "movie_handled"
	TemplateMovieWrong       TemplateName = "movie_wrong"
	TemplateMovieNotSearched TemplateName = "movie_not_searched"
	TemplateCoach            TemplateName = "coach"
	TemplateRemediationFail  TemplateName = "remediation_failed"
	TemplateAutoCloseFail    TemplateName = "autoclose_fail"
)
