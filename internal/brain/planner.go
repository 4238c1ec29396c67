package brain

import "github.com/remediarr/remediarr/internal/model"

// PhraseSource exposes the configured keyword buckets, used to build
// coaching suggestions.
type PhraseSource interface {
	Phrases(kind model.MediaKind, category model.Category) []string
	Categories(kind model.MediaKind) []model.Category
}

// Planner maps a classified event to an action plan. It is pure: no clock,
// no I/O, same input always yields the same plan.
type Planner struct {
	phrases        PhraseSource
	coachReporters bool
}

func NewPlanner(phrases PhraseSource, coachReporters bool) *Planner {
	return &Planner{
		phrases:        phrases,
		coachReporters: coachReporters,
	}
}

func (p *Planner) Plan(event model.IssueEvent, cls model.Classification) model.ActionPlan {
	plan := model.ActionPlan{
		Kind:           model.ActionNoop,
		Classification: cls,
		IssueID:        event.IssueID,
		Title:          event.Title,
		TVDBID:         event.TVDBID,
		TMDBID:         event.TMDBID,
	}
	if event.Season != nil {
		plan.Season = *event.Season
	}
	if event.Episode != nil {
		plan.Episode = *event.Episode
	}

	if !cls.Matched() {
		if p.coachReporters {
			plan.Kind = model.ActionCoachOnly
			plan.Template = model.TemplateCoach
			plan.CoachKeywords = p.coachKeywords(event)
		}
		return plan
	}

	switch event.MediaKind {
	case model.MediaKindTV:
		if cls.Category == model.CategoryOther {
			plan.Kind = model.ActionTVEpisodeSearchOnly
			plan.Template = model.TemplateTVSearchOnly
			plan.SearchAfterDelete = true
			break
		}
		plan.Kind = model.ActionTVEpisodeReplace
		plan.Template = model.TemplateTVReplaced
		plan.SearchAfterDelete = true

	case model.MediaKindMovie:
		if cls.Category == model.CategoryWrongMedia {
			plan.Kind = model.ActionMovieWrongHandle
			plan.Template = model.TemplateMovieWrong
			break
		}
		plan.Kind = model.ActionMovieGenericHandle
		plan.Template = model.TemplateMovieHandled
		plan.SearchAfterDelete = true
	}

	return plan
}

// coachKeywords suggests phrases the reporter could have used. The bucket
// matching the reporter-selected issue type comes back alone when it exists;
// otherwise every configured bucket for the media kind, in priority order.
func (p *Planner) coachKeywords(event model.IssueEvent) []string {
	if category, ok := categoryForIssueType(event.IssueType); ok {
		if phrases := p.phrases.Phrases(event.MediaKind, category); len(phrases) > 0 {
			return phrases
		}
	}

	var out []string
	for _, category := range p.phrases.Categories(event.MediaKind) {
		out = append(out, p.phrases.Phrases(event.MediaKind, category)...)
	}
	return out
}

func categoryForIssueType(t model.IssueType) (model.Category, bool) {
	switch t {
	case model.IssueTypeAudio:
		return model.CategoryAudio, true
	case model.IssueTypeVideo:
		return model.CategoryVideo, true
	case model.IssueTypeSubtitle:
		return model.CategorySubtitle, true
	case model.IssueTypeOther:
		return model.CategoryOther, true
	}
	return "", false
}
