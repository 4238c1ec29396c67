package brain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/remediarr/remediarr/internal/brain"
	"github.com/remediarr/remediarr/internal/classify"
	"github.com/remediarr/remediarr/internal/model"
)

var _ = Describe("Planner", func() {
	phrases := classify.New([]model.KeywordSet{
		{MediaKind: model.MediaKindTV, Category: model.CategoryAudio, Phrases: []string{"no audio"}},
		{MediaKind: model.MediaKindTV, Category: model.CategoryVideo, Phrases: []string{"bad video"}},
		{MediaKind: model.MediaKindMovie, Category: model.CategoryWrongMedia, Phrases: []string{"wrong movie"}},
		{MediaKind: model.MediaKindMovie, Category: model.CategoryAudio, Phrases: []string{"no audio"}},
	}, []model.Category{
		model.CategoryWrongMedia,
		model.CategorySubtitle,
		model.CategoryVideo,
		model.CategoryAudio,
		model.CategoryOther,
	})

	tvEvent := func() model.IssueEvent {
		season, episode := 2, 5
		return model.IssueEvent{
			Kind:      model.EventIssueReported,
			IssueID:   7,
			MediaKind: model.MediaKindTV,
			TVDBID:    121361,
			Title:     "Breaking Bad",
			Season:    &season,
			Episode:   &episode,
		}
	}

	movieEvent := func() model.IssueEvent {
		return model.IssueEvent{
			Kind:      model.EventIssueReported,
			IssueID:   8,
			MediaKind: model.MediaKindMovie,
			TMDBID:    550,
			Title:     "Fight Club",
		}
	}

	matched := func(kind model.MediaKind, category model.Category) model.Classification {
		return model.Classification{MediaKind: kind, Category: category, MatchedKeyword: "x"}
	}

	var p *brain.Planner

	BeforeEach(func() {
		p = brain.NewPlanner(phrases, true)
	})

	DescribeTable("matched classifications",
		func(event model.IssueEvent, category model.Category, kind model.ActionKind, tmpl model.TemplateName, search bool) {
			plan := p.Plan(event, matched(event.MediaKind, category))
			Expect(plan.Kind).To(Equal(kind))
			Expect(plan.Template).To(Equal(tmpl))
			Expect(plan.SearchAfterDelete).To(Equal(search))
		},
		Entry("tv audio replaces the episode",
			tvEvent(), model.CategoryAudio, model.ActionTVEpisodeReplace, model.TemplateTVReplaced, true),
		Entry("tv video replaces the episode",
			tvEvent(), model.CategoryVideo, model.ActionTVEpisodeReplace, model.TemplateTVReplaced, true),
		Entry("tv subtitle replaces the episode",
			tvEvent(), model.CategorySubtitle, model.ActionTVEpisodeReplace, model.TemplateTVReplaced, true),
		Entry("tv other searches only",
			tvEvent(), model.CategoryOther, model.ActionTVEpisodeSearchOnly, model.TemplateTVSearchOnly, true),
		Entry("movie audio handles generically",
			movieEvent(), model.CategoryAudio, model.ActionMovieGenericHandle, model.TemplateMovieHandled, true),
		Entry("movie other handles generically",
			movieEvent(), model.CategoryOther, model.ActionMovieGenericHandle, model.TemplateMovieHandled, true),
		Entry("wrong movie gates its search",
			movieEvent(), model.CategoryWrongMedia, model.ActionMovieWrongHandle, model.TemplateMovieWrong, false),
	)

	It("copies identifiers, season and episode into the plan", func() {
		plan := p.Plan(tvEvent(), matched(model.MediaKindTV, model.CategoryAudio))
		Expect(plan.IssueID).To(Equal(int64(7)))
		Expect(plan.TVDBID).To(Equal(int64(121361)))
		Expect(plan.Season).To(Equal(2))
		Expect(plan.Episode).To(Equal(5))
		Expect(plan.Title).To(Equal("Breaking Bad"))
	})

	It("is deterministic", func() {
		event := movieEvent()
		cls := matched(model.MediaKindMovie, model.CategoryWrongMedia)
		Expect(p.Plan(event, cls)).To(Equal(p.Plan(event, cls)))
	})

	Describe("unmatched classifications", func() {
		none := func(kind model.MediaKind) model.Classification {
			return model.Classification{MediaKind: kind, Category: model.CategoryNone}
		}

		It("coaches with the reporter-selected bucket", func() {
			event := tvEvent()
			event.IssueType = model.IssueTypeAudio

			plan := p.Plan(event, none(model.MediaKindTV))
			Expect(plan.Kind).To(Equal(model.ActionCoachOnly))
			Expect(plan.Template).To(Equal(model.TemplateCoach))
			Expect(plan.CoachKeywords).To(Equal([]string{"no audio"}))
		})

		It("coaches with every bucket when no issue type is set", func() {
			plan := p.Plan(tvEvent(), none(model.MediaKindTV))
			Expect(plan.CoachKeywords).To(Equal([]string{"bad video", "no audio"}))
		})

		It("falls back to noop when coaching is off", func() {
			quiet := brain.NewPlanner(phrases, false)
			plan := quiet.Plan(tvEvent(), none(model.MediaKindTV))
			Expect(plan.Kind).To(Equal(model.ActionNoop))
		})
	})
})
