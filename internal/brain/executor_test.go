package brain_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/remediarr/remediarr/internal/brain"
	"github.com/remediarr/remediarr/internal/model"
	"github.com/remediarr/remediarr/internal/template"
)

var _ = Describe("Executor", func() {
	var (
		tv       *mockTVManager
		movies   *mockMovieManager
		releases *mockReleaseDates
		frontend *mockFrontend
		notifier *mockNotifier
		opts     brain.Options
	)

	templates := map[model.TemplateName]string{
		model.TemplateTVReplaced:       "{title} S{season}E{episode} – deleted file and re-download started.",
		model.TemplateTVSearchOnly:     "{title} S{season}E{episode} – search triggered (no delete).",
		model.TemplateMovieHandled:     "{title}: deleted {deleted} file(s), search started.",
		model.TemplateMovieWrong:       "Wrong movie: {title}. Deleted {deleted} file(s), search started.",
		model.TemplateMovieNotSearched: "Wrong movie: {title}. Not searching (not digitally released).",
		model.TemplateCoach:            "Tip: use one of: {keywords}.",
		model.TemplateRemediationFail:  "{title}: automated remediation did not fully succeed.",
		model.TemplateAutoCloseFail:    "Could not auto-close this issue.",
	}

	BeforeEach(func() {
		tv = &mockTVManager{
			DeleteEpisodeFileFunc: func(context.Context, int64, int, int) (int, error) { return 1, nil },
			SearchEpisodeFunc:     func(context.Context, int64, int, int) error { return nil },
		}
		movies = &mockMovieManager{
			BlocklistLastGrabFunc: func(context.Context, int64) error { return nil },
			DeleteMovieFilesFunc:  func(context.Context, int64) (int, error) { return 2, nil },
			SearchMovieFunc:       func(context.Context, int64) error { return nil },
		}
		releases = &mockReleaseDates{
			DigitallyReleasedFunc: func(context.Context, int64) (bool, error) { return true, nil },
		}
		frontend = &mockFrontend{}
		notifier = &mockNotifier{}
		opts = brain.Options{
			EnableBlocklist:      true,
			CommentOnAction:      true,
			CloseIssues:          true,
			SearchOnlyIfReleased: true,
		}
	})

	newExecutor := func() *brain.Executor {
		return brain.NewExecutor(tv, movies, releases, frontend, notifier,
			template.NewRenderer(templates), opts)
	}

	tvPlan := func(kind model.ActionKind, tmpl model.TemplateName) model.ActionPlan {
		return model.ActionPlan{
			Kind:              kind,
			IssueID:           7,
			Title:             "Breaking Bad",
			TVDBID:            121361,
			Season:            2,
			Episode:           5,
			SearchAfterDelete: true,
			Template:          tmpl,
		}
	}

	moviePlan := func(kind model.ActionKind, tmpl model.TemplateName, search bool) model.ActionPlan {
		return model.ActionPlan{
			Kind:              kind,
			IssueID:           8,
			Title:             "Fight Club",
			TMDBID:            550,
			SearchAfterDelete: search,
			Template:          tmpl,
		}
	}

	Describe("tv episode replace", func() {
		It("deletes, searches, comments, closes and notifies", func() {
			outcome := newExecutor().Execute(context.Background(),
				tvPlan(model.ActionTVEpisodeReplace, model.TemplateTVReplaced))

			Expect(outcome.Remediated).To(BeTrue())
			Expect(outcome.Searched).To(BeTrue())
			Expect(outcome.Closed).To(BeTrue())
			Expect(outcome.DeletedFiles).To(Equal(1))
			Expect(frontend.comments).To(ContainElement(
				"Breaking Bad S02E05 – deleted file and re-download started."))
			Expect(frontend.closed).To(Equal([]int64{7}))
			Expect(notifier.messages).To(HaveLen(1))
		})

		It("still searches when the delete fails and reports the failure", func() {
			tv.DeleteEpisodeFileFunc = func(context.Context, int64, int, int) (int, error) {
				return 0, errors.New("episode file not found")
			}

			outcome := newExecutor().Execute(context.Background(),
				tvPlan(model.ActionTVEpisodeReplace, model.TemplateTVReplaced))

			Expect(outcome.Remediated).To(BeFalse())
			Expect(outcome.Searched).To(BeTrue())
			Expect(outcome.Closed).To(BeFalse())

			deleteStep, _ := outcome.StepFor(model.StepDelete)
			Expect(deleteStep.Error).To(ContainSubstring("not found"))
			closeStep, _ := outcome.StepFor(model.StepClose)
			Expect(closeStep.Skipped).To(BeTrue())
			Expect(frontend.comments).To(ContainElement(
				"Breaking Bad: automated remediation did not fully succeed."))
		})
	})

	Describe("tv search only", func() {
		It("skips the delete and searches", func() {
			outcome := newExecutor().Execute(context.Background(),
				tvPlan(model.ActionTVEpisodeSearchOnly, model.TemplateTVSearchOnly))

			Expect(outcome.Remediated).To(BeTrue())
			deleteStep, _ := outcome.StepFor(model.StepDelete)
			Expect(deleteStep.Skipped).To(BeTrue())
			Expect(frontend.comments).To(ContainElement(
				"Breaking Bad S02E05 – search triggered (no delete)."))
		})
	})

	Describe("generic movie handling", func() {
		It("blocklists, deletes, searches and comments with the file count", func() {
			outcome := newExecutor().Execute(context.Background(),
				moviePlan(model.ActionMovieGenericHandle, model.TemplateMovieHandled, true))

			Expect(outcome.Remediated).To(BeTrue())
			Expect(outcome.DeletedFiles).To(Equal(2))
			Expect(frontend.comments).To(ContainElement(
				"Fight Club: deleted 2 file(s), search started."))
		})

		It("skips blocklisting when disabled without failing the remediation", func() {
			opts.EnableBlocklist = false

			outcome := newExecutor().Execute(context.Background(),
				moviePlan(model.ActionMovieGenericHandle, model.TemplateMovieHandled, true))

			Expect(outcome.Remediated).To(BeTrue())
			step, _ := outcome.StepFor(model.StepBlocklist)
			Expect(step.Skipped).To(BeTrue())
		})
	})

	Describe("wrong movie handling", func() {
		It("searches when the movie is digitally released", func() {
			outcome := newExecutor().Execute(context.Background(),
				moviePlan(model.ActionMovieWrongHandle, model.TemplateMovieWrong, false))

			Expect(outcome.Remediated).To(BeTrue())
			Expect(outcome.Searched).To(BeTrue())
			Expect(frontend.comments).To(ContainElement(
				"Wrong movie: Fight Club. Deleted 2 file(s), search started."))
		})

		It("withholds the search when the movie is not out yet", func() {
			releases.DigitallyReleasedFunc = func(context.Context, int64) (bool, error) { return false, nil }

			outcome := newExecutor().Execute(context.Background(),
				moviePlan(model.ActionMovieWrongHandle, model.TemplateMovieWrong, false))

			Expect(outcome.Remediated).To(BeTrue())
			Expect(outcome.Searched).To(BeFalse())
			searchStep, _ := outcome.StepFor(model.StepSearch)
			Expect(searchStep.Skipped).To(BeTrue())
			Expect(frontend.comments).To(ContainElement(
				"Wrong movie: Fight Club. Not searching (not digitally released)."))
		})

		It("withholds the search when the release check errors", func() {
			releases.DigitallyReleasedFunc = func(context.Context, int64) (bool, error) {
				return false, errors.New("tmdb unavailable")
			}

			outcome := newExecutor().Execute(context.Background(),
				moviePlan(model.ActionMovieWrongHandle, model.TemplateMovieWrong, false))

			Expect(outcome.Searched).To(BeFalse())
			step, _ := outcome.StepFor(model.StepReleaseCheck)
			Expect(step.Error).To(ContainSubstring("tmdb unavailable"))
		})

		It("searches unconditionally when release gating is disabled", func() {
			opts.SearchOnlyIfReleased = false
			releases.DigitallyReleasedFunc = func(context.Context, int64) (bool, error) {
				panic("release check must not be consulted")
			}

			outcome := newExecutor().Execute(context.Background(),
				moviePlan(model.ActionMovieWrongHandle, model.TemplateMovieWrong, false))

			Expect(outcome.Searched).To(BeTrue())
		})
	})

	Describe("coaching", func() {
		It("posts the keyword suggestions and nothing else", func() {
			plan := model.ActionPlan{
				Kind:          model.ActionCoachOnly,
				IssueID:       9,
				Title:         "Fight Club",
				Template:      model.TemplateCoach,
				CoachKeywords: []string{"no audio", "wrong movie"},
			}

			outcome := newExecutor().Execute(context.Background(), plan)

			Expect(frontend.comments).To(Equal([]string{"Tip: use one of: no audio, wrong movie."}))
			Expect(frontend.closed).To(BeEmpty())
			Expect(notifier.messages).To(BeEmpty())
			Expect(outcome.Remediated).To(BeFalse())
		})
	})

	Describe("noop", func() {
		It("touches nothing", func() {
			outcome := newExecutor().Execute(context.Background(), model.ActionPlan{Kind: model.ActionNoop})
			Expect(outcome.Steps).To(BeEmpty())
			Expect(frontend.comments).To(BeEmpty())
		})
	})

	Describe("feedback steps", func() {
		It("skips commenting when disabled", func() {
			opts.CommentOnAction = false

			outcome := newExecutor().Execute(context.Background(),
				tvPlan(model.ActionTVEpisodeReplace, model.TemplateTVReplaced))

			step, _ := outcome.StepFor(model.StepComment)
			Expect(step.Skipped).To(BeTrue())
			Expect(frontend.closed).To(Equal([]int64{7}))
		})

		It("posts a fallback comment when auto-close fails", func() {
			frontend.CloseIssueFunc = func(context.Context, int64) error {
				return errors.New("close rejected")
			}

			outcome := newExecutor().Execute(context.Background(),
				tvPlan(model.ActionTVEpisodeReplace, model.TemplateTVReplaced))

			Expect(outcome.Closed).To(BeFalse())
			Expect(frontend.comments).To(ContainElement("Could not auto-close this issue."))
		})

		It("posts the close message before closing when configured", func() {
			opts.CloseMessage = "[Remediarr] Closing: the reported problem was handled automatically."

			newExecutor().Execute(context.Background(),
				tvPlan(model.ActionTVEpisodeReplace, model.TemplateTVReplaced))

			Expect(frontend.comments).To(ContainElement(
				"[Remediarr] Closing: the reported problem was handled automatically."))
			Expect(frontend.closed).To(Equal([]int64{7}))
		})

		It("records a notify failure without affecting the remediation", func() {
			notifier.NotifyFunc = func(context.Context, string, string) error {
				return errors.New("gotify down")
			}

			outcome := newExecutor().Execute(context.Background(),
				tvPlan(model.ActionTVEpisodeReplace, model.TemplateTVReplaced))

			Expect(outcome.Remediated).To(BeTrue())
			step, _ := outcome.StepFor(model.StepNotify)
			Expect(step.Error).To(ContainSubstring("gotify down"))
		})

		It("falls back to a plain message when the template is broken", func() {
			templatesCopy := map[model.TemplateName]string{}
			for k, v := range templates {
				templatesCopy[k] = v
			}
			templatesCopy[model.TemplateTVReplaced] = "{title} at {resolution}"

			executor := brain.NewExecutor(tv, movies, releases, frontend, notifier,
				template.NewRenderer(templatesCopy), opts)

			executor.Execute(context.Background(),
				tvPlan(model.ActionTVEpisodeReplace, model.TemplateTVReplaced))

			Expect(frontend.comments).To(ContainElement("Automated remediation ran for this issue."))
		})
	})
})
