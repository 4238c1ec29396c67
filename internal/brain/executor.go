package brain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/remediarr/remediarr/common/logger"
	"github.com/remediarr/remediarr/internal/model"
	"github.com/remediarr/remediarr/internal/template"
)

// Options are the executor's behavior toggles, taken from configuration.
type Options struct {
	EnableBlocklist      bool
	CommentOnAction      bool
	CloseIssues          bool
	CloseMessage         string
	SearchOnlyIfReleased bool
}

// Executor carries a plan out against the downstream services. Sub-steps run
// in a fixed order and are independent: a failed step is recorded and the
// remaining steps still run.
type Executor struct {
	tv       TVManager
	movies   MovieManager
	releases ReleaseDates
	frontend Frontend
	notifier Notifier
	renderer *template.Renderer
	opts     Options
}

func NewExecutor(
	tv TVManager,
	movies MovieManager,
	releases ReleaseDates,
	frontend Frontend,
	notifier Notifier,
	renderer *template.Renderer,
	opts Options,
) *Executor {
	return &Executor{
		tv:       tv,
		movies:   movies,
		releases: releases,
		frontend: frontend,
		notifier: notifier,
		renderer: renderer,
		opts:     opts,
	}
}

func (e *Executor) Execute(ctx context.Context, plan model.ActionPlan) model.ActionOutcome {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Action:    logger.Ptr(string(plan.Kind)),
		Component: "remediarr.brain.executor",
	})

	outcome := model.ActionOutcome{Plan: plan}

	switch plan.Kind {
	case model.ActionNoop:
		outcome.Remediated = false
		return outcome

	case model.ActionCoachOnly:
		e.coach(ctx, plan, &outcome)
		return outcome

	case model.ActionTVEpisodeReplace, model.ActionTVEpisodeSearchOnly:
		e.remediateTV(ctx, plan, &outcome)

	case model.ActionMovieGenericHandle, model.ActionMovieWrongHandle:
		e.remediateMovie(ctx, plan, &outcome)
	}

	e.comment(ctx, plan, &outcome)
	e.close(ctx, plan, &outcome)
	e.notify(ctx, plan, &outcome)

	return outcome
}

func (e *Executor) remediateTV(ctx context.Context, plan model.ActionPlan, outcome *model.ActionOutcome) {
	remediated := true

	if plan.Kind == model.ActionTVEpisodeReplace {
		deleted, err := e.tv.DeleteEpisodeFile(e.stepCtx(ctx, model.StepDelete), plan.TVDBID, plan.Season, plan.Episode)
		if err != nil {
			outcome.Record(failed(model.StepDelete, err))
			remediated = false
		} else {
			outcome.DeletedFiles = deleted
			outcome.Record(ok(model.StepDelete, fmt.Sprintf("deleted %d file(s)", deleted)))
		}
	} else {
		outcome.Record(skipped(model.StepDelete, "search-only action"))
	}

	if err := e.tv.SearchEpisode(e.stepCtx(ctx, model.StepSearch), plan.TVDBID, plan.Season, plan.Episode); err != nil {
		outcome.Record(failed(model.StepSearch, err))
		remediated = false
	} else {
		outcome.Searched = true
		outcome.Record(ok(model.StepSearch, "episode search triggered"))
	}

	outcome.Remediated = remediated
}

func (e *Executor) remediateMovie(ctx context.Context, plan model.ActionPlan, outcome *model.ActionOutcome) {
	remediated := true
	search := plan.SearchAfterDelete

	if plan.Kind == model.ActionMovieWrongHandle {
		search = e.releaseCheck(ctx, plan, outcome)
	}

	if e.opts.EnableBlocklist {
		if err := e.movies.BlocklistLastGrab(e.stepCtx(ctx, model.StepBlocklist), plan.TMDBID); err != nil {
			outcome.Record(failed(model.StepBlocklist, err))
			remediated = false
		} else {
			outcome.Record(ok(model.StepBlocklist, "last grab blocklisted"))
		}
	} else {
		outcome.Record(skipped(model.StepBlocklist, "blocklisting disabled"))
	}

	deleted, err := e.movies.DeleteMovieFiles(e.stepCtx(ctx, model.StepDelete), plan.TMDBID)
	if err != nil {
		outcome.Record(failed(model.StepDelete, err))
		remediated = false
	} else {
		outcome.DeletedFiles = deleted
		outcome.Record(ok(model.StepDelete, fmt.Sprintf("deleted %d file(s)", deleted)))
	}

	if !search {
		outcome.Record(skipped(model.StepSearch, "not digitally released yet"))
	} else if err := e.movies.SearchMovie(e.stepCtx(ctx, model.StepSearch), plan.TMDBID); err != nil {
		outcome.Record(failed(model.StepSearch, err))
		remediated = false
	} else {
		outcome.Searched = true
		outcome.Record(ok(model.StepSearch, "movie search triggered"))
	}

	outcome.Remediated = remediated
}

// releaseCheck reports whether the wrong-movie plan may search for a
// replacement. A check error counts as "not released": swapping in another
// unreleased grab is worse than leaving the slot empty.
func (e *Executor) releaseCheck(ctx context.Context, plan model.ActionPlan, outcome *model.ActionOutcome) bool {
	if !e.opts.SearchOnlyIfReleased {
		outcome.Record(skipped(model.StepReleaseCheck, "release gating disabled"))
		return true
	}

	released, err := e.releases.DigitallyReleased(e.stepCtx(ctx, model.StepReleaseCheck), plan.TMDBID)
	if err != nil {
		outcome.Record(failed(model.StepReleaseCheck, err))
		return false
	}

	outcome.Record(ok(model.StepReleaseCheck, fmt.Sprintf("digitally released: %t", released)))
	return released
}

func (e *Executor) coach(ctx context.Context, plan model.ActionPlan, outcome *model.ActionOutcome) {
	message := e.render(ctx, plan.Template, template.Fields{
		Title:    plan.Title,
		Keywords: plan.CoachKeywords,
	}, "Tip: mention what is wrong (audio, video, subtitles) so this can be fixed automatically.")

	if err := e.frontend.CommentIssue(e.stepCtx(ctx, model.StepComment), plan.IssueID, message); err != nil {
		outcome.Record(failed(model.StepComment, err))
		return
	}
	outcome.Record(ok(model.StepComment, "coaching comment posted"))
}

func (e *Executor) comment(ctx context.Context, plan model.ActionPlan, outcome *model.ActionOutcome) {
	if !e.opts.CommentOnAction {
		outcome.Record(skipped(model.StepComment, "comments disabled"))
		return
	}

	name := plan.Template
	switch {
	case !outcome.Remediated:
		name = model.TemplateRemediationFail
	case plan.Kind == model.ActionMovieWrongHandle && !outcome.Searched:
		name = model.TemplateMovieNotSearched
	}

	message := e.render(ctx, name, template.Fields{
		Title:   plan.Title,
		Season:  plan.Season,
		Episode: plan.Episode,
		Deleted: outcome.DeletedFiles,
	}, "Automated remediation ran for this issue.")

	if err := e.frontend.CommentIssue(e.stepCtx(ctx, model.StepComment), plan.IssueID, message); err != nil {
		outcome.Record(failed(model.StepComment, err))
		return
	}
	outcome.Record(ok(model.StepComment, "result comment posted"))
}

func (e *Executor) close(ctx context.Context, plan model.ActionPlan, outcome *model.ActionOutcome) {
	if !e.opts.CloseIssues {
		outcome.Record(skipped(model.StepClose, "auto-close disabled"))
		return
	}
	if !outcome.Remediated {
		outcome.Record(skipped(model.StepClose, "remediation incomplete"))
		return
	}

	stepCtx := e.stepCtx(ctx, model.StepClose)

	if e.opts.CloseMessage != "" {
		if err := e.frontend.CommentIssue(stepCtx, plan.IssueID, e.opts.CloseMessage); err != nil {
			slog.WarnContext(stepCtx, "close message comment failed", "error", err)
		}
	}

	if err := e.frontend.CloseIssue(stepCtx, plan.IssueID); err != nil {
		outcome.Record(failed(model.StepClose, err))
		// Leave a note so the reporter knows the issue stays open on purpose.
		fallback := e.render(stepCtx, model.TemplateAutoCloseFail, template.Fields{Title: plan.Title},
			"Action completed but the issue could not be closed automatically.")
		if cerr := e.frontend.CommentIssue(stepCtx, plan.IssueID, fallback); cerr != nil {
			slog.WarnContext(stepCtx, "auto-close fallback comment failed", "error", cerr)
		}
		return
	}

	outcome.Closed = true
	outcome.Record(ok(model.StepClose, "issue closed"))
}

func (e *Executor) notify(ctx context.Context, plan model.ActionPlan, outcome *model.ActionOutcome) {
	if e.notifier == nil {
		outcome.Record(skipped(model.StepNotify, "no notifier configured"))
		return
	}

	status := "remediated"
	if !outcome.Remediated {
		status = "remediation failed"
	}
	message := fmt.Sprintf("%s: %s (issue #%d, action %s)", plan.Title, status, plan.IssueID, plan.Kind)

	if err := e.notifier.Notify(e.stepCtx(ctx, model.StepNotify), "Remediarr", message); err != nil {
		outcome.Record(failed(model.StepNotify, err))
		return
	}
	outcome.Record(ok(model.StepNotify, "operators notified"))
}

// render expands a template, falling back to a fixed message when the
// template is missing or malformed. A broken template must never block the
// pipeline.
func (e *Executor) render(ctx context.Context, name model.TemplateName, fields template.Fields, fallback string) string {
	out, err := e.renderer.Render(name, fields)
	if err != nil {
		slog.WarnContext(ctx, "template render failed", "template", string(name), "error", err)
		return fallback
	}
	return out
}

func (e *Executor) stepCtx(ctx context.Context, step model.Step) context.Context {
	return logger.WithLogFields(ctx, logger.LogFields{Step: logger.Ptr(string(step))})
}

func ok(step model.Step, detail string) model.StepResult {
	return model.StepResult{Step: step, OK: true, Detail: detail}
}

func skipped(step model.Step, detail string) model.StepResult {
	return model.StepResult{Step: step, OK: true, Skipped: true, Detail: detail}
}

func failed(step model.Step, err error) model.StepResult {
	return model.StepResult{Step: step, Error: err.Error()}
}
