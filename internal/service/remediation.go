package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/remediarr/remediarr/common/id"
	"github.com/remediarr/remediarr/common/logger"
	"github.com/remediarr/remediarr/internal/brain"
	"github.com/remediarr/remediarr/internal/classify"
	"github.com/remediarr/remediarr/internal/guard"
	"github.com/remediarr/remediarr/internal/http/dto"
	"github.com/remediarr/remediarr/internal/mapper"
	"github.com/remediarr/remediarr/internal/model"
)

// Report statuses for one webhook delivery.
const (
	StatusHandled = "handled"
	StatusIgnored = "ignored"
	StatusInvalid = "invalid"
)

// Report is the response body for one processed delivery. Ignored and
// invalid deliveries carry the reason; handled ones carry the outcome.
type Report struct {
	RemediationID int64                `json:"remediation_id"`
	Status        string               `json:"status"`
	Reason        string               `json:"reason,omitempty"`
	Outcome       *model.ActionOutcome `json:"outcome,omitempty"`
}

// RemediationService runs the full pipeline for one webhook delivery:
// normalize, guard, classify, plan, execute.
type RemediationService struct {
	mapper     *mapper.EventMapper
	guard      *guard.Guard
	classifier *classify.Classifier
	planner    *brain.Planner
	executor   *brain.Executor
}

func NewRemediationService(
	eventMapper *mapper.EventMapper,
	g *guard.Guard,
	classifier *classify.Classifier,
	planner *brain.Planner,
	executor *brain.Executor,
) *RemediationService {
	return &RemediationService{
		mapper:     eventMapper,
		guard:      g,
		classifier: classifier,
		planner:    planner,
		executor:   executor,
	}
}

func (s *RemediationService) Process(ctx context.Context, payload dto.IssueWebhook) Report {
	remediationID := id.New()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		RemediationID: logger.Ptr(remediationID),
		Component:     "remediarr.service.remediation",
	})

	event, err := s.mapper.Map(payload)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			slog.InfoContext(ctx, "rejecting malformed event", "field", verr.Field, "reason", verr.Reason)
			return Report{RemediationID: remediationID, Status: StatusInvalid, Reason: verr.Error()}
		}
		slog.ErrorContext(ctx, "event mapping failed", "error", err)
		return Report{RemediationID: remediationID, Status: StatusInvalid, Reason: err.Error()}
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		IssueID:   logger.Ptr(event.IssueID),
		MediaKind: logger.Ptr(string(event.MediaKind)),
	})

	if verdict := s.guard.Check(event); !verdict.Allowed {
		slog.InfoContext(ctx, "event suppressed", "deny_reason", string(verdict.Reason))
		return Report{RemediationID: remediationID, Status: StatusIgnored, Reason: string(verdict.Reason)}
	}

	cls := s.classifier.Classify(event)
	plan := s.planner.Plan(event, cls)

	slog.InfoContext(ctx, "plan decided",
		"category", string(cls.Category),
		"matched_keyword", cls.MatchedKeyword,
		"action", string(plan.Kind),
	)

	if plan.Kind == model.ActionNoop {
		return Report{RemediationID: remediationID, Status: StatusIgnored, Reason: "no keyword matched"}
	}

	outcome := s.executor.Execute(ctx, plan)

	slog.InfoContext(ctx, "plan executed",
		"action", string(plan.Kind),
		"remediated", outcome.Remediated,
		"searched", outcome.Searched,
		"closed", outcome.Closed,
		"deleted_files", outcome.DeletedFiles,
	)

	return Report{RemediationID: remediationID, Status: StatusHandled, Outcome: &outcome}
}
