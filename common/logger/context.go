package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields carries structured fields automatically added to every log line
// within a context, so pipeline stages never have to repeat the ids of the
// event they are working on.
type LogFields struct {
	RemediationID *int64  // snowflake id of this webhook handling run
	IssueID       *int64  // front-end issue id
	MediaKind     *string // "tv" or "movie"
	Action        *string // planned action kind
	Step          *string // executor sub-step currently running
	Component     string  // e.g. "remediarr.brain.executor"
}

// WithLogFields enriches context with structured log fields. Multiple calls
// merge, newer non-nil/non-empty values winning.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context, empty if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.RemediationID != nil {
		result.RemediationID = next.RemediationID
	}
	if next.IssueID != nil {
		result.IssueID = next.IssueID
	}
	if next.MediaKind != nil {
		result.MediaKind = next.MediaKind
	}
	if next.Action != nil {
		result.Action = next.Action
	}
	if next.Step != nil {
		result.Step = next.Step
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr creates a pointer from a value, for setting LogFields inline.
func Ptr[T any](v T) *T {
	return &v
}

// Truncate shortens a string for logging, appending "..." when cut.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
