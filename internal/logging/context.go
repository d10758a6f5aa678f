package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one realignment run.
	FieldRunID = "run_id"
	// FieldInterviewID identifies the interview whose transcript is in use.
	FieldInterviewID = "interview_id"
	// FieldClipID identifies the clip being resolved.
	FieldClipID = "clip_id"
	// FieldEventType names what happened in machine-friendly form.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact states the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDecisionType names the decision being logged.
	FieldDecisionType   = "decision_type"
	FieldDecisionResult = "decision_result"
	FieldDecisionReason = "decision_reason"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

type ctxKey int

const (
	runIDKey ctxKey = iota
	interviewIDKey
	clipIDKey
)

// WithRunID tags ctx with a run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// WithInterviewID tags ctx with an interview identifier.
func WithInterviewID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, interviewIDKey, id)
}

// WithClipID tags ctx with a clip identifier.
func WithClipID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clipIDKey, id)
}

// RunIDFromContext returns the run identifier stored in ctx.
func RunIDFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, runIDKey)
}

func stringFromContext(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	fields := make([]slog.Attr, 0, 3)
	if id, ok := stringFromContext(ctx, runIDKey); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if id, ok := stringFromContext(ctx, interviewIDKey); ok {
		fields = append(fields, slog.String(FieldInterviewID, id))
	}
	if id, ok := stringFromContext(ctx, clipIDKey); ok {
		fields = append(fields, slog.String(FieldClipID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
