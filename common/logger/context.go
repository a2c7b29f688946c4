package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within
// a context. Enrich once at the operation boundary; every log statement below
// it carries the fields without touching call sites.
type LogFields struct {
	Space         *string // space name
	ParticipantID *string // participant id within the space
	Room          *string // child room name
	Component     string  // component name, e.g. "spaced.reconcile"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.Space != nil {
		result.Space = next.Space
	}
	if next.ParticipantID != nil {
		result.ParticipantID = next.ParticipantID
	}
	if next.Room != nil {
		result.Room = next.Room
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline.
func Ptr[T any](v T) *T {
	return &v
}
