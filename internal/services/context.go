package services

import "context"

type contextKey string

const (
	artifactKey  contextKey = "artifact"
	operationKey contextKey = "operation"
	requestIDKey contextKey = "request_id"
)

// WithArtifact annotates context with the path of the artifact being handled.
func WithArtifact(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, artifactKey, path)
}

// ArtifactFromContext returns the artifact path if present.
func ArtifactFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(artifactKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithOperation annotates context with the CLI operation name.
func WithOperation(ctx context.Context, op string) context.Context {
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, op)
}

// OperationFromContext returns the operation name if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(operationKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
