package services_test

import (
	"context"
	"testing"

	"keyprobe/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithArtifact(ctx, "/tmp/app.ipa")
	ctx = services.WithOperation(ctx, "list")
	ctx = services.WithRequestID(ctx, "req-123")

	if path, ok := services.ArtifactFromContext(ctx); !ok || path != "/tmp/app.ipa" {
		t.Fatalf("unexpected artifact: %v %v", path, ok)
	}
	if op, ok := services.OperationFromContext(ctx); !ok || op != "list" {
		t.Fatalf("unexpected operation: %v %v", op, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithOperation(ctx, "")
	ctx = services.WithArtifact(ctx, "")
	if _, ok := services.OperationFromContext(ctx); ok {
		t.Fatal("expected no operation value")
	}
	if _, ok := services.ArtifactFromContext(ctx); ok {
		t.Fatal("expected no artifact value")
	}
}
