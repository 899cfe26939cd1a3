package history

import (
	"context"
	"testing"

	"mindloom/pkg/logging"
	"mindloom/pkg/models"
)

func TestNilClientIsNoOp(t *testing.T) {
	s := New(nil, logging.NewLogger())
	ctx := context.Background()

	s.Push(ctx, &models.Generation{UserID: "u1", Type: models.TextToText})

	gens, ok := s.Recent(ctx, "u1", 10)
	if ok {
		t.Error("expected cache miss with nil client")
	}
	if gens != nil {
		t.Errorf("expected nil generations, got %v", gens)
	}

	// Should not panic.
	s.Invalidate(ctx, "u1")
}
