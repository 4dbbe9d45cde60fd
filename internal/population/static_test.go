package population

import (
	"context"
	"testing"
)

func TestStaticSource_DefaultDensity(t *testing.T) {
	src := NewStaticSource(60)
	samples, err := src.Sample(context.Background(), 10, 10, 50, 5)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(samples) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(samples))
	}
	for i, d := range samples {
		if d != 60 {
			t.Errorf("sample %d = %g, want default 60", i, d)
		}
	}
}

func TestStaticSource_SetCell(t *testing.T) {
	src := NewStaticSource(60)
	src.SetCell(40.71, -74.0, 11000)

	// A tight sampling radius keeps every offset inside the set cell.
	samples, err := src.Sample(context.Background(), 40.5, -73.5, 5, 4)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	for i, d := range samples {
		if d != 11000 {
			t.Errorf("sample %d = %g, want 11000", i, d)
		}
	}
}

func TestStaticSource_WindowFloor(t *testing.T) {
	src := NewStaticSource(60)
	samples, err := src.Sample(context.Background(), 0, 0, 50, 0)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(samples) != 1 {
		t.Errorf("window below 1 must be floored, got %d samples", len(samples))
	}
}

func TestStaticSource_CancelledContext(t *testing.T) {
	src := NewStaticSource(60)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Sample(ctx, 0, 0, 50, 5); err == nil {
		t.Error("expected context error")
	}
}
