package mcp

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// TestAthleteIDFromContextDefault verifies the nil UUID fallback when
// no athlete is bound to the context.
func TestAthleteIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := AthleteIDFromContext(ctx); id != uuid.Nil {
		t.Errorf("AthleteIDFromContext(empty) = %v, want nil UUID", id)
	}
}

// TestAthleteIDFromContextSet verifies the athlete ID round-trips
// through WithAthleteID.
func TestAthleteIDFromContextSet(t *testing.T) {
	want := uuid.New()
	ctx := WithAthleteID(context.Background(), want)
	if got := AthleteIDFromContext(ctx); got != want {
		t.Errorf("AthleteIDFromContext = %v, want %v", got, want)
	}
}

// TestParseAthleteID verifies the explicit parameter wins over the
// context value and malformed IDs error.
func TestParseAthleteID(t *testing.T) {
	ctxAthlete := uuid.New()
	ctx := WithAthleteID(context.Background(), ctxAthlete)

	got, err := parseAthleteID(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ctxAthlete {
		t.Errorf("parseAthleteID with empty param = %v, want context's %v", got, ctxAthlete)
	}

	explicit := uuid.New()
	got, err = parseAthleteID(ctx, explicit.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != explicit {
		t.Errorf("parseAthleteID with explicit param = %v, want %v", got, explicit)
	}

	if _, err := parseAthleteID(ctx, "not-a-uuid"); err == nil {
		t.Error("expected error for malformed athlete ID")
	}
}

// TestParseSets verifies the empty payload maps to an empty session and
// JSON arrays decode into set records.
func TestParseSets(t *testing.T) {
	sets, err := parseSets("")
	if err != nil || sets != nil {
		t.Errorf("parseSets(\"\") = %v, %v, want nil, nil", sets, err)
	}

	sets, err = parseSets(`[{"exercise_id":"bench","set_number":1,"weight":100,"reps":8,"completed":true}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("len(sets) = %d, want 1", len(sets))
	}
	if sets[0].ExerciseID != "bench" || sets[0].Weight != 100 || !sets[0].Completed {
		t.Errorf("decoded set = %+v", sets[0])
	}

	if _, err := parseSets("{not json"); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
