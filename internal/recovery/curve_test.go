package recovery

import (
	"math"
	"testing"
	"time"

	"github.com/claude/liftready/internal/models"
)

// TestAdjustedRecoveryHours verifies fatigue severity scales the base
// window within its clamped band.
func TestAdjustedRecoveryHours(t *testing.T) {
	cases := []struct {
		fatigue float64
		want    float64
	}{
		{50, 48},    // average fatigue leaves the base window untouched
		{100, 60},   // maximal fatigue: ×1.25
		{0, 38.4},   // no fatigue clamps at ×0.8
		{200, 72},    // out-of-range fatigue clamps at ×1.5
		{-100, 38.4}, // negative fatigue clamps at ×0.8
	}
	for _, tc := range cases {
		got := AdjustedRecoveryHours(models.MuscleChest, tc.fatigue)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("AdjustedRecoveryHours(chest, %v) = %v, want %v", tc.fatigue, got, tc.want)
		}
	}
}

// TestPercentageMonotonic verifies recovery never decreases as rest
// time grows.
func TestPercentageMonotonic(t *testing.T) {
	prev := -1.0
	for h := 0.0; h <= 168; h += 4 {
		pct := Percentage(models.MuscleQuads, 60, h)
		if pct < prev {
			t.Fatalf("recovery decreased: %v%% at %vh after %v%%", pct, h, prev)
		}
		if pct < 0 || pct > 100 {
			t.Fatalf("recovery %v%% at %vh outside [0,100]", pct, h)
		}
		prev = pct
	}
}

// TestPercentageBoundaries verifies the curve's anchor points: zero at
// no rest, the 95% target at the adjusted window, and asymptotic
// approach to 100.
func TestPercentageBoundaries(t *testing.T) {
	if got := Percentage(models.MuscleChest, 50, 0); got != 0 {
		t.Errorf("Percentage at 0h = %v, want 0", got)
	}
	if got := Percentage(models.MuscleChest, 50, -5); got != 0 {
		t.Errorf("Percentage at negative elapsed = %v, want 0", got)
	}

	adjusted := AdjustedRecoveryHours(models.MuscleChest, 50)
	atWindow := Percentage(models.MuscleChest, 50, adjusted)
	if math.Abs(atWindow-95) > 0.01 {
		t.Errorf("Percentage at adjusted window = %v, want 95", atWindow)
	}

	longRest := Percentage(models.MuscleChest, 50, 10000)
	if longRest < 99.99 || longRest > 100 {
		t.Errorf("Percentage after long rest = %v, want ~100", longRest)
	}
}

// TestFullRecoveryAt verifies the ready-at estimate is the last-trained
// time plus the adjusted window.
func TestFullRecoveryAt(t *testing.T) {
	trained := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	got := FullRecoveryAt(models.MuscleChest, 50, trained)
	want := trained.Add(48 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("FullRecoveryAt = %v, want %v", got, want)
	}
}

// TestBuildProfileNoHistory verifies a never-trained muscle reads as
// fully recovered with no ready-at estimate.
func TestBuildProfileNoHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p := BuildProfile(models.MuscleCalves, nil, 0, nil, now)

	if p.RecoveryPct != 100 {
		t.Errorf("RecoveryPct = %v, want 100", p.RecoveryPct)
	}
	if p.FullRecoveryAt != nil {
		t.Errorf("FullRecoveryAt = %v, want nil", p.FullRecoveryAt)
	}
	if p.Readiness != 10 {
		t.Errorf("Readiness = %v, want 10", p.Readiness)
	}
}

// TestBuildProfileRecentSession verifies a muscle trained two days ago
// at moderate fatigue reads as mostly recovered.
func TestBuildProfileRecentSession(t *testing.T) {
	now := time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC)
	trained := now.Add(-48 * time.Hour)

	p := BuildProfile(models.MuscleChest, &trained, 30, []float64{30}, now)

	if p.RecoveryPct < 90 || p.RecoveryPct > 100 {
		t.Errorf("RecoveryPct after 48h = %v, want in (90,100]", p.RecoveryPct)
	}
	if p.FullRecoveryAt == nil {
		t.Fatal("FullRecoveryAt = nil, want estimate")
	}
	if p.Readiness < 6 {
		t.Errorf("Readiness = %v, want >= 6 for a mostly recovered muscle", p.Readiness)
	}
}
