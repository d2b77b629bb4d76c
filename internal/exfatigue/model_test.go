package exfatigue

import (
	"math"
	"testing"
	"time"

	"github.com/claude/liftready/internal/models"
)

func rpe(v float64) *float64 { return &v }

// flatSession builds a session of n identical completed sets for one
// exercise.
func flatSession(exercise string, n int, weight float64, reps int) models.SessionRecord {
	s := models.SessionRecord{StartedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)}
	for i := 1; i <= n; i++ {
		s.Sets = append(s.Sets, models.SetRecord{
			ExerciseID: exercise,
			SetNumber:  i,
			Weight:     weight,
			Reps:       reps,
			Completed:  true,
		})
	}
	return s
}

// decliningSession builds a session whose rep counts fall across sets.
func decliningSession(exercise string, weight float64, reps ...int) models.SessionRecord {
	s := models.SessionRecord{StartedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)}
	for i, r := range reps {
		s.Sets = append(s.Sets, models.SetRecord{
			ExerciseID: exercise,
			SetNumber:  i + 1,
			Weight:     weight,
			Reps:       r,
			Completed:  true,
		})
	}
	return s
}

// TestRateForUnknownExercise verifies unseen exercises report the
// population default with zero sample size, including on a nil model.
func TestRateForUnknownExercise(t *testing.T) {
	var nilModel *Model
	got := nilModel.RateFor("barbell_bench_press")
	if got.Rate != DefaultRate || got.SampleSize != 0 {
		t.Errorf("nil model RateFor = %+v, want default rate with sample size 0", got)
	}

	built := Build(nil)
	got = built.RateFor("barbell_bench_press")
	if got.Rate != DefaultRate || got.SampleSize != 0 {
		t.Errorf("empty model RateFor = %+v, want default rate with sample size 0", got)
	}
}

// TestBuildShrinksThinHistory verifies that below the session gate the
// per-exercise estimate stays pulled toward the population default.
func TestBuildShrinksThinHistory(t *testing.T) {
	// One session with a steep 10% per-set decline.
	sessions := []models.SessionRecord{
		decliningSession("squat", 100, 10, 9, 8),
	}
	m := Build(sessions)
	got := m.RateFor("squat")

	if got.SampleSize != 1 {
		t.Fatalf("SampleSize = %d, want 1", got.SampleSize)
	}
	if got.SampleSize >= MinSessions {
		t.Fatalf("test setup: sample size %d should be below the gate", got.SampleSize)
	}

	// Observed rate is (100−80)/100/2 = 0.10; the blend with one
	// observation is (1·0.10 + 2·0.15)/3 ≈ 0.1333.
	want := (1*0.10 + 2*DefaultRate) / 3
	if math.Abs(got.Rate-want) > 1e-9 {
		t.Errorf("Rate = %v, want %v", got.Rate, want)
	}
	if math.Abs(got.Rate-DefaultRate) > math.Abs(0.10-DefaultRate) {
		t.Errorf("shrunk rate %v is further from the default than the raw observation", got.Rate)
	}
}

// TestBuildPersonalEstimateDominates verifies that with enough sessions
// the athlete's own rate outweighs the population default.
func TestBuildPersonalEstimateDominates(t *testing.T) {
	var sessions []models.SessionRecord
	for i := 0; i < 6; i++ {
		sessions = append(sessions, decliningSession("leg_press", 200, 12, 10, 9, 8))
	}
	m := Build(sessions)
	got := m.RateFor("leg_press")

	if got.SampleSize != 6 {
		t.Fatalf("SampleSize = %d, want 6", got.SampleSize)
	}

	// Observed rate per session: (2400−1600)/2400/3 ≈ 0.1111.
	observed := (2400.0 - 1600.0) / 2400.0 / 3.0
	if math.Abs(got.Rate-observed) > math.Abs(got.Rate-DefaultRate) {
		t.Errorf("rate %v sits closer to the default than to the athlete's own %v", got.Rate, observed)
	}
}

// TestBuildRPEClimbAddsFatigue verifies that holding output steady at
// rising RPE still registers as fatigue.
func TestBuildRPEClimbAddsFatigue(t *testing.T) {
	steady := flatSession("bench", 3, 100, 8)
	m := Build([]models.SessionRecord{steady})
	flat := m.RateFor("bench")

	climbing := flatSession("bench", 3, 100, 8)
	climbing.Sets[0].ActualRPE = rpe(7)
	climbing.Sets[2].ActualRPE = rpe(9)
	m = Build([]models.SessionRecord{climbing})
	climbed := m.RateFor("bench")

	if climbed.Rate <= flat.Rate {
		t.Errorf("RPE climb rate %v, want > steady rate %v", climbed.Rate, flat.Rate)
	}
}

// TestBuildIgnoresIncompleteAndSingleSets verifies incomplete sets and
// single-set exercises contribute no observation.
func TestBuildIgnoresIncompleteAndSingleSets(t *testing.T) {
	session := flatSession("deadlift", 1, 180, 5)
	skipped := models.SetRecord{ExerciseID: "deadlift", SetNumber: 2, Weight: 180, Reps: 5}
	session.Sets = append(session.Sets, skipped)

	m := Build([]models.SessionRecord{session})
	got := m.RateFor("deadlift")
	if got.SampleSize != 0 || got.Rate != DefaultRate {
		t.Errorf("RateFor = %+v, want untouched default", got)
	}
}

// TestBuildRateNeverNegative verifies an improving session (more reps
// on the last set) floors at zero rather than going negative.
func TestBuildRateNeverNegative(t *testing.T) {
	sessions := []models.SessionRecord{
		decliningSession("row", 60, 8, 9, 10),
	}
	m := Build(sessions)
	got := m.RateFor("row")

	if got.Rate < 0 {
		t.Fatalf("Rate = %v, want >= 0", got.Rate)
	}
	// Raw observation is 0; the blend is pure prior.
	want := (1*0.0 + 2*DefaultRate) / 3
	if math.Abs(got.Rate-want) > 1e-9 {
		t.Errorf("Rate = %v, want %v", got.Rate, want)
	}
}
