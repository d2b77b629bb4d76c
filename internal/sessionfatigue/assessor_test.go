package sessionfatigue

import (
	"testing"

	"github.com/claude/liftready/internal/models"
)

func rpe(v float64) *float64 { return &v }

func workingSet(exercise string, weight float64, reps int) models.SetRecord {
	return models.SetRecord{
		ExerciseID: exercise,
		Weight:     weight,
		Reps:       reps,
		Completed:  true,
	}
}

// TestAssessEmptySession verifies zero completed sets score zero with
// no alert attached.
func TestAssessEmptySession(t *testing.T) {
	got := Assess(nil, nil)

	if got.Score != 0 {
		t.Errorf("Score = %v, want 0", got.Score)
	}
	if got.Severity != SeverityMild {
		t.Errorf("Severity = %v, want mild", got.Severity)
	}
	if got.Alert != nil {
		t.Errorf("Alert = %+v, want nil", got.Alert)
	}
	if got.ShouldReduceWeight {
		t.Error("ShouldReduceWeight = true, want false")
	}
}

// TestAssessLightSession verifies a normal moderate session stays mild
// with no weight-reduction flag.
func TestAssessLightSession(t *testing.T) {
	sets := []models.SetRecord{
		workingSet("bench", 100, 8),
		workingSet("bench", 100, 8),
		workingSet("bench", 100, 7),
	}
	got := Assess(sets, nil)

	// Volume term only: 2300/1000 = 2.3.
	if got.Score != 2.3 {
		t.Errorf("Score = %v, want 2.3", got.Score)
	}
	if got.Severity != SeverityMild {
		t.Errorf("Severity = %v, want mild", got.Severity)
	}
	if got.Alert != nil {
		t.Error("Alert attached below the threshold")
	}
}

// TestAssessVolumeCapped verifies the volume term caps at 40 points no
// matter how large the session is.
func TestAssessVolumeCapped(t *testing.T) {
	sets := []models.SetRecord{
		workingSet("leg_press", 400, 100),
		workingSet("leg_press", 400, 100),
	}
	got := Assess(sets, nil)

	if got.Score != 40 {
		t.Errorf("Score = %v, want capped 40", got.Score)
	}
}

// TestAssessFormBreakdownOverride verifies three form breakdowns force
// critical severity regardless of the numeric score.
func TestAssessFormBreakdownOverride(t *testing.T) {
	sets := []models.SetRecord{
		workingSet("squat", 100, 5),
		workingSet("squat", 100, 5),
		workingSet("squat", 100, 5),
	}
	for i := range sets {
		sets[i].FormBreakdown = true
	}
	got := Assess(sets, nil)

	if got.Severity != SeverityCritical {
		t.Errorf("Severity = %v, want critical on 3 form breakdowns", got.Severity)
	}
	if !got.ShouldReduceWeight {
		t.Error("ShouldReduceWeight = false, want true")
	}
}

// TestAssessUnintentionalFailures verifies failures at low RPE count as
// unanticipated and drive severity, while failures at high RPE do not.
func TestAssessUnintentionalFailures(t *testing.T) {
	unexpected := workingSet("bench", 110, 6)
	unexpected.ReachedFailure = true
	unexpected.ActualRPE = rpe(6.5)

	expected := workingSet("bench", 110, 6)
	expected.ReachedFailure = true
	expected.ActualRPE = rpe(10)

	got := Assess([]models.SetRecord{expected}, nil)
	if got.Factors.UnintentionalFailures != 0 {
		t.Errorf("planned failure counted: %d, want 0", got.Factors.UnintentionalFailures)
	}

	breakdown := workingSet("bench", 110, 6)
	breakdown.FormBreakdown = true

	got = Assess([]models.SetRecord{unexpected, unexpected, breakdown}, nil)
	if got.Factors.UnintentionalFailures != 2 {
		t.Fatalf("UnintentionalFailures = %d, want 2", got.Factors.UnintentionalFailures)
	}
	if got.Severity != SeverityCritical {
		t.Errorf("Severity = %v, want critical on 2 unanticipated failures", got.Severity)
	}
	if got.Score < 40 {
		t.Errorf("Score = %v, want >= 40 from failure and breakdown points alone", got.Score)
	}
	if !got.ShouldReduceWeight {
		t.Error("ShouldReduceWeight = false, want true")
	}
}

// TestAssessRPEOvershoot verifies sustained overshoot of the
// prescription raises the score and a 2-point average forces at least
// moderate severity.
func TestAssessRPEOvershoot(t *testing.T) {
	set := workingSet("ohp", 60, 8)
	set.PrescribedRPE = rpe(7)
	set.ActualRPE = rpe(9)

	got := Assess([]models.SetRecord{set, set, set}, nil)

	if got.Factors.AvgRPEOvershoot != 2 {
		t.Fatalf("AvgRPEOvershoot = %v, want 2", got.Factors.AvgRPEOvershoot)
	}
	if got.Severity != SeverityModerate {
		t.Errorf("Severity = %v, want moderate", got.Severity)
	}
}

// TestAssessAlertThreshold verifies the alert appears exactly at the
// threshold and carries the assessment's severity.
func TestAssessAlertThreshold(t *testing.T) {
	// 40 volume points + 2 form breakdowns = 60, right at the line.
	heavy := workingSet("deadlift", 500, 50)
	bad1 := workingSet("deadlift", 180, 3)
	bad1.FormBreakdown = true
	bad2 := workingSet("deadlift", 180, 3)
	bad2.FormBreakdown = true

	got := Assess([]models.SetRecord{heavy, heavy, bad1, bad2}, nil)

	if got.Score != 60 {
		t.Fatalf("Score = %v, want 60", got.Score)
	}
	if got.Alert == nil {
		t.Fatal("Alert = nil, want attached at threshold")
	}
	if got.Alert.Severity != got.Severity {
		t.Errorf("Alert.Severity = %v, want %v", got.Alert.Severity, got.Severity)
	}
	if got.Alert.Message == "" {
		t.Error("Alert.Message is empty")
	}
}

// TestAssessMuscleGroups verifies affected muscles come from the
// lookup, deduplicated and sorted.
func TestAssessMuscleGroups(t *testing.T) {
	sets := []models.SetRecord{
		workingSet("barbell_bench_press", 100, 8),
		workingSet("incline_bench_press", 80, 10),
	}
	got := Assess(sets, models.DefaultMuscleLookup())

	want := []models.MuscleGroup{models.MuscleChest, models.MuscleShoulders, models.MuscleTriceps}
	if len(got.MuscleGroups) != len(want) {
		t.Fatalf("MuscleGroups = %v, want %v", got.MuscleGroups, want)
	}
	for i := range want {
		if got.MuscleGroups[i] != want[i] {
			t.Errorf("MuscleGroups[%d] = %v, want %v", i, got.MuscleGroups[i], want[i])
		}
	}
}

// TestAssessIgnoresIncompleteSets verifies planned-but-unlogged sets
// contribute nothing.
func TestAssessIgnoresIncompleteSets(t *testing.T) {
	planned := models.SetRecord{ExerciseID: "squat", Weight: 140, Reps: 5, FormBreakdown: true}
	got := Assess([]models.SetRecord{planned}, models.DefaultMuscleLookup())

	if got.Score != 0 {
		t.Errorf("Score = %v, want 0", got.Score)
	}
	if got.Factors.FormBreakdowns != 0 {
		t.Errorf("FormBreakdowns = %d, want 0", got.Factors.FormBreakdowns)
	}
	if got.MuscleGroups != nil {
		t.Errorf("MuscleGroups = %v, want nil", got.MuscleGroups)
	}
}
