package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/claude/liftready/internal/models"
	"github.com/claude/liftready/internal/recovery"
	"github.com/claude/liftready/internal/sessionfatigue"
	"github.com/google/uuid"
)

// BaselineSource tags where a recommendation's starting weight came
// from.
type BaselineSource string

const (
	// BaselinePrescribed: the most recent completed set for the same
	// exercise in the current session.
	BaselinePrescribed BaselineSource = "prescribed"
	// BaselineHistorical: the best estimated one-rep max on record,
	// converted to the target rep count.
	BaselineHistorical BaselineSource = "historical"
	// BaselineDefault: the configured fallback for athletes with no
	// usable history.
	BaselineDefault BaselineSource = "default"
)

// Adjustment pipeline thresholds. Fixed product constants.
const (
	readinessAdjustBelow = 6.0
	acwrAdjustAbove      = 1.5
	fatigueAdjustAbove   = 60.0
	fatigueRateThreshold = 0.18
	fatigueRateMaxPct    = 10.0
)

// Adjustment is one applied reduction, recorded for traceability.
// Percent is the magnitude applied; adjustments compound
// multiplicatively in pipeline order.
type Adjustment struct {
	Factor  string  `json:"factor"`
	Percent float64 `json:"percent"`
	Reason  string  `json:"reason"`
}

// SetRecommendation is the engine's weight suggestion for one upcoming
// set.
type SetRecommendation struct {
	AthleteID           uuid.UUID                `json:"athlete_id"`
	ExerciseID          string                   `json:"exercise_id"`
	SetNumber           int                      `json:"set_number"`
	TargetReps          int                      `json:"target_reps"`
	TargetRPE           *float64                 `json:"target_rpe,omitempty"`
	Weight              float64                  `json:"weight"`
	BaselineWeight      float64                  `json:"baseline_weight"`
	BaselineSource      BaselineSource           `json:"baseline_source"`
	Adjustments         []Adjustment             `json:"adjustments,omitempty"`
	Confidence          Confidence               `json:"confidence"`
	SessionFatigueScore float64                  `json:"session_fatigue_score"`
	FatigueAlert        *sessionfatigue.Alert    `json:"fatigue_alert,omitempty"`
}

// GetSetRecommendation suggests a weight for the athlete's next set.
// completedSessionSets are the sets already done in the current
// workout; they drive both the in-session baseline and the real-time
// fatigue override.
func (e *Engine) GetSetRecommendation(ctx context.Context, athleteID uuid.UUID, exerciseID string, setNumber, targetReps int, targetRPE *float64, completedSessionSets []models.SetRecord) SetRecommendation {
	now := e.now()
	rec := SetRecommendation{
		AthleteID:  athleteID,
		ExerciseID: exerciseID,
		SetNumber:  setNumber,
		TargetReps: targetReps,
		TargetRPE:  targetRPE,
	}

	degraded := false

	baseline, source, ok := e.resolveBaseline(ctx, athleteID, exerciseID, targetReps, completedSessionSets, now)
	if !ok {
		degraded = true
	}
	rec.BaselineWeight = baseline
	rec.BaselineSource = source
	weight := baseline

	// 1. Readiness of the muscles this exercise trains.
	profiles, ok := e.recoveryProfiles(ctx, athleteID, now)
	if !ok {
		degraded = true
	}
	if avg, ok := e.exerciseReadiness(exerciseID, profiles); ok && avg < readinessAdjustBelow {
		pct := (7 - avg) * 5
		weight = applyReduction(weight, pct)
		rec.Adjustments = append(rec.Adjustments, Adjustment{
			Factor:  "readiness",
			Percent: pct,
			Reason:  fmt.Sprintf("muscle readiness averages %.1f/10; reducing weight %.0f%%", avg, pct),
		})
	}

	// 2. Whole-athlete workload spike.
	acwrResult, ok := e.acwrResult(ctx, athleteID, now)
	if !ok {
		degraded = true
	}
	if acwrResult.Ratio > acwrAdjustAbove {
		pct := (acwrResult.Ratio - 1.3) * 10
		weight = applyReduction(weight, pct)
		rec.Adjustments = append(rec.Adjustments, Adjustment{
			Factor:  "acwr",
			Percent: pct,
			Reason:  fmt.Sprintf("acute:chronic workload ratio %.2f is above %.1f; reducing weight %.0f%%", acwrResult.Ratio, acwrAdjustAbove, pct),
		})
	}

	// 3. Real-time in-session fatigue.
	assessment := sessionfatigue.Assess(completedSessionSets, e.muscles)
	rec.SessionFatigueScore = assessment.Score
	if assessment.Score > fatigueAdjustAbove {
		pct := (assessment.Score - 50) * 0.3
		weight = applyReduction(weight, pct)
		rec.Adjustments = append(rec.Adjustments, Adjustment{
			Factor:  "session_fatigue",
			Percent: pct,
			Reason:  fmt.Sprintf("session fatigue score %.0f/100; reducing weight %.1f%%", assessment.Score, pct),
		})
	}
	rec.FatigueAlert = assessment.Alert

	// 4. Exercise-specific fatigue rate learned from history.
	hier, ok := e.hierarchicalModel(ctx, athleteID, now)
	if !ok {
		degraded = true
	}
	rate := hier.RateFor(exerciseID)
	if rate.Rate > fatigueRateThreshold {
		pct := math.Min(fatigueRateMaxPct, (rate.Rate-fatigueRateThreshold)*100)
		weight = applyReduction(weight, pct)
		rec.Adjustments = append(rec.Adjustments, Adjustment{
			Factor:  "exercise_fatigue_rate",
			Percent: pct,
			Reason:  fmt.Sprintf("this exercise fatigues you faster than baseline (rate %.2f); reducing weight %.1f%%", rate.Rate, pct),
		})
	}

	rec.Weight = roundWeight(weight)
	rec.Confidence = recommendationConfidence(source, len(rec.Adjustments), degraded)
	return rec
}

// resolveBaseline picks the starting weight: current-session set, then
// historical best E1RM, then the configured default. ok=false only on
// a storage failure that forced the default.
func (e *Engine) resolveBaseline(ctx context.Context, athleteID uuid.UUID, exerciseID string, targetReps int, currentSets []models.SetRecord, now time.Time) (float64, BaselineSource, bool) {
	for i := len(currentSets) - 1; i >= 0; i-- {
		set := currentSets[i]
		if set.Completed && set.ExerciseID == exerciseID && set.Weight > 0 {
			return roundWeight(set.Weight), BaselinePrescribed, true
		}
	}

	sessions, err := e.store.ListSessions(ctx, athleteID, now.AddDate(0, 0, -modelWindowDays))
	if err != nil {
		e.log.Warn("baseline degraded to default", "athlete", athleteID, "exercise", exerciseID, "error", err)
		return e.cfg.DefaultBaselineWeight, BaselineDefault, false
	}

	var bestE1RM float64
	for _, s := range sessions {
		for _, set := range s.Sets {
			if !set.Completed || set.ExerciseID != exerciseID {
				continue
			}
			if e1rm := models.EstimateE1RM(set.Weight, set.Reps); e1rm > bestE1RM {
				bestE1RM = e1rm
			}
		}
	}
	if bestE1RM > 0 {
		return roundWeight(models.WeightForReps(bestE1RM, targetReps)), BaselineHistorical, true
	}
	return e.cfg.DefaultBaselineWeight, BaselineDefault, true
}

// exerciseReadiness averages the readiness of the muscles the exercise
// trains. ok=false when no profiled muscle matches (missing data, so
// no adjustment).
func (e *Engine) exerciseReadiness(exerciseID string, profiles []recovery.Profile) (float64, bool) {
	trained := e.muscles.MusclesFor(exerciseID)
	if len(trained) == 0 || len(profiles) == 0 {
		return 0, false
	}
	byMuscle := make(map[models.MuscleGroup]float64, len(profiles))
	for _, p := range profiles {
		byMuscle[p.MuscleGroup] = p.Readiness
	}
	var sum float64
	var count int
	for _, m := range trained {
		if score, ok := byMuscle[m]; ok {
			sum += score
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

func recommendationConfidence(source BaselineSource, adjustments int, degraded bool) Confidence {
	if source == BaselineDefault || degraded {
		return ConfidenceLow
	}
	if source == BaselineHistorical && adjustments <= 2 {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}

func applyReduction(weight, pct float64) float64 {
	return weight * (1 - pct/100)
}

// roundWeight rounds to the nearest 0.5, the smallest practical plate
// increment.
func roundWeight(w float64) float64 {
	return math.Round(w*2) / 2
}
