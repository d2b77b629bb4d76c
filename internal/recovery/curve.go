// Package recovery models per-muscle-group recovery and readiness from
// elapsed rest time and recent fatigue history.
package recovery

import (
	"math"
	"time"

	"github.com/claude/liftready/internal/models"
)

// recoveryTarget is the fraction of full recovery reached at the
// adjusted recovery window. The curve constant k is derived from it so
// that recovery(adjustedHours) = 95%.
const recoveryTarget = 0.95

// AdjustedRecoveryHours scales a muscle group's base recovery window by
// the severity of the last session's fatigue: a maximally fatiguing
// session lengthens the window by 50%, a light one shortens it by 20%.
func AdjustedRecoveryHours(muscle models.MuscleGroup, fatigueScore float64) float64 {
	factor := models.Clamp(1+(fatigueScore-50)/200, 0.8, 1.5)
	return muscle.BaseRecoveryHours() * factor
}

// Percentage returns the recovery percentage in [0,100] after
// hoursElapsed of rest. Monotonically non-decreasing in elapsed time
// and asymptotic to 100.
func Percentage(muscle models.MuscleGroup, fatigueScore, hoursElapsed float64) float64 {
	if hoursElapsed <= 0 {
		return 0
	}
	adjusted := AdjustedRecoveryHours(muscle, fatigueScore)
	k := -math.Log(1-recoveryTarget) / adjusted
	pct := 100 * (1 - math.Exp(-k*hoursElapsed))
	return models.Clamp(pct, 0, 100)
}

// FullRecoveryAt estimates when the muscle group reaches the 95%
// recovery target, for "hours until ready" displays.
func FullRecoveryAt(muscle models.MuscleGroup, fatigueScore float64, lastTrained time.Time) time.Time {
	hours := AdjustedRecoveryHours(muscle, fatigueScore)
	return lastTrained.Add(time.Duration(hours * float64(time.Hour)))
}

// Profile is the per (athlete, muscle group) recovery state derived
// from session history. It is always re-derivable; cached copies are
// never authoritative.
type Profile struct {
	MuscleGroup    models.MuscleGroup `json:"muscle_group"`
	LastTrained    *time.Time         `json:"last_trained,omitempty"`
	LastFatigue    float64            `json:"last_fatigue"`
	RecoveryPct    float64            `json:"recovery_pct"`
	Readiness      float64            `json:"readiness"`
	FullRecoveryAt *time.Time         `json:"full_recovery_at,omitempty"`
}

// BuildProfile derives the recovery profile for one muscle group at
// the given evaluation time. A nil lastTrained means the muscle has no
// training history: it is treated as fully recovered.
func BuildProfile(muscle models.MuscleGroup, lastTrained *time.Time, lastFatigue float64, recentScores []float64, now time.Time) Profile {
	p := Profile{
		MuscleGroup: muscle,
		LastTrained: lastTrained,
		LastFatigue: lastFatigue,
	}
	if lastTrained == nil {
		p.RecoveryPct = 100
		p.Readiness = Score(100, recentScores, nil)
		return p
	}

	hours := now.Sub(*lastTrained).Hours()
	p.RecoveryPct = Percentage(muscle, lastFatigue, hours)
	full := FullRecoveryAt(muscle, lastFatigue, *lastTrained)
	p.FullRecoveryAt = &full
	p.Readiness = Score(p.RecoveryPct, recentScores, &hours)
	return p
}
