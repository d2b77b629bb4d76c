package models

import (
	"time"

	"github.com/google/uuid"
)

// SetRecord is a single logged set. Records are created by the logging
// layer and are read-only to the engine.
type SetRecord struct {
	ExerciseID     string     `json:"exercise_id"`
	SetNumber      int        `json:"set_number"`
	PrescribedReps *int       `json:"prescribed_reps,omitempty"`
	PrescribedRPE  *float64   `json:"prescribed_rpe,omitempty"`
	Weight         float64    `json:"weight"`
	Reps           int        `json:"reps"`
	ActualRPE      *float64   `json:"actual_rpe,omitempty"`
	RIR            *float64   `json:"rir,omitempty"`
	Completed      bool       `json:"completed"`
	ReachedFailure bool       `json:"reached_failure"`
	FormBreakdown  bool       `json:"form_breakdown"`
	Timestamp      time.Time  `json:"timestamp"`
}

// Volume returns the set's volume load (weight × reps), zero for
// sets that were not completed.
func (s SetRecord) Volume() float64 {
	if !s.Completed {
		return 0
	}
	return s.Weight * float64(s.Reps)
}

// SessionRecord is one physical workout: an ordered sequence of sets
// plus timing. Never mutated by the engine.
type SessionRecord struct {
	ID        uuid.UUID   `json:"id"`
	AthleteID uuid.UUID   `json:"athlete_id"`
	StartedAt time.Time   `json:"started_at"`
	EndedAt   time.Time   `json:"ended_at"`
	TotalLoad *float64    `json:"total_load,omitempty"`
	Sets      []SetRecord `json:"sets"`
}

// Load returns the recorded total load when present, otherwise the
// computed fallback Σ weight×reps over completed sets.
func (s SessionRecord) Load() float64 {
	if s.TotalLoad != nil {
		return *s.TotalLoad
	}
	var total float64
	for _, set := range s.Sets {
		total += set.Volume()
	}
	return total
}

// FatigueSnapshot is one append-only per-muscle fatigue observation
// taken at session completion. The readiness scorer reads these as
// chronic-fatigue history.
type FatigueSnapshot struct {
	AthleteID       uuid.UUID   `json:"athlete_id"`
	SessionID       uuid.UUID   `json:"session_id"`
	MuscleGroup     MuscleGroup `json:"muscle_group"`
	Score           float64     `json:"score"`
	AvgRPEOvershoot float64     `json:"avg_rpe_overshoot"`
	FormBreakdowns  int         `json:"form_breakdowns"`
	Failures        int         `json:"failures"`
	VolumeLoad      float64     `json:"volume_load"`
	RecordedAt      time.Time   `json:"recorded_at"`
}

// EstimateE1RM estimates a one-rep max from a weight/rep pair using
// the Epley formula. Returns the weight itself for a single rep.
func EstimateE1RM(weight float64, reps int) float64 {
	if weight <= 0 || reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}

// WeightForReps inverts Epley: the working weight that corresponds to
// the given E1RM at the target rep count.
func WeightForReps(e1rm float64, reps int) float64 {
	if e1rm <= 0 || reps <= 0 {
		return 0
	}
	if reps == 1 {
		return e1rm
	}
	return e1rm / (1 + float64(reps)/30)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
