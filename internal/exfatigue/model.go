// Package exfatigue estimates a per-exercise baseline fatigue rate
// from the athlete's own set sequences: how quickly performance
// declines across sets within a session of that exercise. Exercises
// with thin history fall back to a population default so callers can
// gate on confidence.
package exfatigue

import (
	"math"

	"github.com/claude/liftready/internal/models"
)

const (
	// DefaultRate is the population baseline fatigue rate used when an
	// exercise has too little history for its own estimate to be
	// trusted.
	DefaultRate = 0.15

	// MinSessions gates confidence: below this many observed sessions
	// the per-exercise estimate is reported with its low sample size
	// and shrunk heavily toward the default.
	MinSessions = 3

	// priorWeight is the pseudo-count weight of the population default
	// in the shrinkage blend. At the MinSessions gate the per-exercise
	// estimate carries 60% of the blend and dominates from there on.
	priorWeight = 2.0
)

// ExerciseRate is one exercise's estimated baseline fatigue rate with
// the sample size that backs it.
type ExerciseRate struct {
	Rate       float64 `json:"rate"`
	SampleSize int     `json:"sample_size"`
}

// Model maps exercise identifiers to their fatigue rates. Built from
// full history; cached per athlete between rebuilds.
type Model struct {
	Rates map[string]ExerciseRate `json:"rates"`
}

// RateFor returns the exercise's rate, or the population default with
// sample size zero when the exercise has never been observed.
func (m *Model) RateFor(exerciseID string) ExerciseRate {
	if m != nil {
		if r, ok := m.Rates[exerciseID]; ok {
			return r
		}
	}
	return ExerciseRate{Rate: DefaultRate, SampleSize: 0}
}

// Build estimates rates from the athlete's session history. Each
// session contributes one observation per exercise: the fractional
// per-set decline in set performance (weight × reps, adjusted upward
// when RPE climbs across the session). Observations are pooled per
// exercise and shrunk toward the population default.
func Build(sessions []models.SessionRecord) *Model {
	observations := make(map[string][]float64)

	for _, session := range sessions {
		for exercise, sets := range setsByExercise(session) {
			if rate, ok := sessionRate(sets); ok {
				observations[exercise] = append(observations[exercise], rate)
			}
		}
	}

	m := &Model{Rates: make(map[string]ExerciseRate, len(observations))}
	for exercise, rates := range observations {
		n := float64(len(rates))
		var sum float64
		for _, r := range rates {
			sum += r
		}
		pooled := sum / n
		blended := (n*pooled + priorWeight*DefaultRate) / (n + priorWeight)
		m.Rates[exercise] = ExerciseRate{Rate: blended, SampleSize: len(rates)}
	}
	return m
}

// setsByExercise groups a session's completed working sets by
// exercise, preserving set order.
func setsByExercise(session models.SessionRecord) map[string][]models.SetRecord {
	groups := make(map[string][]models.SetRecord)
	for _, set := range session.Sets {
		if !set.Completed {
			continue
		}
		groups[set.ExerciseID] = append(groups[set.ExerciseID], set)
	}
	return groups
}

// sessionRate estimates the within-session fatigue rate for one
// exercise from the decline between the first and last set, expressed
// as a fraction of first-set performance lost per subsequent set. An
// RPE climb across the session adds to the rate: holding output steady
// at rising effort is still fatigue.
func sessionRate(sets []models.SetRecord) (float64, bool) {
	if len(sets) < 2 {
		return 0, false
	}
	first, last := sets[0], sets[len(sets)-1]
	firstPerf := first.Volume()
	if firstPerf <= 0 {
		return 0, false
	}

	decline := (firstPerf - last.Volume()) / firstPerf / float64(len(sets)-1)

	if first.ActualRPE != nil && last.ActualRPE != nil {
		rpeClimb := (*last.ActualRPE - *first.ActualRPE) / float64(len(sets)-1)
		if rpeClimb > 0 {
			// One RPE point of climb per set reads as ~5% extra decline.
			decline += rpeClimb * 0.05
		}
	}

	return math.Max(0, decline), true
}
