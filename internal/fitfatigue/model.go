// Package fitfatigue implements the Banister two-factor
// impulse-response model: each session's load produces a slow-decaying
// fitness gain and a fast-decaying fatigue cost, and their difference
// estimates net performance.
package fitfatigue

import (
	"math"
	"sort"
	"time"
)

// Model parameters. Time constants follow the common CTL/ATL
// convention (42-day fitness, 7-day fatigue); the fatigue impulse is
// weighted higher than the fitness impulse so a hard session costs
// more in the short term than it gains in the long term.
const (
	fitnessTauDays = 42.0
	fatigueTauDays = 7.0
	fitnessGain    = 1.0
	fatigueGain    = 1.5

	// loadScale normalizes raw volume loads (weight × reps sums,
	// typically thousands) into impulse units.
	loadScale = 1.0 / 1000.0
)

// SessionLoad is one completed session's date and training load.
type SessionLoad struct {
	Date time.Time `json:"date"`
	Load float64   `json:"load"`
}

// State is the running model state. The zero value is the empty
// (untrained) starting state.
type State struct {
	Fitness     float64   `json:"fitness"`
	Fatigue     float64   `json:"fatigue"`
	LastSession time.Time `json:"last_session"`
	Sessions    int       `json:"sessions"`
}

// NetPerformance is the model's performance estimate: fitness minus
// fatigue.
func (s State) NetPerformance() float64 {
	return s.Fitness - s.Fatigue
}

// Fold applies one session to the state: both factors decay over the
// gap since the previous session, then the session's impulse is added.
// Sessions must be folded in non-decreasing date order; feeding them
// out of order produces an incorrect trajectory because the decay is
// multiplicative across each gap. Negative gaps are clamped to zero
// rather than rejected, so the damage of a misordered fold stays
// bounded but the result is still wrong.
func Fold(s State, session SessionLoad) State {
	gapDays := 0.0
	if s.Sessions > 0 {
		gapDays = session.Date.Sub(s.LastSession).Hours() / 24
		if gapDays < 0 {
			gapDays = 0
		}
	}

	impulse := session.Load * loadScale
	s.Fitness = s.Fitness*decay(gapDays, fitnessTauDays) + fitnessGain*impulse
	s.Fatigue = s.Fatigue*decay(gapDays, fatigueTauDays) + fatigueGain*impulse
	s.LastSession = session.Date
	s.Sessions++
	return s
}

// Replay rebuilds the state from scratch for the given sessions. The
// ordering contract is owned here, not by the caller: the input is
// copied and sorted chronologically before folding, so the result is
// deterministic for any permutation of the same sessions.
func Replay(sessions []SessionLoad) State {
	sorted := make([]SessionLoad, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var s State
	for _, session := range sorted {
		s = Fold(s, session)
	}
	return s
}

func decay(days, tau float64) float64 {
	if days <= 0 {
		return 1
	}
	return math.Exp(-days / tau)
}
