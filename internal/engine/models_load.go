package engine

import (
	"context"
	"time"

	"github.com/claude/liftready/internal/acwr"
	"github.com/claude/liftready/internal/exfatigue"
	"github.com/claude/liftready/internal/fitfatigue"
	"github.com/claude/liftready/internal/models"
	"github.com/claude/liftready/internal/recovery"
	"github.com/google/uuid"
)

// The cache-or-compute loaders below share the degradation policy:
// every loader returns its best available value plus ok=false when an
// upstream storage failure forced a fallback. Callers fold ok into the
// result's confidence; the failure itself stops here.

func (e *Engine) acwrResult(ctx context.Context, athleteID uuid.UUID, now time.Time) (acwr.Result, bool) {
	if cached, ok := e.cache.GetACWR(athleteID); ok {
		return cached, true
	}

	sessions, err := e.store.ListSessions(ctx, athleteID, now.AddDate(0, 0, -acwrWindowDays))
	if err != nil {
		e.log.Warn("acwr degraded to neutral", "athlete", athleteID, "error", err)
		return acwr.Neutral(), false
	}

	points := make([]acwr.LoadPoint, 0, len(sessions))
	for _, s := range sessions {
		points = append(points, acwr.LoadPoint{Date: s.StartedAt, Load: s.Load()})
	}
	result := acwr.Compute(points, now)
	e.cache.PutACWR(athleteID, result)
	return result, true
}

func (e *Engine) fitnessFatigueState(ctx context.Context, athleteID uuid.UUID, now time.Time) (fitfatigue.State, bool) {
	if cached, ok := e.cache.GetFitnessFatigue(athleteID); ok {
		return cached, true
	}

	sessions, err := e.store.ListSessions(ctx, athleteID, now.AddDate(0, 0, -modelWindowDays))
	if err != nil {
		e.log.Warn("fitness-fatigue degraded to empty state", "athlete", athleteID, "error", err)
		return fitfatigue.State{}, false
	}

	loads := make([]fitfatigue.SessionLoad, 0, len(sessions))
	for _, s := range sessions {
		loads = append(loads, fitfatigue.SessionLoad{Date: s.StartedAt, Load: s.Load()})
	}
	state := fitfatigue.Replay(loads)
	e.cache.PutFitnessFatigue(athleteID, state)
	return state, true
}

func (e *Engine) hierarchicalModel(ctx context.Context, athleteID uuid.UUID, now time.Time) (*exfatigue.Model, bool) {
	if cached, ok := e.cache.GetHierarchical(athleteID); ok {
		return cached, true
	}

	sessions, err := e.store.ListSessions(ctx, athleteID, now.AddDate(0, 0, -modelWindowDays))
	if err != nil {
		e.log.Warn("hierarchical model degraded to defaults", "athlete", athleteID, "error", err)
		return nil, false
	}

	model := exfatigue.Build(sessions)
	e.cache.PutHierarchical(athleteID, model)
	return model, true
}

// recoveryProfiles derives per-muscle recovery state. Fatigue
// snapshots are the primary source (last-trained time and last fatigue
// severity); muscles trained inside the recovery window but missing
// snapshots fall back to session scanning with the default fatigue
// severity.
func (e *Engine) recoveryProfiles(ctx context.Context, athleteID uuid.UUID, now time.Time) ([]recovery.Profile, bool) {
	if cached, ok := e.cache.GetRecoveryProfiles(athleteID); ok {
		return cached, true
	}

	sessions, err := e.store.ListSessions(ctx, athleteID, now.AddDate(0, 0, -recoveryWindowDays))
	if err != nil {
		e.log.Warn("recovery profiles degraded to empty", "athlete", athleteID, "error", err)
		return nil, false
	}

	lastTrained := make(map[models.MuscleGroup]time.Time)
	for _, s := range sessions {
		for _, set := range s.Sets {
			if !set.Completed {
				continue
			}
			trainedAt := set.Timestamp
			if trainedAt.IsZero() {
				trainedAt = s.StartedAt
			}
			for _, m := range e.muscles.MusclesFor(set.ExerciseID) {
				if trainedAt.After(lastTrained[m]) {
					lastTrained[m] = trainedAt
				}
			}
		}
	}

	degraded := false
	profiles := make([]recovery.Profile, 0, len(lastTrained))
	for _, m := range models.AllMuscleGroups() {
		trained, ok := lastTrained[m]
		if !ok {
			continue
		}

		lastFatigue := defaultFatigue
		var recentScores []float64
		snapshots, err := e.store.ListRecentFatigueSnapshots(ctx, athleteID, m, snapshotLimit)
		if err != nil {
			e.log.Warn("fatigue snapshots unavailable", "athlete", athleteID, "muscle", m, "error", err)
			degraded = true
		} else if len(snapshots) > 0 {
			lastFatigue = snapshots[0].Score
			for _, snap := range snapshots {
				recentScores = append(recentScores, snap.Score)
			}
		}

		t := trained
		profiles = append(profiles, recovery.BuildProfile(m, &t, lastFatigue, recentScores, now))
	}

	if !degraded {
		e.cache.PutRecoveryProfiles(athleteID, profiles)
	}
	return profiles, !degraded
}
