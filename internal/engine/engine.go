// Package engine is the readiness modeling facade: it turns stored
// session history into pre-workout readiness, per-set recommendations,
// and in-session fatigue assessments, caching the longitudinal models
// per athlete.
//
// Every public entry point returns a complete, usable result even on
// total data absence. Missing data resolves to documented defaults;
// storage failures degrade to the best locally-available state with a
// visibly reduced confidence; out-of-range values are clamped, never
// raised.
package engine

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/claude/liftready/internal/acwr"
	"github.com/claude/liftready/internal/fitfatigue"
	"github.com/claude/liftready/internal/modelcache"
	"github.com/claude/liftready/internal/models"
	"github.com/claude/liftready/internal/recovery"
	"github.com/claude/liftready/internal/sessionfatigue"
	"github.com/google/uuid"
)

// Storage is the injected persistence collaborator. ListSessions must
// return sessions in ascending start-time order with sets ordered
// within each session.
type Storage interface {
	ListSessions(ctx context.Context, athleteID uuid.UUID, since time.Time) ([]models.SessionRecord, error)
	ListRecentFatigueSnapshots(ctx context.Context, athleteID uuid.UUID, muscle models.MuscleGroup, limit int) ([]models.FatigueSnapshot, error)
	InsertSession(ctx context.Context, session models.SessionRecord) error
	InsertFatigueSnapshots(ctx context.Context, snapshots []models.FatigueSnapshot) error
}

// Confidence reflects how much of the modeling stack backed a result.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// History scan bounds, so a single request stays bounded regardless of
// account age.
const (
	recoveryWindowDays = 14
	acwrWindowDays     = 35
	modelWindowDays    = 90

	snapshotLimit = 5
)

// Defaults applied on missing data.
const (
	defaultReadiness = 7.0
	defaultFatigue   = 50.0
)

// Config carries the engine tunables.
type Config struct {
	// CacheTTL bounds how stale cached longitudinal models may get.
	CacheTTL time.Duration
	// DefaultBaselineWeight seeds recommendations for athletes with no
	// usable history.
	DefaultBaselineWeight float64
}

// DefaultConfig returns the standard engine tunables.
func DefaultConfig() Config {
	return Config{
		CacheTTL:              modelcache.DefaultTTL,
		DefaultBaselineWeight: 45,
	}
}

// Engine evaluates readiness models over an injected storage
// collaborator. Safe for concurrent use; the per-athlete cache is the
// only mutable shared state.
type Engine struct {
	store   Storage
	muscles models.MuscleLookup
	cache   *modelcache.Cache
	cfg     Config
	log     *slog.Logger
	now     func() time.Time
}

// New creates an engine. muscles may be nil, in which case the seed
// taxonomy is used.
func New(store Storage, muscles models.MuscleLookup, cfg Config, log *slog.Logger) *Engine {
	if muscles == nil {
		muscles = models.DefaultMuscleLookup()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = modelcache.DefaultTTL
	}
	if cfg.DefaultBaselineWeight <= 0 {
		cfg.DefaultBaselineWeight = DefaultConfig().DefaultBaselineWeight
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store:   store,
		muscles: muscles,
		cache:   modelcache.New(cfg.CacheTTL),
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

// SetClock overrides the engine's clock. Test hook; also propagated to
// the cache.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
	e.cache.SetClock(now)
}

// MuscleReadiness is one muscle group's entry in a readiness result.
type MuscleReadiness struct {
	MuscleGroup    models.MuscleGroup `json:"muscle_group"`
	RecoveryPct    float64            `json:"recovery_pct"`
	Readiness      float64            `json:"readiness"`
	LastTrained    *time.Time         `json:"last_trained,omitempty"`
	FullRecoveryAt *time.Time         `json:"full_recovery_at,omitempty"`
}

// ReadinessResult is the whole-athlete pre-workout picture.
type ReadinessResult struct {
	AthleteID      uuid.UUID         `json:"athlete_id"`
	GeneratedAt    time.Time         `json:"generated_at"`
	OverallScore   float64           `json:"overall_score"`
	Status         string            `json:"status"`
	ACWR           acwr.Result       `json:"acwr"`
	FitnessFatigue fitfatigue.State  `json:"fitness_fatigue"`
	NetPerformance float64           `json:"net_performance"`
	Muscles        []MuscleReadiness `json:"muscles"`
	Warnings       []string          `json:"warnings,omitempty"`
	Recommendations []string         `json:"recommendations,omitempty"`
	Confidence     Confidence        `json:"confidence"`
}

// GetPreWorkoutReadiness computes the athlete's readiness to train.
// plannedExercises, when given, focuses the overall score on the
// muscle groups those exercises train; otherwise every muscle with
// recent history contributes.
func (e *Engine) GetPreWorkoutReadiness(ctx context.Context, athleteID uuid.UUID, plannedExercises []string) ReadinessResult {
	now := e.now()
	result := ReadinessResult{
		AthleteID:    athleteID,
		GeneratedAt:  now,
		OverallScore: defaultReadiness,
		Status:       "good",
	}

	degraded := false

	acwrResult, ok := e.acwrResult(ctx, athleteID, now)
	if !ok {
		degraded = true
	}
	result.ACWR = acwrResult

	state, ok := e.fitnessFatigueState(ctx, athleteID, now)
	if !ok {
		degraded = true
	}
	result.FitnessFatigue = state
	result.NetPerformance = state.NetPerformance()

	profiles, ok := e.recoveryProfiles(ctx, athleteID, now)
	if !ok {
		degraded = true
	}

	focus := e.focusMuscles(plannedExercises, profiles)
	var scoreSum float64
	var scoreCount int
	for _, p := range profiles {
		mr := MuscleReadiness{
			MuscleGroup:    p.MuscleGroup,
			RecoveryPct:    p.RecoveryPct,
			Readiness:      p.Readiness,
			LastTrained:    p.LastTrained,
			FullRecoveryAt: p.FullRecoveryAt,
		}
		result.Muscles = append(result.Muscles, mr)
		if focus == nil || focus[p.MuscleGroup] {
			scoreSum += p.Readiness
			scoreCount++
		}
	}
	// Least-ready muscle first.
	sort.SliceStable(result.Muscles, func(i, j int) bool {
		return result.Muscles[i].Readiness < result.Muscles[j].Readiness
	})

	if scoreCount > 0 {
		result.OverallScore = math.Round(scoreSum/float64(scoreCount)*10) / 10
	}
	result.Status = readinessStatus(result.OverallScore)
	result.Warnings, result.Recommendations = e.readinessAdvice(result)
	result.Confidence = readinessConfidence(degraded, acwrResult, state, len(profiles))
	return result
}

func readinessStatus(score float64) string {
	switch {
	case score >= 8:
		return "ready"
	case score >= 6:
		return "good"
	case score >= 4:
		return "caution"
	default:
		return "rest"
	}
}

func (e *Engine) readinessAdvice(r ReadinessResult) (warnings, recommendations []string) {
	switch r.ACWR.Status {
	case acwr.StatusHighRisk, acwr.StatusCriticalRisk:
		warnings = append(warnings, acwr.Description(r.ACWR.Status))
		recommendations = append(recommendations, "cut planned volume until the workload ratio drops below 1.5")
	case acwr.StatusUndertraining:
		recommendations = append(recommendations, acwr.Description(r.ACWR.Status))
	}

	for _, m := range r.Muscles {
		if m.Readiness < 4 {
			warnings = append(warnings, string(m.MuscleGroup)+" is under-recovered; train a different muscle group or go light")
		}
	}

	if r.FitnessFatigue.Sessions > 0 && r.NetPerformance < 0 {
		warnings = append(warnings, "accumulated fatigue currently exceeds fitness; expect reduced performance")
	}
	if r.Status == "rest" {
		recommendations = append(recommendations, "today is best spent resting or doing light technique work")
	}
	return warnings, recommendations
}

func readinessConfidence(degraded bool, a acwr.Result, s fitfatigue.State, profileCount int) Confidence {
	if degraded {
		return ConfidenceLow
	}
	modelsAvailable := 0
	if a.DataPoints > 0 {
		modelsAvailable++
	}
	if s.Sessions > 0 {
		modelsAvailable++
	}
	if profileCount > 0 {
		modelsAvailable++
	}
	switch modelsAvailable {
	case 3:
		return ConfidenceHigh
	case 0:
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

// focusMuscles resolves plannedExercises to a muscle set, or nil when
// every profiled muscle should count.
func (e *Engine) focusMuscles(plannedExercises []string, profiles []recovery.Profile) map[models.MuscleGroup]bool {
	if len(plannedExercises) == 0 {
		return nil
	}
	focus := make(map[models.MuscleGroup]bool)
	for _, ex := range plannedExercises {
		for _, m := range e.muscles.MusclesFor(ex) {
			focus[m] = true
		}
	}
	if len(focus) == 0 {
		return nil
	}
	return focus
}

// AssessSessionFatigue scores the current in-progress session. Pure
// with respect to storage and the cache.
func (e *Engine) AssessSessionFatigue(completedSessionSets []models.SetRecord) sessionfatigue.Assessment {
	return sessionfatigue.Assess(completedSessionSets, e.muscles)
}

// RecordWorkoutCompletion persists the finished session, appends
// per-muscle fatigue snapshots derived from it, and invalidates the
// athlete's cached models so the next read recomputes from fresh
// history.
func (e *Engine) RecordWorkoutCompletion(ctx context.Context, athleteID uuid.UUID, session models.SessionRecord) error {
	// Invalidate regardless of persistence outcome: a partially
	// recorded workout must not leave stale models behind.
	defer e.cache.Invalidate(athleteID)

	session.AthleteID = athleteID
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if err := e.store.InsertSession(ctx, session); err != nil {
		return err
	}

	snapshots := e.buildFatigueSnapshots(session)
	if len(snapshots) == 0 {
		return nil
	}
	if err := e.store.InsertFatigueSnapshots(ctx, snapshots); err != nil {
		return err
	}
	return nil
}

// buildFatigueSnapshots derives one append-only fatigue observation
// per muscle group trained in the session, scoring each muscle on the
// subset of sets that hit it.
func (e *Engine) buildFatigueSnapshots(session models.SessionRecord) []models.FatigueSnapshot {
	byMuscle := make(map[models.MuscleGroup][]models.SetRecord)
	for _, set := range session.Sets {
		if !set.Completed {
			continue
		}
		for _, m := range e.muscles.MusclesFor(set.ExerciseID) {
			byMuscle[m] = append(byMuscle[m], set)
		}
	}

	recordedAt := session.EndedAt
	if recordedAt.IsZero() {
		recordedAt = e.now()
	}

	muscleOrder := make([]models.MuscleGroup, 0, len(byMuscle))
	for m := range byMuscle {
		muscleOrder = append(muscleOrder, m)
	}
	sort.Slice(muscleOrder, func(i, j int) bool { return muscleOrder[i] < muscleOrder[j] })

	snapshots := make([]models.FatigueSnapshot, 0, len(byMuscle))
	for _, m := range muscleOrder {
		sets := byMuscle[m]
		assessment := sessionfatigue.Assess(sets, nil)
		snapshots = append(snapshots, models.FatigueSnapshot{
			AthleteID:       session.AthleteID,
			SessionID:       session.ID,
			MuscleGroup:     m,
			Score:           assessment.Score,
			AvgRPEOvershoot: assessment.Factors.AvgRPEOvershoot,
			FormBreakdowns:  assessment.Factors.FormBreakdowns,
			Failures:        assessment.Factors.UnintentionalFailures,
			VolumeLoad:      assessment.Factors.VolumeLoad,
			RecordedAt:      recordedAt,
		})
	}
	return snapshots
}
