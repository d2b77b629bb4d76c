package models

import "strings"

// MuscleGroup is a static reference label for a trainable muscle group.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleLats       MuscleGroup = "lats"
	MuscleUpperBack  MuscleGroup = "upper_back"
	MuscleLowerBack  MuscleGroup = "lower_back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleForearms   MuscleGroup = "forearms"
	MuscleQuads      MuscleGroup = "quads"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCalves     MuscleGroup = "calves"
	MuscleCore       MuscleGroup = "core"
	MuscleTraps      MuscleGroup = "traps"
)

// baseRecoveryHours is the time to 95% recovery after a session of
// average fatigue. Large/systemic groups recover slower.
var baseRecoveryHours = map[MuscleGroup]float64{
	MuscleChest:      48,
	MuscleLats:       48,
	MuscleUpperBack:  48,
	MuscleLowerBack:  72,
	MuscleShoulders:  36,
	MuscleBiceps:     24,
	MuscleTriceps:    24,
	MuscleForearms:   24,
	MuscleQuads:      72,
	MuscleHamstrings: 72,
	MuscleGlutes:     72,
	MuscleCalves:     24,
	MuscleCore:       24,
	MuscleTraps:      36,
}

// defaultBaseRecoveryHours covers muscle groups missing from the table.
const defaultBaseRecoveryHours = 48

// BaseRecoveryHours returns the configured base recovery window for a
// muscle group, falling back to 48h for unknown labels.
func (m MuscleGroup) BaseRecoveryHours() float64 {
	if h, ok := baseRecoveryHours[m]; ok {
		return h
	}
	return defaultBaseRecoveryHours
}

// AllMuscleGroups lists every known muscle group in stable order.
func AllMuscleGroups() []MuscleGroup {
	return []MuscleGroup{
		MuscleChest, MuscleLats, MuscleUpperBack, MuscleLowerBack,
		MuscleShoulders, MuscleBiceps, MuscleTriceps, MuscleForearms,
		MuscleQuads, MuscleHamstrings, MuscleGlutes, MuscleCalves,
		MuscleCore, MuscleTraps,
	}
}

// MuscleLookup resolves which muscle groups an exercise trains. The
// taxonomy is owned by the application layer and injected here.
type MuscleLookup interface {
	MusclesFor(exerciseID string) []MuscleGroup
}

// MuscleLookupFunc adapts a function to MuscleLookup.
type MuscleLookupFunc func(exerciseID string) []MuscleGroup

func (f MuscleLookupFunc) MusclesFor(exerciseID string) []MuscleGroup {
	return f(exerciseID)
}

// defaultTaxonomy maps common exercise identifier substrings to the
// muscle groups they train. Seed data only; real deployments inject
// their own lookup.
var defaultTaxonomy = []struct {
	keyword string
	muscles []MuscleGroup
}{
	{"bench", []MuscleGroup{MuscleChest, MuscleTriceps, MuscleShoulders}},
	{"incline", []MuscleGroup{MuscleChest, MuscleShoulders}},
	{"fly", []MuscleGroup{MuscleChest}},
	{"dip", []MuscleGroup{MuscleChest, MuscleTriceps}},
	{"overhead_press", []MuscleGroup{MuscleShoulders, MuscleTriceps}},
	{"shoulder", []MuscleGroup{MuscleShoulders}},
	{"lateral_raise", []MuscleGroup{MuscleShoulders}},
	{"pull_up", []MuscleGroup{MuscleLats, MuscleBiceps}},
	{"pulldown", []MuscleGroup{MuscleLats, MuscleBiceps}},
	{"row", []MuscleGroup{MuscleUpperBack, MuscleLats, MuscleBiceps}},
	{"shrug", []MuscleGroup{MuscleTraps}},
	{"curl", []MuscleGroup{MuscleBiceps, MuscleForearms}},
	{"tricep", []MuscleGroup{MuscleTriceps}},
	{"pushdown", []MuscleGroup{MuscleTriceps}},
	{"deadlift", []MuscleGroup{MuscleLowerBack, MuscleHamstrings, MuscleGlutes}},
	{"squat", []MuscleGroup{MuscleQuads, MuscleGlutes}},
	{"leg_press", []MuscleGroup{MuscleQuads, MuscleGlutes}},
	{"lunge", []MuscleGroup{MuscleQuads, MuscleGlutes}},
	{"leg_extension", []MuscleGroup{MuscleQuads}},
	{"leg_curl", []MuscleGroup{MuscleHamstrings}},
	{"rdl", []MuscleGroup{MuscleHamstrings, MuscleGlutes, MuscleLowerBack}},
	{"hip_thrust", []MuscleGroup{MuscleGlutes, MuscleHamstrings}},
	{"calf", []MuscleGroup{MuscleCalves}},
	{"plank", []MuscleGroup{MuscleCore}},
	{"crunch", []MuscleGroup{MuscleCore}},
	{"ab_", []MuscleGroup{MuscleCore}},
}

// DefaultMuscleLookup is a keyword-based taxonomy over exercise
// identifiers like "barbell_bench_press". Unknown exercises map to no
// muscle groups; callers treat that as missing data, not an error.
func DefaultMuscleLookup() MuscleLookup {
	return MuscleLookupFunc(func(exerciseID string) []MuscleGroup {
		id := strings.ToLower(exerciseID)
		for _, entry := range defaultTaxonomy {
			if strings.Contains(id, entry.keyword) {
				return entry.muscles
			}
		}
		return nil
	})
}
