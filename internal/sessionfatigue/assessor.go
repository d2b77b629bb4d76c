// Package sessionfatigue scores fatigue accumulating inside the
// current, in-progress workout from RPE overshoot, form breakdown,
// unintentional failure, and volume. It runs purely on the session's
// completed sets and never touches stored history.
package sessionfatigue

import (
	"math"
	"sort"

	"github.com/claude/liftready/internal/models"
)

// Severity tiers for an in-session fatigue score.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// alertThreshold is the score at which an alert object is attached.
// Below it the assessment carries no alert at all, not a zero-valued
// one.
const alertThreshold = 60

// unintentionalFailureRPE caps the actual RPE at which a failed set
// counts as unanticipated: failing at RPE ≤ 7 means the athlete did
// not see it coming.
const unintentionalFailureRPE = 7

// Factors breaks the score into its contributing terms.
type Factors struct {
	VolumeLoad            float64 `json:"volume_load"`
	AvgRPEOvershoot       float64 `json:"avg_rpe_overshoot"`
	FormBreakdowns        int     `json:"form_breakdowns"`
	UnintentionalFailures int     `json:"unintentional_failures"`
}

// Alert is the actionable warning attached only when the score crosses
// the alert threshold.
type Alert struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Assessment is the full in-session fatigue result.
type Assessment struct {
	Score              float64              `json:"score"`
	Severity           Severity             `json:"severity"`
	Factors            Factors              `json:"factors"`
	MuscleGroups       []models.MuscleGroup `json:"muscle_groups,omitempty"`
	ShouldReduceWeight bool                 `json:"should_reduce_weight"`
	Alert              *Alert               `json:"alert,omitempty"`
}

// Assess scores the completed sets of the current session. Zero
// completed sets yields score 0, severity mild, and no alert. muscles
// may be nil; affected muscle groups are then omitted.
func Assess(sets []models.SetRecord, muscles models.MuscleLookup) Assessment {
	f := collectFactors(sets)

	score := math.Min(40, f.VolumeLoad/1000)
	score += math.Max(0, f.AvgRPEOvershoot*10)
	score += 10 * float64(f.FormBreakdowns)
	score += 15 * float64(f.UnintentionalFailures)
	score = models.Clamp(score, 0, 100)

	severity := severityFor(score, f)

	a := Assessment{
		Score:              score,
		Severity:           severity,
		Factors:            f,
		MuscleGroups:       affectedMuscles(sets, muscles),
		ShouldReduceWeight: score >= alertThreshold || severity == SeverityHigh || severity == SeverityCritical,
	}
	if score >= alertThreshold {
		a.Alert = &Alert{Severity: severity, Message: alertMessage(severity)}
	}
	return a
}

func collectFactors(sets []models.SetRecord) Factors {
	var f Factors
	var overshootSum float64
	var overshootCount int

	for _, set := range sets {
		if !set.Completed {
			continue
		}
		f.VolumeLoad += set.Volume()
		if set.FormBreakdown {
			f.FormBreakdowns++
		}
		if set.ReachedFailure && set.ActualRPE != nil && *set.ActualRPE <= unintentionalFailureRPE {
			f.UnintentionalFailures++
		}
		if set.ActualRPE != nil && set.PrescribedRPE != nil {
			overshootSum += *set.ActualRPE - *set.PrescribedRPE
			overshootCount++
		}
	}
	if overshootCount > 0 {
		f.AvgRPEOvershoot = overshootSum / float64(overshootCount)
	}
	return f
}

// severityFor applies the count-based overrides before the score
// thresholds: enough form breakdowns or unanticipated failures force a
// tier regardless of the numeric score.
func severityFor(score float64, f Factors) Severity {
	switch {
	case score >= 85 || f.FormBreakdowns >= 3 || f.UnintentionalFailures >= 2:
		return SeverityCritical
	case score >= 70 || f.FormBreakdowns >= 2 || f.UnintentionalFailures >= 1:
		return SeverityHigh
	case score >= 55 || f.AvgRPEOvershoot >= 2:
		return SeverityModerate
	default:
		return SeverityMild
	}
}

func affectedMuscles(sets []models.SetRecord, muscles models.MuscleLookup) []models.MuscleGroup {
	if muscles == nil {
		return nil
	}
	seen := make(map[models.MuscleGroup]bool)
	for _, set := range sets {
		if !set.Completed {
			continue
		}
		for _, m := range muscles.MusclesFor(set.ExerciseID) {
			seen[m] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]models.MuscleGroup, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func alertMessage(s Severity) string {
	switch s {
	case SeverityCritical:
		return "severe fatigue detected this session; stop or drastically reduce remaining work"
	case SeverityHigh:
		return "high fatigue accumulating this session; reduce weight on remaining sets"
	default:
		return "fatigue is building this session; watch form and effort on remaining sets"
	}
}
