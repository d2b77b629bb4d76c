package recovery

import (
	"math"

	"github.com/claude/liftready/internal/models"
)

// maxRecentScores is how many chronic-fatigue snapshots feed the
// readiness score. Older history is already reflected in the recovery
// percentage.
const maxRecentScores = 5

// Score combines recovery percentage, chronic-fatigue history, and
// training-frequency penalties into a 1–10 readiness score, rounded to
// one decimal. recentScores are the most-recent fatigue snapshot
// scores for the muscle, newest first; hoursSince is nil when the
// last-trained time is unknown.
func Score(recoveryPct float64, recentScores []float64, hoursSince *float64) float64 {
	if len(recentScores) > maxRecentScores {
		recentScores = recentScores[:maxRecentScores]
	}

	base := recoveryPct / 10
	score := base - chronicFatiguePenalty(recentScores) - frequencyPenalty(hoursSince, len(recentScores))
	score = models.Clamp(score, 1, 10)
	return math.Round(score*10) / 10
}

// chronicFatiguePenalty penalizes both sustained and peak recent
// fatigue. Scores below 5 carry no penalty at all.
func chronicFatiguePenalty(recentScores []float64) float64 {
	if len(recentScores) == 0 {
		return 0
	}
	var sum, max float64
	for _, s := range recentScores {
		sum += s
		if s > max {
			max = s
		}
	}
	avg := sum / float64(len(recentScores))

	penalty := math.Max(0, (avg-5)/10) + 0.5*math.Max(0, (max-20)/15)
	return math.Min(5, penalty)
}

// frequencyPenalty discourages training the same muscle again too
// soon. When the elapsed time is unknown but at least two recent
// snapshots exist, a flat 1-point penalty applies.
func frequencyPenalty(hoursSince *float64, recentCount int) float64 {
	if hoursSince == nil {
		if recentCount >= 2 {
			return 1
		}
		return 0
	}
	switch h := *hoursSince; {
	case h < 12:
		return 3
	case h < 24:
		return 2
	case h < 36:
		return 1.5
	case h < 48:
		return 1
	default:
		return 0
	}
}
