// Package acwr computes the acute:chronic workload ratio, a
// training-load-spike risk indicator comparing the last 7 days of load
// against the last 28.
package acwr

import "time"

// Window sizes in days. Fixed constants, not learned.
const (
	acuteDays   = 7
	chronicDays = 28
)

// minChronicPoints is the smallest chronic-window sample the ratio is
// trusted on. With fewer sessions the per-day averaging makes the
// ratio wildly unstable (a single session yields 28/7 = 4.0), so the
// result stays neutral until enough history accumulates.
const minChronicPoints = 4

// Status is the qualitative band for a ratio.
type Status string

const (
	StatusUndertraining Status = "undertraining"
	StatusOptimal       Status = "optimal"
	StatusBuilding      Status = "building"
	StatusHighRisk      Status = "high_risk"
	StatusCriticalRisk  Status = "critical_risk"
)

// LoadPoint is one day's (or session's) training load.
type LoadPoint struct {
	Date time.Time `json:"date"`
	Load float64   `json:"load"`
}

// Result is the computed ratio with its contributing averages.
type Result struct {
	AcuteLoad   float64 `json:"acute_load"`
	ChronicLoad float64 `json:"chronic_load"`
	Ratio       float64 `json:"ratio"`
	Status      Status  `json:"status"`
	// DataPoints counts the load entries inside the chronic window,
	// so callers can gauge how much history backed the ratio.
	DataPoints int `json:"data_points"`
}

// Neutral is the ratio reported when no chronic load exists: the
// athlete is treated as neither spiking nor detraining.
func Neutral() Result {
	return Result{AcuteLoad: 0, ChronicLoad: 0, Ratio: 1.0, Status: StatusOptimal}
}

// Compute derives the acute:chronic ratio at the given evaluation
// time. Loads are averaged per window day (Σ7/7 vs Σ28/28); a zero
// chronic load yields the neutral result.
func Compute(points []LoadPoint, now time.Time) Result {
	acuteCutoff := now.AddDate(0, 0, -acuteDays)
	chronicCutoff := now.AddDate(0, 0, -chronicDays)

	var acuteSum, chronicSum float64
	var count int
	for _, p := range points {
		if p.Date.After(now) || !p.Date.After(chronicCutoff) {
			continue
		}
		chronicSum += p.Load
		count++
		if p.Date.After(acuteCutoff) {
			acuteSum += p.Load
		}
	}

	if chronicSum == 0 || count < minChronicPoints {
		r := Neutral()
		r.DataPoints = count
		return r
	}

	acute := acuteSum / acuteDays
	chronic := chronicSum / chronicDays
	ratio := acute / chronic
	return Result{
		AcuteLoad:   acute,
		ChronicLoad: chronic,
		Ratio:       ratio,
		Status:      StatusFor(ratio),
		DataPoints:  count,
	}
}

// StatusFor maps a ratio onto its band. Bands are contiguous and
// exhaustive over non-negative ratios.
func StatusFor(ratio float64) Status {
	switch {
	case ratio < 0.8:
		return StatusUndertraining
	case ratio <= 1.3:
		return StatusOptimal
	case ratio <= 1.5:
		return StatusBuilding
	case ratio <= 2.0:
		return StatusHighRisk
	default:
		return StatusCriticalRisk
	}
}

// Description returns a human-readable explanation of a status for
// warning and recommendation copy.
func Description(s Status) string {
	switch s {
	case StatusUndertraining:
		return "training load is well below your recent baseline; fitness may be detraining"
	case StatusOptimal:
		return "training load is in the optimal range relative to your recent baseline"
	case StatusBuilding:
		return "training load is building faster than your baseline; monitor recovery"
	case StatusHighRisk:
		return "training load has spiked to a high-risk level; consider reducing volume"
	default:
		return "training load has spiked to a critical level; a deload is strongly advised"
	}
}
