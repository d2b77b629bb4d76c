// Package importer loads historical training logs from a SQLite
// export (one workout_sets row per logged set) into the session store,
// so the longitudinal models have history to work with from day one.
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/claude/liftready/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Stats tracks import progress.
type Stats struct {
	RowsRead         int
	RowsSkipped      int
	SessionsImported int
	SetsImported     int
}

// SessionStore is the destination for imported sessions.
type SessionStore interface {
	InsertSession(ctx context.Context, session models.SessionRecord) error
}

// Importer reads a training-log SQLite export and inserts sessions.
type Importer struct {
	store  SessionStore
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer.
func New(store SessionStore, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{store: store, log: log, dryRun: dryRun}
}

// Import reads every workout_sets row from the export at path and
// inserts the reconstructed sessions for the given athlete.
func (imp *Importer) Import(ctx context.Context, path string, athleteID uuid.UUID) (*Stats, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &imp.stats, fmt.Errorf("opening export %s: %w", path, err)
	}
	defer db.Close()

	rows, err := readRows(ctx, db)
	if err != nil {
		return &imp.stats, err
	}
	imp.stats.RowsRead = len(rows)

	sessions := imp.buildSessions(rows, athleteID)
	for _, session := range sessions {
		if imp.dryRun {
			imp.stats.SessionsImported++
			imp.stats.SetsImported += len(session.Sets)
			continue
		}
		if err := imp.store.InsertSession(ctx, session); err != nil {
			return &imp.stats, fmt.Errorf("inserting session %s: %w", session.ID, err)
		}
		imp.stats.SessionsImported++
		imp.stats.SetsImported += len(session.Sets)
	}
	return &imp.stats, nil
}

// setRow mirrors one workout_sets row in the export.
type setRow struct {
	SessionName string
	SessionDate time.Time
	Exercise    string
	SetNumber   int
	Weight      float64
	Reps        int
	RPE         *float64
	RIR         *float64
	IsWarmup    bool
	ToFailure   bool
}

func readRows(ctx context.Context, db *sql.DB) ([]setRow, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT session_name, session_date, exercise, set_number,
		        weight, reps, rpe, rir, is_warmup, to_failure
		 FROM workout_sets
		 ORDER BY session_date, session_name, exercise, set_number`)
	if err != nil {
		return nil, fmt.Errorf("querying workout_sets: %w", err)
	}
	defer rows.Close()

	var result []setRow
	for rows.Next() {
		var r setRow
		var dateStr string
		if err := rows.Scan(&r.SessionName, &dateStr, &r.Exercise, &r.SetNumber,
			&r.Weight, &r.Reps, &r.RPE, &r.RIR, &r.IsWarmup, &r.ToFailure); err != nil {
			return nil, fmt.Errorf("scanning workout_sets row: %w", err)
		}
		date, err := parseExportDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing session date %q: %w", dateStr, err)
		}
		r.SessionDate = date
		result = append(result, r)
	}
	return result, rows.Err()
}

func parseExportDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// buildSessions groups export rows into SessionRecords. Warmup sets
// are skipped: the models only consume working sets. An RPE missing
// from the export is derived from RIR when available (RPE = 10 − RIR).
func (imp *Importer) buildSessions(rows []setRow, athleteID uuid.UUID) []models.SessionRecord {
	type key struct {
		name string
		date time.Time
	}
	grouped := make(map[key][]setRow)
	for _, r := range rows {
		if r.IsWarmup {
			imp.stats.RowsSkipped++
			continue
		}
		k := key{name: r.SessionName, date: r.SessionDate}
		grouped[k] = append(grouped[k], r)
	}

	keys := make([]key, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].date.Equal(keys[j].date) {
			return keys[i].date.Before(keys[j].date)
		}
		return keys[i].name < keys[j].name
	})

	sessions := make([]models.SessionRecord, 0, len(keys))
	for _, k := range keys {
		group := grouped[k]
		session := models.SessionRecord{
			ID:        uuid.New(),
			AthleteID: athleteID,
			StartedAt: k.date,
			// Exports carry no end time; assume an hour.
			EndedAt: k.date.Add(time.Hour),
		}
		for _, r := range group {
			rpe := r.RPE
			if rpe == nil && r.RIR != nil {
				derived := models.Clamp(10-*r.RIR, 1, 10)
				rpe = &derived
			}
			session.Sets = append(session.Sets, models.SetRecord{
				ExerciseID:     r.Exercise,
				SetNumber:      r.SetNumber,
				Weight:         r.Weight,
				Reps:           r.Reps,
				ActualRPE:      rpe,
				RIR:            r.RIR,
				Completed:      true,
				ReachedFailure: r.ToFailure,
				Timestamp:      k.date,
			})
		}
		sessions = append(sessions, session)
	}
	return sessions
}
