package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/claude/liftready/internal/models"
	"github.com/google/uuid"
)

// InsertFatigueSnapshots appends per-muscle fatigue observations.
// The log is append-only; conflicts on (session, muscle) are ignored.
func (db *DB) InsertFatigueSnapshots(ctx context.Context, snapshots []models.FatigueSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	const cols = 9
	query := `INSERT INTO fatigue_snapshots (athlete_id, session_id, muscle_group,
		score, avg_rpe_overshoot, form_breakdowns, failures, volume_load, recorded_at) VALUES `
	args := make([]any, 0, len(snapshots)*cols)
	valueStrings := make([]string, 0, len(snapshots))

	for i, s := range snapshots {
		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))
		args = append(args, s.AthleteID, s.SessionID, string(s.MuscleGroup),
			s.Score, s.AvgRPEOvershoot, s.FormBreakdowns, s.Failures, s.VolumeLoad, s.RecordedAt)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"
	if _, err := db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting fatigue snapshots: %w", err)
	}
	return nil
}

// ListRecentFatigueSnapshots retrieves the newest snapshots for one
// muscle group, descending by recording time.
func (db *DB) ListRecentFatigueSnapshots(ctx context.Context, athleteID uuid.UUID, muscle models.MuscleGroup, limit int) ([]models.FatigueSnapshot, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT athlete_id, session_id, muscle_group, score, avg_rpe_overshoot,
		        form_breakdowns, failures, volume_load, recorded_at
		 FROM fatigue_snapshots
		 WHERE athlete_id = $1 AND muscle_group = $2
		 ORDER BY recorded_at DESC
		 LIMIT $3`,
		athleteID, string(muscle), limit)
	if err != nil {
		return nil, fmt.Errorf("querying fatigue snapshots: %w", err)
	}
	defer rows.Close()

	var result []models.FatigueSnapshot
	for rows.Next() {
		var s models.FatigueSnapshot
		var mg string
		if err := rows.Scan(&s.AthleteID, &s.SessionID, &mg, &s.Score, &s.AvgRPEOvershoot,
			&s.FormBreakdowns, &s.Failures, &s.VolumeLoad, &s.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning fatigue snapshot: %w", err)
		}
		s.MuscleGroup = models.MuscleGroup(mg)
		result = append(result, s)
	}
	return result, rows.Err()
}
