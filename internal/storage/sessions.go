package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftready/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertSession persists a completed session and its sets in one
// transaction. Re-inserting the same session ID is a no-op.
func (db *DB) InsertSession(ctx context.Context, session models.SessionRecord) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO sessions (id, athlete_id, started_at, ended_at, total_load)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		session.ID, session.AthleteID, session.StartedAt, session.EndedAt, session.TotalLoad)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tx.Commit(ctx)
	}

	if len(session.Sets) > 0 {
		if err := insertSets(ctx, tx, session.ID, session.Sets); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func insertSets(ctx context.Context, tx pgx.Tx, sessionID uuid.UUID, sets []models.SetRecord) error {
	const cols = 13
	query := `INSERT INTO set_records (session_id, exercise_id, set_number,
		prescribed_reps, prescribed_rpe, weight, reps, actual_rpe, rir,
		completed, reached_failure, form_breakdown, logged_at) VALUES `
	args := make([]any, 0, len(sets)*cols)
	valueStrings := make([]string, 0, len(sets))

	for i, s := range sets {
		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			base+8, base+9, base+10, base+11, base+12, base+13,
		))
		args = append(args, sessionID, s.ExerciseID, s.SetNumber,
			s.PrescribedReps, s.PrescribedRPE, s.Weight, s.Reps, s.ActualRPE, s.RIR,
			s.Completed, s.ReachedFailure, s.FormBreakdown, s.Timestamp)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting set records: %w", err)
	}
	return nil
}

// ListSessions retrieves an athlete's sessions started at or after
// since, ascending by start time, with sets ordered within each
// session. The ascending order is part of the engine's contract: the
// fitness-fatigue model folds the result sequentially.
func (db *DB) ListSessions(ctx context.Context, athleteID uuid.UUID, since time.Time) ([]models.SessionRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, athlete_id, started_at, ended_at, total_load
		 FROM sessions
		 WHERE athlete_id = $1 AND started_at >= $2
		 ORDER BY started_at ASC`,
		athleteID, since)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.SessionRecord
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var s models.SessionRecord
		if err := rows.Scan(&s.ID, &s.AthleteID, &s.StartedAt, &s.EndedAt, &s.TotalLoad); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		index[s.ID] = len(sessions)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	setRows, err := db.Pool.Query(ctx,
		`SELECT sr.session_id, sr.exercise_id, sr.set_number, sr.prescribed_reps,
		        sr.prescribed_rpe, sr.weight, sr.reps, sr.actual_rpe, sr.rir,
		        sr.completed, sr.reached_failure, sr.form_breakdown, sr.logged_at
		 FROM set_records sr
		 JOIN sessions s ON s.id = sr.session_id
		 WHERE s.athlete_id = $1 AND s.started_at >= $2
		 ORDER BY s.started_at ASC, sr.logged_at ASC, sr.set_number ASC`,
		athleteID, since)
	if err != nil {
		return nil, fmt.Errorf("querying set records: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var sessionID uuid.UUID
		var set models.SetRecord
		if err := setRows.Scan(&sessionID, &set.ExerciseID, &set.SetNumber, &set.PrescribedReps,
			&set.PrescribedRPE, &set.Weight, &set.Reps, &set.ActualRPE, &set.RIR,
			&set.Completed, &set.ReachedFailure, &set.FormBreakdown, &set.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning set record: %w", err)
		}
		if i, ok := index[sessionID]; ok {
			sessions[i].Sets = append(sessions[i].Sets, set)
		}
	}
	return sessions, setRows.Err()
}
