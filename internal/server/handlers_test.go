package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/liftready/internal/engine"
	"github.com/claude/liftready/internal/models"
	"github.com/google/uuid"
)

const testAPIKey = "test-key"

// memStore is a minimal in-memory engine.Storage for handler tests.
type memStore struct {
	sessions  []models.SessionRecord
	snapshots []models.FatigueSnapshot
}

func (m *memStore) ListSessions(_ context.Context, _ uuid.UUID, since time.Time) ([]models.SessionRecord, error) {
	var out []models.SessionRecord
	for _, s := range m.sessions {
		if s.StartedAt.After(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListRecentFatigueSnapshots(_ context.Context, _ uuid.UUID, muscle models.MuscleGroup, limit int) ([]models.FatigueSnapshot, error) {
	var out []models.FatigueSnapshot
	for _, snap := range m.snapshots {
		if snap.MuscleGroup == muscle && len(out) < limit {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (m *memStore) InsertSession(_ context.Context, session models.SessionRecord) error {
	m.sessions = append(m.sessions, session)
	return nil
}

func (m *memStore) InsertFatigueSnapshots(_ context.Context, snapshots []models.FatigueSnapshot) error {
	m.snapshots = append(m.snapshots, snapshots...)
	return nil
}

func newTestServer(store *memStore) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(store, nil, engine.DefaultConfig(), log)
	return New(eng, testAPIKey, log)
}

// TestHandleReadiness verifies the readiness endpoint returns a
// complete result for an athlete with no history.
func TestHandleReadiness(t *testing.T) {
	srv := newTestServer(&memStore{})
	athleteID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/athletes/"+athleteID.String()+"/readiness", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result engine.ReadinessResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.AthleteID != athleteID {
		t.Errorf("athlete_id = %v, want %v", result.AthleteID, athleteID)
	}
	if result.OverallScore != 7.0 {
		t.Errorf("overall_score = %v, want default 7.0", result.OverallScore)
	}
	if result.Confidence != engine.ConfidenceLow {
		t.Errorf("confidence = %v, want low", result.Confidence)
	}
}

// TestHandleReadinessInvalidID verifies a malformed athlete ID is a
// 400, not a panic or a default result.
func TestHandleReadinessInvalidID(t *testing.T) {
	srv := newTestServer(&memStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/athletes/not-a-uuid/readiness", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestHandleRecommendation verifies the recommendation endpoint
// round-trips a valid request.
func TestHandleRecommendation(t *testing.T) {
	srv := newTestServer(&memStore{})
	athleteID := uuid.New()

	body, _ := json.Marshal(map[string]any{
		"exercise_id": "barbell_bench_press",
		"set_number":  1,
		"target_reps": 8,
	})
	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/athletes/"+athleteID.String()+"/recommendation", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var result engine.SetRecommendation
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.ExerciseID != "barbell_bench_press" {
		t.Errorf("exercise_id = %q", result.ExerciseID)
	}
	if result.Weight <= 0 {
		t.Errorf("weight = %v, want positive", result.Weight)
	}
	if result.BaselineSource != engine.BaselineDefault {
		t.Errorf("baseline_source = %v, want default for empty history", result.BaselineSource)
	}
}

// TestHandleRecommendationValidation verifies missing or invalid
// fields reject with 400.
func TestHandleRecommendationValidation(t *testing.T) {
	srv := newTestServer(&memStore{})
	athleteID := uuid.New()
	url := "/api/v1/athletes/" + athleteID.String() + "/recommendation"

	cases := []struct {
		name string
		body string
	}{
		{"malformed JSON", "{not json"},
		{"missing exercise", `{"target_reps":8}`},
		{"zero target reps", `{"exercise_id":"bench","target_reps":0}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader([]byte(tc.body)))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

// TestHandleSessionFatigue verifies the stateless fatigue endpoint
// scores a posted set list.
func TestHandleSessionFatigue(t *testing.T) {
	srv := newTestServer(&memStore{})

	body := `{"sets":[{"exercise_id":"bench","set_number":1,"weight":100,"reps":8,"completed":true,"form_breakdown":true}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session-fatigue", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result struct {
		Score   float64 `json:"score"`
		Factors struct {
			FormBreakdowns int `json:"form_breakdowns"`
		} `json:"factors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.Score <= 0 {
		t.Errorf("score = %v, want > 0", result.Score)
	}
	if result.Factors.FormBreakdowns != 1 {
		t.Errorf("form_breakdowns = %d, want 1", result.Factors.FormBreakdowns)
	}
}

// TestHandleCompleteSessionAuth walks the API-key states of the workout
// completion endpoint: missing key, wrong key, valid key.
func TestHandleCompleteSessionAuth(t *testing.T) {
	store := &memStore{}
	srv := newTestServer(store)
	athleteID := uuid.New()
	url := "/api/v1/athletes/" + athleteID.String() + "/sessions"

	session := models.SessionRecord{
		StartedAt: time.Now().Add(-time.Hour),
		EndedAt:   time.Now(),
		Sets: []models.SetRecord{
			{ExerciseID: "barbell_bench_press", SetNumber: 1, Weight: 100, Reps: 8, Completed: true},
		},
	}
	body, _ := json.Marshal(session)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("X-API-Key", testAPIKey)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("valid key: status = %d, want 202; body: %s", rec.Code, rec.Body.String())
	}

	if len(store.sessions) != 1 {
		t.Fatalf("stored sessions = %d, want 1", len(store.sessions))
	}
	if len(store.snapshots) == 0 {
		t.Error("no fatigue snapshots appended for the completed session")
	}
}

// TestHandleCompleteSessionValidation verifies a session without a
// start time rejects with 400.
func TestHandleCompleteSessionValidation(t *testing.T) {
	srv := newTestServer(&memStore{})
	athleteID := uuid.New()

	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/athletes/"+athleteID.String()+"/sessions", bytes.NewReader([]byte(`{"sets":[]}`)))
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
