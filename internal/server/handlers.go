package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/claude/liftready/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	athleteID, err := uuid.Parse(chi.URLParam(r, "athleteID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid athlete id"})
		return
	}

	var planned []string
	if q := r.URL.Query().Get("exercises"); q != "" {
		planned = strings.Split(q, ",")
	}

	result := s.engine.GetPreWorkoutReadiness(r.Context(), athleteID, planned)
	writeJSON(w, http.StatusOK, result)
}

// recommendationRequest is the body for the per-set recommendation
// endpoint. CompletedSets are the sets already logged in the current,
// in-progress workout.
type recommendationRequest struct {
	ExerciseID    string             `json:"exercise_id"`
	SetNumber     int                `json:"set_number"`
	TargetReps    int                `json:"target_reps"`
	TargetRPE     *float64           `json:"target_rpe,omitempty"`
	CompletedSets []models.SetRecord `json:"completed_sets"`
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	athleteID, err := uuid.Parse(chi.URLParam(r, "athleteID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid athlete id"})
		return
	}

	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ExerciseID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id is required"})
		return
	}
	if req.TargetReps <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target_reps must be positive"})
		return
	}

	rec := s.engine.GetSetRecommendation(r.Context(), athleteID, req.ExerciseID,
		req.SetNumber, req.TargetReps, req.TargetRPE, req.CompletedSets)
	writeJSON(w, http.StatusOK, rec)
}

type sessionFatigueRequest struct {
	Sets []models.SetRecord `json:"sets"`
}

func (s *Server) handleSessionFatigue(w http.ResponseWriter, r *http.Request) {
	var req sessionFatigueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	assessment := s.engine.AssessSessionFatigue(req.Sets)
	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	athleteID, err := uuid.Parse(chi.URLParam(r, "athleteID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid athlete id"})
		return
	}

	var session models.SessionRecord
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if session.StartedAt.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "started_at is required"})
		return
	}

	if err := s.engine.RecordWorkoutCompletion(r.Context(), athleteID, session); err != nil {
		s.log.Error("workout completion failed", "athlete", athleteID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
