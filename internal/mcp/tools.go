package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/claude/liftready/internal/models"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// parseAthleteID resolves the athlete: an explicit parameter wins,
// otherwise the transport-injected context value applies.
func parseAthleteID(ctx context.Context, raw string) (uuid.UUID, error) {
	if raw == "" {
		return AthleteIDFromContext(ctx), nil
	}
	return uuid.Parse(raw)
}

// parseSets decodes a completed-sets JSON array parameter. An empty
// string is a valid empty session.
func parseSets(raw string) ([]models.SetRecord, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var sets []models.SetRecord
	if err := json.Unmarshal([]byte(raw), &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// --- Tool definitions ---

var toolGetReadiness = mcp.NewTool("get_readiness",
	mcp.WithDescription("Pre-workout readiness: overall 1-10 score, per-muscle recovery and readiness, workload ratio, fitness/fatigue state, warnings, and recommendations."),
	mcp.WithString("athlete_id", mcp.Description("Athlete UUID. Defaults to the session's athlete.")),
	mcp.WithString("exercises", mcp.Description("Comma-separated planned exercise identifiers (e.g. 'barbell_bench_press,barbell_row'). Focuses the overall score on the muscles those exercises train.")),
)

var toolGetSetRecommendation = mcp.NewTool("get_set_recommendation",
	mcp.WithDescription("Weight suggestion for the next set, with the baseline source, every applied adjustment and its reason, a confidence tag, and a fatigue alert when in-session fatigue is high."),
	mcp.WithString("athlete_id", mcp.Description("Athlete UUID. Defaults to the session's athlete.")),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise identifier (e.g. 'barbell_bench_press')")),
	mcp.WithNumber("set_number", mcp.Description("Upcoming set number within the workout. Defaults to 1.")),
	mcp.WithNumber("target_reps", mcp.Required(), mcp.Description("Planned rep count for the set")),
	mcp.WithNumber("target_rpe", mcp.Description("Planned RPE for the set (1-10)")),
	mcp.WithString("completed_sets", mcp.Description("JSON array of sets already completed in the current workout. Drives the in-session baseline and real-time fatigue override.")),
)

var toolAssessSessionFatigue = mcp.NewTool("assess_session_fatigue",
	mcp.WithDescription("Real-time fatigue score (0-100) for the current workout from RPE overshoot, form breakdowns, unintentional failures, and volume. Includes severity tier and affected muscle groups."),
	mcp.WithString("sets", mcp.Required(), mcp.Description("JSON array of the current session's completed sets")),
)

var toolGetTrainingLoad = mcp.NewTool("get_training_load",
	mcp.WithDescription("Training-load risk picture: acute:chronic workload ratio with its status band, plus the longitudinal fitness/fatigue/net-performance state."),
	mcp.WithString("athlete_id", mcp.Description("Athlete UUID. Defaults to the session's athlete.")),
)

// --- Tool handlers ---

func (h *handlers) getReadiness(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	athleteID, err := parseAthleteID(ctx, req.GetString("athlete_id", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid athlete_id: " + err.Error()), nil
	}

	var planned []string
	if raw := req.GetString("exercises", ""); raw != "" {
		planned = strings.Split(raw, ",")
	}

	readiness := h.eng.GetPreWorkoutReadiness(ctx, athleteID, planned)
	result, err := mcp.NewToolResultJSON(readiness)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSetRecommendation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	athleteID, err := parseAthleteID(ctx, req.GetString("athlete_id", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid athlete_id: " + err.Error()), nil
	}

	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	targetReps, err := req.RequireInt("target_reps")
	if err != nil || targetReps <= 0 {
		return mcp.NewToolResultError("target_reps must be a positive integer"), nil
	}
	setNumber := req.GetInt("set_number", 1)

	var targetRPE *float64
	if rpe := req.GetFloat("target_rpe", 0); rpe > 0 {
		targetRPE = &rpe
	}

	sets, err := parseSets(req.GetString("completed_sets", ""))
	if err != nil {
		h.log.Error("mcp get_set_recommendation: bad sets payload", "error", err)
		return mcp.NewToolResultError("completed_sets must be a JSON array of set records"), nil
	}

	rec := h.eng.GetSetRecommendation(ctx, athleteID, exercise, setNumber, targetReps, targetRPE, sets)
	result, err := mcp.NewToolResultJSON(rec)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) assessSessionFatigue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("sets")
	if err != nil {
		return mcp.NewToolResultError("sets parameter is required"), nil
	}
	sets, err := parseSets(raw)
	if err != nil {
		return mcp.NewToolResultError("sets must be a JSON array of set records"), nil
	}

	assessment := h.eng.AssessSessionFatigue(sets)
	result, err := mcp.NewToolResultJSON(assessment)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingLoad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	athleteID, err := parseAthleteID(ctx, req.GetString("athlete_id", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid athlete_id: " + err.Error()), nil
	}

	readiness := h.eng.GetPreWorkoutReadiness(ctx, athleteID, nil)
	payload := map[string]any{
		"acwr":            readiness.ACWR,
		"fitness_fatigue": readiness.FitnessFatigue,
		"net_performance": readiness.NetPerformance,
		"confidence":      readiness.Confidence,
	}
	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
