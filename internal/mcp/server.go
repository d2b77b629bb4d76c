package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/claude/liftready/internal/engine"
	"github.com/claude/liftready/internal/models"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const athleteIDKey contextKey = iota

// AthleteIDFromContext extracts the athlete ID injected by the
// transport layer. Falls back to the nil UUID, for which the engine
// returns its documented defaults.
func AthleteIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(athleteIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// WithAthleteID returns a context with the given athlete ID.
func WithAthleteID(ctx context.Context, athleteID uuid.UUID) context.Context {
	return context.WithValue(ctx, athleteIDKey, athleteID)
}

// New creates an MCP server with all tools and resources registered.
func New(eng *engine.Engine, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftReady", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftReady readiness modeling server. Query training readiness, per-set weight recommendations, in-session fatigue assessments, and training-load risk. All data is scoped to the given athlete."),
	)

	h := &handlers{eng: eng, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetReadiness, Handler: h.getReadiness},
		server.ServerTool{Tool: toolGetSetRecommendation, Handler: h.getSetRecommendation},
		server.ServerTool{Tool: toolAssessSessionFatigue, Handler: h.assessSessionFatigue},
		server.ServerTool{Tool: toolGetTrainingLoad, Handler: h.getTrainingLoad},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resReadinessSummary, Handler: h.readinessSummary},
		server.ServerResource{Resource: resMuscleCatalog, Handler: h.muscleCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	eng *engine.Engine
	log *slog.Logger
}

// --- Resource definitions ---

var resReadinessSummary = mcp.NewResource(
	"liftready://readiness_summary",
	"Readiness Summary",
	mcp.WithResourceDescription("The athlete's current per-muscle readiness, workload ratio, and fitness/fatigue state"),
	mcp.WithMIMEType("application/json"),
)

var resMuscleCatalog = mcp.NewResource(
	"liftready://muscle_catalog",
	"Muscle Catalog",
	mcp.WithResourceDescription("All modeled muscle groups with their base recovery windows"),
	mcp.WithMIMEType("application/json"),
)

// --- Resource handlers ---

func (h *handlers) readinessSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	athleteID := AthleteIDFromContext(ctx)
	result := h.eng.GetPreWorkoutReadiness(ctx, athleteID, nil)

	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) muscleCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	type entry struct {
		MuscleGroup       models.MuscleGroup `json:"muscle_group"`
		BaseRecoveryHours float64            `json:"base_recovery_hours"`
	}
	catalog := make([]entry, 0)
	for _, m := range models.AllMuscleGroups() {
		catalog = append(catalog, entry{MuscleGroup: m, BaseRecoveryHours: m.BaseRecoveryHours()})
	}

	data, err := json.Marshal(map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"muscles":      catalog,
	})
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
