package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/claude/liftready/internal/config"
	"github.com/claude/liftready/internal/engine"
	liftmcp "github.com/claude/liftready/internal/mcp"
	"github.com/claude/liftready/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	athlete := flag.String("athlete", "", "athlete UUID this MCP session is scoped to (required)")
	flag.Parse()

	// NewTextHandler on stderr: stdout belongs to the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *athlete == "" {
		log.Error("missing required -athlete flag")
		os.Exit(1)
	}
	athleteID, err := uuid.Parse(*athlete)
	if err != nil {
		log.Error("invalid athlete UUID", "athlete", *athlete, "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	engCfg := engine.DefaultConfig()
	if ttl := cfg.Engine.CacheTTL.Std(); ttl > 0 {
		engCfg.CacheTTL = ttl
	}
	if cfg.Engine.DefaultBaselineWeight > 0 {
		engCfg.DefaultBaselineWeight = cfg.Engine.DefaultBaselineWeight
	}
	eng := engine.New(db, nil, engCfg, log)

	s := liftmcp.New(eng, Version, log)
	log.Info("MCP server starting on stdio", "athlete", athleteID)

	err = server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return liftmcp.WithAthleteID(ctx, athleteID)
	}))
	if err != nil {
		log.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
