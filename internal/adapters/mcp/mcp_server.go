// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/fast-cli/internal/domain"
	"github.com/xvierd/fast-cli/internal/ports"
)

const defaultHistoryLimit = 10

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, version string) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"fast-timer",
		version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_current_state",
			mcp.WithDescription("Get the current fast (state, elapsed, remaining, progress) plus history stats and goal progress"),
		),
		s.handleGetCurrentState,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_protocols",
			mcp.WithDescription("List the available fasting protocols"),
		),
		s.handleListProtocols,
	)

	historyTool := mcp.NewTool(
		"list_history",
		mcp.WithDescription("List finished fasts, most recent first"),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of records to return (default: 10)"),
		),
	)
	s.server.AddTool(historyTool, s.handleListHistory)

	startTool := mcp.NewTool(
		"start_fast",
		mcp.WithDescription("Start a fast with the given protocol"),
		mcp.WithString(
			"protocol",
			mcp.Description("Protocol name such as 16:8 (default: the configured default protocol)"),
		),
	)
	s.server.AddTool(startTool, s.handleStartFast)

	s.server.AddTool(
		mcp.NewTool(
			"pause_fast",
			mcp.WithDescription("Pause the running fast"),
		),
		s.handlePauseFast,
	)

	s.server.AddTool(
		mcp.NewTool(
			"resume_fast",
			mcp.WithDescription("Resume a paused fast"),
		),
		s.handleResumeFast,
	)

	s.server.AddTool(
		mcp.NewTool(
			"stop_fast",
			mcp.WithDescription("Stop the current fast and record it in history"),
		),
		s.handleStopFast,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// handleGetCurrentState handles the get_current_state tool.
func (s *Server) handleGetCurrentState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.GetCurrentState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current state: %w", err)
	}

	stats := map[string]interface{}{
		"completed_count":   state.Stats.CompletedCount,
		"current_streak":    state.Stats.CurrentStreak,
		"favorite_protocol": nil,
	}
	if state.Stats.FavoriteProtocolName != nil {
		stats["favorite_protocol"] = *state.Stats.FavoriteProtocolName
	}

	result := map[string]interface{}{
		"timer": snapshotData(state.Timer),
		"stats": stats,
		"goals": map[string]interface{}{
			"weekly_days": state.Goals.WeeklyDays,
			"weekly_goal": state.Goals.WeeklyGoal,
			"streak_days": state.Goals.StreakDays,
			"streak_goal": state.Goals.StreakGoal,
		},
	}
	if state.LastFinal != nil {
		result["just_finalized"] = recordData(state.LastFinal)
	}

	return jsonResult(result, "state")
}

// handleListProtocols handles the list_protocols tool.
func (s *Server) handleListProtocols(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	protocols, err := s.stateProvider.ListProtocols(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list protocols: %w", err)
	}

	list := make([]map[string]interface{}, 0, len(protocols))
	for _, p := range protocols {
		list = append(list, map[string]interface{}{
			"name":           p.Name,
			"fast_hours":     p.FastHours,
			"eat_hours":      p.EatHours,
			"target_seconds": p.TargetSeconds(),
			"label":          p.Label(),
		})
	}

	return jsonResult(map[string]interface{}{
		"protocols":   list,
		"total_count": len(list),
	}, "protocols")
}

// handleListHistory handles the list_history tool.
func (s *Server) handleListHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", defaultHistoryLimit))
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}

	records, err := s.stateProvider.ListHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	list := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		list = append(list, recordData(r))
	}

	return jsonResult(map[string]interface{}{
		"records":     list,
		"total_count": len(list),
	}, "history")
}

// handleStartFast handles the start_fast tool.
func (s *Server) handleStartFast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	protocol := request.GetString("protocol", "")

	snap, err := s.stateProvider.StartFast(ctx, protocol)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start fast: %v", err)), nil
	}

	return jsonResult(snapshotData(*snap), "fast")
}

// handlePauseFast handles the pause_fast tool.
func (s *Server) handlePauseFast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.stateProvider.PauseFast(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to pause fast: %v", err)), nil
	}

	return jsonResult(snapshotData(*snap), "fast")
}

// handleResumeFast handles the resume_fast tool.
func (s *Server) handleResumeFast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.stateProvider.ResumeFast(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to resume fast: %v", err)), nil
	}

	return jsonResult(snapshotData(*snap), "fast")
}

// handleStopFast handles the stop_fast tool.
func (s *Server) handleStopFast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	record, err := s.stateProvider.StopFast(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to stop fast: %v", err)), nil
	}

	return jsonResult(recordData(record), "record")
}

func snapshotData(snap domain.TimerSnapshot) map[string]interface{} {
	data := map[string]interface{}{
		"state":             string(snap.State),
		"label":             domain.GetStateLabel(snap.State),
		"protocol":          snap.ProtocolName,
		"elapsed_seconds":   snap.ElapsedSeconds,
		"remaining_seconds": snap.RemainingSeconds,
		"target_seconds":    snap.TargetSeconds,
		"elapsed":           domain.FormatClock(snap.ElapsedSeconds),
		"remaining":         domain.RemainingText(snap),
		"progress":          snap.Progress,
	}
	if snap.StartedAt != nil {
		data["started_at"] = snap.StartedAt.Format(time.RFC3339)
	}
	return data
}

func recordData(r *domain.SessionRecord) map[string]interface{} {
	return map[string]interface{}{
		"id":               r.ID,
		"date":             r.Date,
		"protocol":         r.ProtocolName,
		"duration_seconds": r.DurationSeconds,
		"duration":         domain.FormatHoursMinutes(r.DurationSeconds),
		"completed":        r.Completed,
	}
}

func jsonResult(v interface{}, what string) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
