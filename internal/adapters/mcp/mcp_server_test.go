package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/fast-cli/internal/domain"
)

// mockStateProvider is a mock implementation of ports.MCPStateProvider for testing.
type mockStateProvider struct {
	currentState *domain.CurrentState
	history      []*domain.SessionRecord
	startErr     error
	lastProtocol string
	lastLimit    int
}

func (m *mockStateProvider) GetCurrentState(ctx context.Context) (*domain.CurrentState, error) {
	return m.currentState, nil
}

func (m *mockStateProvider) ListProtocols(ctx context.Context) ([]domain.Protocol, error) {
	return domain.DefaultProtocols(), nil
}

func (m *mockStateProvider) ListHistory(ctx context.Context, limit int) ([]*domain.SessionRecord, error) {
	m.lastLimit = limit
	if len(m.history) > limit {
		return m.history[:limit], nil
	}
	return m.history, nil
}

func (m *mockStateProvider) StartFast(ctx context.Context, protocolName string) (*domain.TimerSnapshot, error) {
	m.lastProtocol = protocolName
	if m.startErr != nil {
		return nil, m.startErr
	}
	sess := domain.NewSession()
	p, _ := domain.DefaultCatalog().Find("16:8")
	if err := sess.Start(p, time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)); err != nil {
		return nil, err
	}
	snap := sess.Snapshot()
	return &snap, nil
}

func (m *mockStateProvider) PauseFast(ctx context.Context) (*domain.TimerSnapshot, error) {
	return nil, domain.ErrNoActiveSession
}

func (m *mockStateProvider) ResumeFast(ctx context.Context) (*domain.TimerSnapshot, error) {
	return nil, domain.ErrNoActiveSession
}

func (m *mockStateProvider) StopFast(ctx context.Context) (*domain.SessionRecord, error) {
	return domain.NewSessionRecord("2024-01-15", "16:8", 57722, true)
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &data))
	return data
}

func TestNewServer(t *testing.T) {
	mock := &mockStateProvider{}
	server := NewServer(mock, "1.0.0")

	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
	if server.stateProvider != mock {
		t.Error("NewServer() did not set state provider correctly")
	}
	if server.server == nil {
		t.Error("NewServer() did not create MCP server")
	}
}

func TestServer_IsRunning(t *testing.T) {
	server := NewServer(&mockStateProvider{}, "1.0.0")

	if server.IsRunning() {
		t.Error("IsRunning() should return false before Start()")
	}
	if err := server.Stop(); err != nil {
		t.Errorf("Stop() before Start() error = %v", err)
	}
}

func TestServer_handleGetCurrentState(t *testing.T) {
	favorite := "16:8"
	mock := &mockStateProvider{
		currentState: &domain.CurrentState{
			Timer: domain.TimerSnapshot{
				State:            domain.StateActive,
				ProtocolName:     "16:8",
				ElapsedSeconds:   3600,
				RemainingSeconds: 54000,
				TargetSeconds:    57600,
				Progress:         0.0625,
			},
			Stats: domain.HistoryStats{CompletedCount: 4, CurrentStreak: 2, FavoriteProtocolName: &favorite},
			Goals: domain.GoalProgress{WeeklyDays: 2, WeeklyGoal: 5, StreakDays: 2, StreakGoal: 30},
		},
	}

	server := NewServer(mock, "1.0.0")
	result, err := server.handleGetCurrentState(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	data := resultJSON(t, result)
	timer := data["timer"].(map[string]interface{})
	assert.Equal(t, "active", timer["state"])
	assert.Equal(t, "15:00:00 remaining", timer["remaining"])
	assert.Equal(t, float64(3600), timer["elapsed_seconds"])

	stats := data["stats"].(map[string]interface{})
	assert.Equal(t, float64(4), stats["completed_count"])
	assert.Equal(t, "16:8", stats["favorite_protocol"])
	assert.NotContains(t, data, "just_finalized")
}

func TestServer_handleGetCurrentState_Idle(t *testing.T) {
	mock := &mockStateProvider{
		currentState: &domain.CurrentState{Timer: domain.NewSession().Snapshot()},
	}

	server := NewServer(mock, "1.0.0")
	result, err := server.handleGetCurrentState(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	data := resultJSON(t, result)
	timer := data["timer"].(map[string]interface{})
	assert.Equal(t, "Ready to start", timer["remaining"])
	assert.Nil(t, data["stats"].(map[string]interface{})["favorite_protocol"])
}

func TestServer_handleListProtocols(t *testing.T) {
	server := NewServer(&mockStateProvider{}, "1.0.0")

	result, err := server.handleListProtocols(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	data := resultJSON(t, result)
	assert.Equal(t, float64(4), data["total_count"])
	first := data["protocols"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "16:8", first["name"])
	assert.Equal(t, float64(57600), first["target_seconds"])
}

func TestServer_handleListHistory(t *testing.T) {
	var history []*domain.SessionRecord
	for _, date := range []string{"2024-01-15", "2024-01-14", "2024-01-13"} {
		r, err := domain.NewSessionRecord(date, "16:8", 57600, true)
		require.NoError(t, err)
		history = append(history, r)
	}
	mock := &mockStateProvider{history: history}
	server := NewServer(mock, "1.0.0")

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{"limit": float64(2)},
		},
	}
	result, err := server.handleListHistory(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.lastLimit)

	data := resultJSON(t, result)
	assert.Equal(t, float64(2), data["total_count"])

	result, err = server.handleListHistory(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Equal(t, defaultHistoryLimit, mock.lastLimit)
	assert.False(t, result.IsError)

	request.Params.Arguments = map[string]interface{}{"limit": float64(0)}
	result, err = server.handleListHistory(context.Background(), request)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_handleStartFast(t *testing.T) {
	mock := &mockStateProvider{}
	server := NewServer(mock, "1.0.0")

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{"protocol": "16:8"},
		},
	}
	result, err := server.handleStartFast(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, "16:8", mock.lastProtocol)

	data := resultJSON(t, result)
	assert.Equal(t, "active", data["state"])
	assert.Equal(t, "2024-01-15T20:00:00Z", data["started_at"])

	mock.startErr = domain.ErrInvalidTransition
	result, err = server.handleStartFast(context.Background(), request)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_handlePauseResume_NoSession(t *testing.T) {
	server := NewServer(&mockStateProvider{}, "1.0.0")

	result, err := server.handlePauseFast(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = server.handleResumeFast(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_handleStopFast(t *testing.T) {
	server := NewServer(&mockStateProvider{}, "1.0.0")

	result, err := server.handleStopFast(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	data := resultJSON(t, result)
	assert.Equal(t, "16:8", data["protocol"])
	assert.Equal(t, "16h 2m", data["duration"])
	assert.Equal(t, true, data["completed"])
}
