package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/fast-cli/internal/domain"
)

func TestStateService(t *testing.T) {
	store := setupTestStorage(t)
	clock := newFakeClock(fastStart)

	fasting := NewFastingService(store, nil)
	fasting.SetClock(clock.Now)
	history := NewHistoryService(store)
	history.SetClock(clock.Now)

	state := NewStateService(store)
	state.SetFastingService(fasting)
	state.SetHistoryService(history)
	ctx := context.Background()

	protocols, err := state.ListProtocols(ctx)
	require.NoError(t, err)
	assert.Len(t, protocols, 4)

	current, err := state.GetCurrentState(ctx)
	require.NoError(t, err)
	assert.True(t, current.CanStartSession())
	assert.Equal(t, "Ready to start", domain.RemainingText(current.Timer))

	snap, err := state.StartFast(ctx, "16:8")
	require.NoError(t, err)
	assert.Equal(t, domain.StateActive, snap.State)

	clock.Advance(time.Hour)
	snap, err = state.PauseFast(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePaused, snap.State)
	assert.Equal(t, 3600, snap.ElapsedSeconds)

	snap, err = state.ResumeFast(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StateActive, snap.State)

	current, err = state.GetCurrentState(ctx)
	require.NoError(t, err)
	assert.True(t, current.IsSessionActive())
	assert.Equal(t, "15:00:00 remaining", domain.RemainingText(current.Timer))

	clock.Advance(15 * time.Hour)
	current, err = state.GetCurrentState(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, current.Timer.State)
	require.NotNil(t, current.LastFinal)
	assert.Equal(t, 1, current.Stats.CompletedCount, "the finalized fast is already in the stats")
	assert.Equal(t, 1, current.Stats.CurrentStreak)

	_, err = state.StopFast(ctx)
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	records, err := state.ListHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Completed)
}

func TestStateService_DefaultsServices(t *testing.T) {
	store := setupTestStorage(t)
	state := NewStateService(store)

	current, err := state.GetCurrentState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, current.Timer.State)
	assert.Zero(t, current.Stats.CompletedCount)
}

func TestStateService_StateWith(t *testing.T) {
	store := setupTestStorage(t)
	state := NewStateService(store)
	ctx := context.Background()

	record, err := domain.NewSessionRecord("2024-01-15", "16:8", 57600, true)
	require.NoError(t, err)
	require.NoError(t, store.Records().Append(ctx, record))

	current, err := state.StateWith(ctx, domain.NewSession().Snapshot(), record)
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, current.Timer.State)
	assert.Equal(t, record, current.LastFinal)
	assert.Equal(t, 1, current.Stats.CompletedCount)
}
