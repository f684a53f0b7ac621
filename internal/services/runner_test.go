package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/fast-cli/internal/domain"
)

func TestRunner_TicksOnlyWhileActive(t *testing.T) {
	svc, _, clock, _ := newTestFastingService(t)
	ticks := &fakeTicks{clock: clock}
	runner := NewRunner(svc, ticks)

	var mu sync.Mutex
	var updates []domain.TimerSnapshot
	runner.OnUpdate(func(s domain.TimerSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, s)
	})

	f, err := runner.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, f.Snapshot.State)
	assert.False(t, ticks.attached(), "idle fasts do not tick")

	snap, err := runner.Start("16:8")
	require.NoError(t, err)
	assert.Equal(t, domain.StateActive, snap.State)
	assert.True(t, ticks.attached())

	ticks.fire(5)
	assert.Equal(t, 5, runner.Snapshot().ElapsedSeconds)
	mu.Lock()
	assert.Len(t, updates, 5)
	mu.Unlock()

	snap, err = runner.Pause()
	require.NoError(t, err)
	assert.Equal(t, domain.StatePaused, snap.State)
	assert.False(t, ticks.attached(), "pause detaches the tick source")

	ticks.fire(3)
	clock.Advance(time.Hour)
	assert.Equal(t, 5, runner.Snapshot().ElapsedSeconds)

	_, err = runner.Resume()
	require.NoError(t, err)
	assert.True(t, ticks.attached())

	ticks.fire(3)
	assert.Equal(t, 8, runner.Snapshot().ElapsedSeconds, "resume continues where pause left off")
}

func TestRunner_DropsStaleTicks(t *testing.T) {
	svc, _, clock, _ := newTestFastingService(t)
	ticks := &fakeTicks{clock: clock}
	runner := NewRunner(svc, ticks)

	_, err := runner.Open(context.Background())
	require.NoError(t, err)
	_, err = runner.Start("16:8")
	require.NoError(t, err)

	stale := ticks.current()
	require.NotNil(t, stale)

	_, err = runner.Pause()
	require.NoError(t, err)
	_, err = runner.Resume()
	require.NoError(t, err)

	stale()
	assert.Equal(t, 0, runner.Snapshot().ElapsedSeconds, "a callback from a detached generation is ignored")

	ticks.fire(1)
	assert.Equal(t, 1, runner.Snapshot().ElapsedSeconds)
}

func TestRunner_CompletesAndFinalizes(t *testing.T) {
	svc, store, clock, notifier := newTestFastingService(t)
	ctx := context.Background()

	started := clock.Now().Add(-16 * time.Hour)
	require.NoError(t, store.Active().Save(ctx, &domain.Checkpoint{
		Protocol:       domain.Protocol{Name: "16:8", FastHours: 16, EatHours: 8},
		State:          domain.StateActive,
		ElapsedSeconds: 57595,
		StartedAt:      &started,
		CheckpointAt:   clock.Now(),
	}))

	ticks := &fakeTicks{clock: clock}
	runner := NewRunner(svc, ticks)

	var finalized []*domain.SessionRecord
	runner.OnFinalize(func(r *domain.SessionRecord) {
		finalized = append(finalized, r)
	})

	f, err := runner.Open(ctx)
	require.NoError(t, err)
	assert.Equal(t, 57595, f.Snapshot.ElapsedSeconds)
	require.True(t, ticks.attached())

	ticks.fire(10)

	snap := runner.Snapshot()
	assert.Equal(t, domain.StateCompleted, snap.State)
	assert.Equal(t, 57600, snap.ElapsedSeconds)
	assert.False(t, ticks.attached(), "completion detaches the tick source")

	require.Len(t, finalized, 1)
	assert.True(t, finalized[0].Completed)
	assert.Equal(t, 57600, finalized[0].DurationSeconds)
	assert.Equal(t, 1, notifier.count())

	all, err := store.Records().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRunner_CloseKeepsFastGoing(t *testing.T) {
	svc, store, clock, _ := newTestFastingService(t)
	ctx := context.Background()
	ticks := &fakeTicks{clock: clock}
	runner := NewRunner(svc, ticks)

	_, err := runner.Open(ctx)
	require.NoError(t, err)
	_, err = runner.Start("16:8")
	require.NoError(t, err)
	ticks.fire(10)

	require.NoError(t, runner.Close())
	assert.False(t, ticks.attached())

	cp, err := store.Active().Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, domain.StateActive, cp.State)
	assert.Equal(t, 10, cp.ElapsedSeconds)

	// A later process picks up the fast including the time it was away.
	clock.Advance(time.Minute)
	f, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 70, f.Snapshot.ElapsedSeconds)
}

func TestRunner_Stop(t *testing.T) {
	svc, _, clock, _ := newTestFastingService(t)
	ticks := &fakeTicks{clock: clock}
	runner := NewRunner(svc, ticks)

	_, err := runner.Open(context.Background())
	require.NoError(t, err)

	_, err = runner.Stop()
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	_, err = runner.Start("20:4")
	require.NoError(t, err)
	ticks.fire(30)

	record, err := runner.Stop()
	require.NoError(t, err)
	assert.Equal(t, "20:4", record.ProtocolName)
	assert.Equal(t, 30, record.DurationSeconds)
	assert.False(t, record.Completed)
	assert.False(t, ticks.attached())
	assert.Equal(t, domain.StateIdle, runner.Snapshot().State)
}

func TestRunner_CountsTimeBetweenTicks(t *testing.T) {
	svc, _, clock, _ := newTestFastingService(t)
	ticks := &fakeTicks{clock: clock}
	runner := NewRunner(svc, ticks)

	_, err := runner.Open(context.Background())
	require.NoError(t, err)
	_, err = runner.Start("16:8")
	require.NoError(t, err)
	ticks.fire(5)

	// The host was suspended and no ticks arrived.
	clock.Advance(time.Hour)
	ticks.fire(1)
	assert.Equal(t, 3606, runner.Snapshot().ElapsedSeconds)
}

func TestRunner_StopAfterMissedTicks(t *testing.T) {
	tests := []struct {
		name         string
		autoFinalize bool
	}{
		{"auto-finalize", true},
		{"explicit stop", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, clock, notifier := newTestFastingService(t)
			svc.SetAutoFinalize(tt.autoFinalize)
			ctx := context.Background()
			ticks := &fakeTicks{clock: clock}
			runner := NewRunner(svc, ticks)

			_, err := runner.Open(ctx)
			require.NoError(t, err)
			_, err = runner.Start("16:8")
			require.NoError(t, err)
			ticks.fire(5)

			clock.Advance(17 * time.Hour)

			record, err := runner.Stop()
			require.NoError(t, err)
			assert.True(t, record.Completed)
			assert.Equal(t, 57600, record.DurationSeconds)
			assert.Equal(t, 1, notifier.count())
			assert.False(t, ticks.attached())

			all, err := store.Records().FindAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestRunner_AdoptsExternalStop(t *testing.T) {
	svc, store, clock, _ := newTestFastingService(t)
	ctx := context.Background()
	ticks := &fakeTicks{clock: clock}
	runner := NewRunner(svc, ticks)

	_, err := runner.Open(ctx)
	require.NoError(t, err)
	_, err = runner.Start("16:8")
	require.NoError(t, err)
	ticks.fire(10)

	// Another process sharing the database stops the fast.
	other := NewFastingService(store, nil)
	other.SetClock(clock.Now)
	record, err := other.StopFast(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, record.DurationSeconds)

	ticks.fire(5)

	cp, err := store.Active().Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, cp, "a stopped fast must not be written back")

	all, err := store.Records().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.Equal(t, domain.StateIdle, runner.Snapshot().State)
	assert.False(t, ticks.attached())

	_, err = runner.Stop()
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}

func TestRunner_AdoptsExternalPause(t *testing.T) {
	svc, store, clock, _ := newTestFastingService(t)
	ctx := context.Background()
	ticks := &fakeTicks{clock: clock}
	runner := NewRunner(svc, ticks)

	_, err := runner.Open(ctx)
	require.NoError(t, err)
	_, err = runner.Start("16:8")
	require.NoError(t, err)
	ticks.fire(10)

	other := NewFastingService(store, nil)
	other.SetClock(clock.Now)
	_, err = other.PauseFast(ctx)
	require.NoError(t, err)

	ticks.fire(5)
	clock.Advance(time.Hour)

	snap := runner.Snapshot()
	assert.Equal(t, domain.StatePaused, snap.State)
	assert.Equal(t, 10, snap.ElapsedSeconds)
	assert.False(t, ticks.attached(), "an external pause detaches the tick source")

	cp, err := store.Active().Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, domain.StatePaused, cp.State)
	assert.Equal(t, 10, cp.ElapsedSeconds)

	snap, err = runner.Resume()
	require.NoError(t, err)
	assert.Equal(t, domain.StateActive, snap.State)
	ticks.fire(2)
	assert.Equal(t, 12, runner.Snapshot().ElapsedSeconds)
}
