package ticker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicker_AttachDetach(t *testing.T) {
	tk := New(10 * time.Millisecond)
	var count atomic.Int32

	tk.Attach(context.Background(), func() { count.Add(1) })
	assert.True(t, tk.Attached())

	require.Eventually(t, func() bool { return count.Load() >= 3 }, time.Second, 5*time.Millisecond)

	tk.Detach()
	assert.False(t, tk.Attached())

	// Allow an in-flight tick to land, then verify delivery stopped.
	time.Sleep(30 * time.Millisecond)
	stopped := count.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, count.Load())
}

func TestTicker_AttachReplaces(t *testing.T) {
	tk := New(10 * time.Millisecond)
	defer tk.Detach()

	var first, second atomic.Int32
	tk.Attach(context.Background(), func() { first.Add(1) })
	require.Eventually(t, func() bool { return first.Load() >= 1 }, time.Second, 5*time.Millisecond)

	tk.Attach(context.Background(), func() { second.Add(1) })
	time.Sleep(30 * time.Millisecond)
	before := first.Load()

	require.Eventually(t, func() bool { return second.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, before, first.Load(), "the replaced callback no longer fires")
}

func TestTicker_ContextCancel(t *testing.T) {
	tk := New(10 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	var count atomic.Int32
	tk.Attach(ctx, func() { count.Add(1) })
	require.Eventually(t, func() bool { return count.Load() >= 1 }, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	stopped := count.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, count.Load())
}

func TestTicker_DetachFromCallback(t *testing.T) {
	tk := New(10 * time.Millisecond)
	var count atomic.Int32

	tk.Attach(context.Background(), func() {
		count.Add(1)
		tk.Detach()
	})

	require.Eventually(t, func() bool { return !tk.Attached() }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())
}

func TestNew_DefaultInterval(t *testing.T) {
	assert.Equal(t, time.Second, New(0).interval)
}
