package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedulerInvokesRefreshPeriodically(t *testing.T) {
	var calls int32
	s, err := New(20*time.Millisecond, func() {
		atomic.AddInt32(&calls, 1)
	})
	require.NoError(t, err)

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, s.Stop(ctx))
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 2
	}, time.Second, 10*time.Millisecond)
}

func TestSchedulerSurvivesPanicInRefresh(t *testing.T) {
	var calls int32
	s, err := New(20*time.Millisecond, func() {
		atomic.AddInt32(&calls, 1)
		panic("boom")
	})
	require.NoError(t, err)

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, s.Stop(ctx))
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 2
	}, time.Second, 10*time.Millisecond)
}
