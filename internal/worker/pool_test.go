package worker

import (
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"seungpyo.lee/PersonalBlog/internal/metrics"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

func TestPoolRunsEveryJobBeforeStop(t *testing.T) {
	p := NewPool(3, 16, logger.NewNop())
	var n int64
	for i := 0; i < 50; i++ {
		require.NoError(t, p.Submit(func() { atomic.AddInt64(&n, 1) }))
	}
	p.Stop()
	assert.Equal(t, int64(50), atomic.LoadInt64(&n))
}

func TestPoolSurvivesPanics(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	before := testutil.ToFloat64(metrics.WorkerPanicsTotal)

	p := NewPool(1, 4, logger.NewFromCore(core))
	var ran int64
	require.NoError(t, p.Submit(func() { panic("boom") }))
	require.NoError(t, p.Submit(func() { atomic.AddInt64(&ran, 1) }))
	p.Stop()

	assert.Equal(t, int64(1), atomic.LoadInt64(&ran))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.WorkerPanicsTotal))
	entries := logs.FilterMessage("worker job panicked").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["panic"])
}

func TestSubmitAfterStop(t *testing.T) {
	p := NewPool(1, 1, nil)
	p.Stop()
	p.Stop()
	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolStopped)
}
