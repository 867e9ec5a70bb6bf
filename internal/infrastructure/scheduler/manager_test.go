package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

func TestSchedulerManager_RegistersJobs(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	noop := BatchJobFunc(func(context.Context) (int, error) { return 0, nil })
	require.NoError(t, m.RegisterUsageResetJob(noop))
	require.NoError(t, m.RegisterGeocodeJob(noop, 0))
	require.NoError(t, m.RegisterReferralCodeJob(noop))

	names := make([]string, 0, 3)
	for _, j := range m.Jobs() {
		names = append(names, j.Name())
	}
	assert.ElementsMatch(t, []string{"ai-usage-reset", "clinic-geocode", "referral-code-backfill"}, names)
}

func TestSchedulerManager_UsageResetRunsOnFirstOfMonth(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.RegisterUsageResetJob(BatchJobFunc(func(context.Context) (int, error) { return 0, nil })))

	m.Start()
	t.Cleanup(func() { _ = m.Stop() })
	assert.True(t, m.IsStarted())

	job := m.Jobs()[0]
	var next time.Time
	require.Eventually(t, func() bool {
		next, err = job.NextRun()
		return err == nil && !next.IsZero()
	}, 2*time.Second, 10*time.Millisecond)

	local := next.In(biztime.Location())
	assert.Equal(t, 1, local.Day())
	assert.Equal(t, 0, local.Hour())
	assert.Equal(t, 5, local.Minute())
}

func TestSchedulerManager_RunBatchSurvivesErrors(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	var calls atomic.Int32
	failing := BatchJobFunc(func(context.Context) (int, error) {
		calls.Add(1)
		return 0, errors.New("db down")
	})

	m.runBatch(t.Context(), "failing", failing)
	m.runBatch(t.Context(), "failing", failing)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSchedulerManager_StopWithoutStart(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)
	assert.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
}
