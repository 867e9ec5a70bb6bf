// Package scheduler runs the periodic maintenance jobs with gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) {
	return f(ctx)
}

const (
	// usageResetCron fires at 00:05 on the first day of every month.
	usageResetCron = "5 0 1 * *"
	// referralCodeCron fires daily at 03:00.
	referralCodeCron = "0 3 * * *"

	defaultGeocodeInterval = 6 * time.Hour
)

// SchedulerManager owns the single gocron scheduler of the process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterUsageResetJob rolls stale AI usage rows into the new month.
func (m *SchedulerManager) RegisterUsageResetJob(job BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(usageResetCron, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.runBatch(ctx, "ai-usage-reset", job)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("usage", "reset"),
		gocron.WithName("ai-usage-reset"),
	)
	if err != nil {
		return fmt.Errorf("failed to register usage reset job: %w", err)
	}

	m.logger.Infow("registered usage reset job", "cron", usageResetCron)
	return nil
}

// RegisterGeocodeJob back-fills missing clinic coordinates every interval.
func (m *SchedulerManager) RegisterGeocodeJob(job BatchJob, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultGeocodeInterval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()
			m.runBatch(ctx, "clinic-geocode", job)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("clinic", "geocode"),
		gocron.WithName("clinic-geocode"),
	)
	if err != nil {
		return fmt.Errorf("failed to register geocode job: %w", err)
	}

	m.logger.Infow("registered geocode job", "interval", interval)
	return nil
}

// RegisterReferralCodeJob mints codes for confirmed clinics that lack one.
func (m *SchedulerManager) RegisterReferralCodeJob(job BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(referralCodeCron, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.runBatch(ctx, "referral-code-backfill", job)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("referral", "backfill"),
		gocron.WithName("referral-code-backfill"),
	)
	if err != nil {
		return fmt.Errorf("failed to register referral code job: %w", err)
	}

	m.logger.Infow("registered referral code job", "cron", referralCodeCron)
	return nil
}

func (m *SchedulerManager) runBatch(ctx context.Context, name string, job BatchJob) {
	m.logger.Debugw("batch job started", "job", name)

	startTime := biztime.NowUTC()
	count, err := job.Execute(ctx)
	if err != nil {
		// graceful shutdown
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("batch job failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if count > 0 {
		m.logger.Infow("batch job processed items",
			"job", name,
			"count", count,
			"duration", time.Since(startTime),
		)
		return
	}
	m.logger.Debugw("batch job found nothing to process", "job", name, "duration", time.Since(startTime))
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
