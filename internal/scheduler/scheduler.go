package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/config"
	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// Snapshotter takes a stock snapshot and returns its text summary.
type Snapshotter interface {
	Snapshot(ctx context.Context, at time.Time) (models.StockSnapshot, string, error)
}

// Messenger delivers the snapshot summary. It may be nil.
type Messenger interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	reporting Snapshotter
	messenger Messenger
	recipient string
	logger    *zap.Logger
}

// NewScheduler creates a scheduler that runs the stock snapshot on
// cfg.Reporting.CronSchedule in cfg.Reporting.Timezone.
func NewScheduler(cfg config.ReportingConfig, reporting Snapshotter, messenger Messenger, recipient string, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	// Standard five field cron expressions: min, hour, dom, month, dow.
	c := cron.New(cron.WithLocation(location))

	return &Scheduler{
		cron:      c,
		schedule:  cfg.CronSchedule,
		reporting: reporting,
		messenger: messenger,
		recipient: recipient,
		logger:    logger,
	}, nil
}

// Start registers the snapshot job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.takeSnapshot); err != nil {
		return fmt.Errorf("schedule stock snapshot %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) takeSnapshot() {
	s.logger.Info("taking stock snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.run(ctx, time.Now())
}

func (s *Scheduler) run(ctx context.Context, at time.Time) {
	_, summary, err := s.reporting.Snapshot(ctx, at)
	if err != nil {
		s.logger.Error("failed to take stock snapshot", zap.Error(err))
		return
	}

	if s.messenger == nil || s.recipient == "" {
		return
	}

	if _, err := s.messenger.SendText(ctx, s.recipient, summary); err != nil {
		s.logger.Error("failed to send stock snapshot", zap.Error(err))
	} else {
		s.logger.Info("stock snapshot sent successfully")
	}
}
