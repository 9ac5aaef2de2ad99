// Package jobs hosts the gateway's scheduled maintenance work.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/boardhub/board-gateway/internal/core/ports"
)

const sweepTimeout = 30 * time.Second

// RetentionSweeper prunes activity trail entries past the retention window.
// The trail is advisory; keeping it bounded matters more than keeping it
// complete.
type RetentionSweeper struct {
	cron          *cron.Cron
	repo          ports.ActivityRepository
	retentionDays int
	schedule      string
	log           zerolog.Logger
}

// NewRetentionSweeper builds a sweeper running on the given cron schedule
// (standard five-field expression, e.g. "0 3 * * *" for daily at 03:00).
func NewRetentionSweeper(repo ports.ActivityRepository, retentionDays int, schedule string, log zerolog.Logger) *RetentionSweeper {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	if schedule == "" {
		schedule = "0 3 * * *"
	}
	return &RetentionSweeper{
		cron:          cron.New(),
		repo:          repo,
		retentionDays: retentionDays,
		schedule:      schedule,
		log:           log,
	}
}

// Start registers the sweep and launches the scheduler.
func (s *RetentionSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Int("retention_days", s.retentionDays).Msg("retention sweeper started")
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *RetentionSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *RetentionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	deleted, err := s.repo.DeleteOlderThan(ctx, s.retentionDays)
	if err != nil {
		s.log.Error().Err(err).Msg("activity retention sweep failed")
		return
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted", deleted).Msg("activity retention sweep completed")
	}
}
