// Package sweeper hard-purges rows that have sat soft-deleted past the
// retention window. Soft-deleted rows are kept for auditability, not
// forever.
package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"eventpub/internal/repo"
)

type Sweeper struct {
	repo      repo.Repository
	log       *zerolog.Logger
	retention time.Duration
	cron      *cron.Cron
}

func New(repo repo.Repository, log *zerolog.Logger, retention time.Duration) *Sweeper {
	return &Sweeper{
		repo:      repo,
		log:       log,
		retention: retention,
		cron:      cron.New(),
	}
}

// Start schedules the purge. schedule is a cron expression or descriptor
// such as "@daily".
func (s *Sweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", schedule).Dur("retention", s.retention).Msg("sweeper started")
	return nil
}

func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("sweeper stopped")
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.repo.PurgeDeleted(ctx, s.retention)
	if err != nil {
		s.log.Error().Err(err).Msg("purge failed")
		return
	}
	if n > 0 {
		s.log.Info().Int64("rows", n).Msg("purged soft-deleted rows")
	}
}
