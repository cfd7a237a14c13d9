package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"pickpool/gradingd/internal/config"
	"pickpool/gradingd/internal/grading"
	"pickpool/gradingd/internal/oddssync"
)

// Scheduler manages background work:
// - cron'd feed sync passes
// - a grading ticker that sweeps final games for ungraded picks
// Overlapping runs are safe: upserts and grading are idempotent, so a cron
// sync racing a manual trigger converges rather than corrupting.
type Scheduler struct {
	cfg      *config.Config
	sync     *oddssync.Engine
	grader   *grading.Engine
	cron     *cron.Cron
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, syncEngine *oddssync.Engine, grader *grading.Engine) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		sync:     syncEngine,
		grader:   grader,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	// Feed sync on a cron schedule. Failures are logged and left for the
	// next tick; the sync engine does not retry internally.
	if _, err := s.cron.AddFunc(s.cfg.OddsSyncCron, func() {
		log.Info().Msg("Running scheduled sync...")
		result, err := s.sync.Run(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Scheduled sync failed")
			return
		}
		log.Info().
			Int("inserted", result.Inserted).
			Int("updated", result.Updated).
			Int("failed", result.Failed).
			Msg("Scheduled sync finished")

		// Sync may have flipped games to final; grade right after.
		if _, err := s.grader.GradePickedGames(ctx); err != nil {
			log.Error().Err(err).Msg("Post-sync grading failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule sync: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.OddsSyncCron).
		Msg("Feed sync scheduled")

	// Grading sweep ticker, catching games finalized out of band (manual
	// admin score entry).
	interval := time.Duration(s.cfg.GradingPollInterval) * time.Second
	s.ticker = time.NewTicker(interval)
	log.Info().
		Dur("interval", interval).
		Msg("Grading sweep started")

	go s.pollGrading(ctx)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// pollGrading runs grading passes on the ticker until stopped.
func (s *Scheduler) pollGrading(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping grading sweep")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping grading sweep")
			return
		case <-s.ticker.C:
			graded, err := s.grader.GradePickedGames(ctx)
			if err != nil {
				log.Error().Err(err).Msg("Grading sweep failed")
				continue
			}
			if graded > 0 {
				log.Info().Int("graded", graded).Msg("Grading sweep graded picks")
			}
		}
	}
}
