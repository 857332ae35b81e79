// Package scheduler implements the periodic match digest refresher.
// It polls storage for profiles whose digest is due, recomputes their
// matches through the listing service, and persists a compact summary.
//
// Core invariant: only the digest summary is persisted. Individual match
// candidates stay transient and are recomputed on demand.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/jkaninda/swapzo/internal/config"
	"github.com/jkaninda/swapzo/internal/domain"
	"github.com/jkaninda/swapzo/internal/listing"
)

// Scheduler refreshes match digests in the background.
// It runs as a background goroutine in server mode.
type Scheduler struct {
	svc     *listing.Service
	digests listing.DigestStore
	metrics *Metrics
	logger  *slog.Logger
	config  *config.SchedulerConfig

	parser cron.Parser
}

// New creates a Scheduler.
func New(
	svc *listing.Service,
	digests listing.DigestStore,
	metrics *Metrics,
	logger *slog.Logger,
	cfg *config.SchedulerConfig,
) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		svc:     svc,
		digests: digests,
		metrics: metrics,
		logger:  logger,
		config:  cfg,
		parser:  cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// Start begins the scheduler loop. Returns a cancel function.
func (s *Scheduler) Start(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		s.logger.InfoContext(ctx, "digest scheduler started",
			slog.String("poll_interval", s.config.PollInterval().String()),
			slog.String("schedule", s.config.Schedule()),
			slog.Int("max_concurrent", s.config.MaxConcurrent()),
		)

		// Enroll profiles that never had a digest computed.
		s.seedNewProfiles(ctx)

		ticker := time.NewTicker(s.config.PollInterval())
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("digest scheduler stopped")
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()

	return cancel
}

// tick runs a single poll cycle: enroll new profiles, then refresh due digests.
func (s *Scheduler) tick(ctx context.Context) {
	start := time.Now()
	now := start.UTC()

	s.seedNewProfiles(ctx)

	due, err := s.digests.ListDue(ctx, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "polling due digests failed",
			slog.String("error", err.Error()),
		)
		return
	}

	if len(due) > 0 {
		s.logger.InfoContext(ctx, "digests due for refresh",
			slog.Int("count", len(due)),
		)

		sem := make(chan struct{}, s.config.MaxConcurrent())
		var wg sync.WaitGroup

		for i := range due {
			userID := due[i].UserID
			sem <- struct{}{}
			wg.Add(1)

			go func(id uuid.UUID) {
				defer wg.Done()
				defer func() { <-sem }()
				s.refresh(ctx, id)
			}(userID)
		}

		wg.Wait()
	}

	if s.metrics != nil {
		s.metrics.TickDuration.Observe(time.Since(start).Seconds())
	}
}

// refresh recomputes matches for one user and persists the summary digest.
func (s *Scheduler) refresh(ctx context.Context, userID uuid.UUID) {
	if s.metrics != nil {
		s.metrics.RefreshesFired.Inc()
	}

	res, err := s.svc.FindMatches(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "digest refresh failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RefreshesFailed.Inc()
		}
		return
	}

	now := time.Now().UTC()
	nextRun := s.computeNextRun(now)

	top := 0.0
	if len(res.Direct) > 0 {
		top = res.Direct[0].Confidence
	}
	if len(res.Chain) > 0 && res.Chain[0].Confidence > top {
		top = res.Chain[0].Confidence
	}

	d := &domain.MatchDigest{
		UserID:            userID,
		DirectCount:       len(res.Direct),
		ChainCount:        len(res.Chain),
		TopConfidence:     top,
		AverageConfidence: res.Stats.AverageConfidence,
		TotalComparisons:  res.Stats.TotalComparisons,
		ComputedAt:        now,
		NextRunAt:         &nextRun,
	}
	if err := s.digests.Upsert(ctx, d); err != nil {
		s.logger.ErrorContext(ctx, "digest persistence failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RefreshesFailed.Inc()
		}
		return
	}

	s.logger.InfoContext(ctx, "digest refreshed",
		slog.String("user_id", userID.String()),
		slog.Int("direct_matches", d.DirectCount),
		slog.Int("chain_matches", d.ChainCount),
		slog.Float64("top_confidence", d.TopConfidence),
		slog.Time("next_run_at", nextRun),
	)
	if s.metrics != nil {
		s.metrics.RefreshesSucceeded.Inc()
	}
}

// seedNewProfiles computes an initial digest for profiles that have none,
// so new users enter the refresh cycle without waiting for registration hooks.
func (s *Scheduler) seedNewProfiles(ctx context.Context) {
	profiles, err := s.svc.Profiles().List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "profile listing for digest seeding failed",
			slog.String("error", err.Error()),
		)
		return
	}

	var seeded int
	for i := range profiles {
		if ctx.Err() != nil {
			return
		}
		_, err := s.digests.GetByUser(ctx, profiles[i].ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, listing.ErrNotFound) {
			s.logger.ErrorContext(ctx, "digest lookup failed during seeding",
				slog.String("user_id", profiles[i].ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		s.refresh(ctx, profiles[i].ID)
		seeded++
	}

	if seeded > 0 {
		s.logger.InfoContext(ctx, "seeded digests for new profiles",
			slog.Int("count", seeded),
		)
		if s.metrics != nil {
			s.metrics.ProfilesSeeded.Add(float64(seeded))
		}
	}
}

// computeNextRun evaluates the configured schedule from the given time.
func (s *Scheduler) computeNextRun(from time.Time) time.Time {
	sched, err := s.parser.Parse(s.config.Schedule())
	if err != nil {
		s.logger.Error("invalid digest schedule",
			slog.String("schedule", s.config.Schedule()),
			slog.String("error", err.Error()),
		)
		return from.Add(time.Hour)
	}
	return sched.Next(from)
}
