package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avan-studio/avan-backend/internal/logger"
	"github.com/avan-studio/avan-backend/internal/metrics"
	"github.com/avan-studio/avan-backend/internal/projects/repository"
	"github.com/avan-studio/avan-backend/internal/storage/kv"
)

type Scheduler struct {
	cron    *cron.Cron
	backend kv.Backend
	spec    string
}

// NewScheduler takes a six-field cron spec (seconds first).
func NewScheduler(backend kv.Backend, spec string) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		backend: backend,
		spec:    spec,
	}
}

// Start registers the store report and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := s.RunStoreReport(ctx); err != nil {
			logger.Error().Err(err).Msg("store report failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}

	logger.Info().Str("spec", s.spec).Msg("cron scheduler started")
	s.cron.Start()
	return nil
}

// Stop waits for a running report to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

type Report struct {
	Users         int
	SavedProjects int
	Largest       int
}

// RunStoreReport counts saved projects per user. The saved list has no cap, so
// its growth is watched here.
func (s *Scheduler) RunStoreReport(ctx context.Context) (Report, error) {
	var rep Report

	uids, err := s.backend.Users(ctx)
	if err != nil {
		return rep, err
	}

	for _, uid := range uids {
		saved, err := repository.New(s.backend.For(uid)).ListSaved(ctx)
		if err != nil {
			logger.Warn().Err(err).Str("user_id", uid).Msg("store report: unreadable saved list")
			continue
		}
		rep.Users++
		rep.SavedProjects += len(saved)
		if len(saved) > rep.Largest {
			rep.Largest = len(saved)
		}
		logger.Debug().Str("user_id", uid).Int("saved_projects", len(saved)).Msg("store report")
	}

	metrics.SetSavedProjects(rep.SavedProjects)
	logger.Info().
		Int("users", rep.Users).
		Int("saved_projects", rep.SavedProjects).
		Int("largest_list", rep.Largest).
		Msg("store report completed")
	return rep, nil
}
