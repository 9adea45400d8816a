package service

import (
	"context"
	"time"

	"telescrape/internal/constants"

	"github.com/sirupsen/logrus"
)

// Scheduler periodically prunes old messages when retention is configured.
// Retention never runs inside the scrape path.
type Scheduler struct {
	store         MessageStore
	retentionDays int
	intervalHours int
	logger        *logrus.Logger
	stopCh        chan struct{}
}

func NewScheduler(store MessageStore, retentionDays, intervalHours int, logger *logrus.Logger) *Scheduler {
	if intervalHours <= 0 {
		intervalHours = constants.DefaultCleanupIntervalHours
	}
	return &Scheduler{
		store:         store,
		retentionDays: retentionDays,
		intervalHours: intervalHours,
		logger:        logger,
		stopCh:        make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	if s.retentionDays <= 0 {
		s.logger.Info("Message retention is disabled, cleanup scheduler not started")
		return
	}

	ticker := time.NewTicker(time.Duration(s.intervalHours) * time.Hour)
	defer ticker.Stop()

	s.logger.Info("Starting cleanup scheduler")

	s.runCleanup()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler context cancelled, stopping")
			return
		case <-s.stopCh:
			s.logger.Info("Scheduler stop signal received, stopping")
			return
		case <-ticker.C:
			s.runCleanup()
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.stopCh)
}

func (s *Scheduler) runCleanup() {
	s.logger.WithField("retentionDays", s.retentionDays).Info("Running scheduled cleanup")

	if err := s.store.CleanupOldMessages(s.retentionDays); err != nil {
		s.logger.WithError(err).Error("Failed to cleanup old messages")
	} else {
		s.logger.Info("Successfully completed cleanup")
	}
}
