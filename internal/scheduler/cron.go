package scheduler

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/damonjavert/jps2sm-sub000/internal/controllers"
	"github.com/damonjavert/jps2sm-sub000/internal/services/jps"
)

// Scheduler manages the watch-mode recurring batch run
type Scheduler struct {
	cron      *cron.Cron
	batchCtrl *controllers.BatchController
	spec      string
	logger    *logrus.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a new scheduler
func NewScheduler(batchCtrl *controllers.BatchController, spec string, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		batchCtrl: batchCtrl,
		spec:      spec,
		logger:    logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.WithField("cron", s.spec).Info("Starting scheduler")

	_, err := s.cron.AddFunc(s.spec, func() {
		s.runRecentBatch()
	})
	if err != nil {
		return fmt.Errorf("failed to add watch job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Run an initial pass immediately
	go s.runRecentBatch()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runRecentBatch migrates the most recently uploaded torrents. Overlapping
// runs are skipped rather than queued.
func (s *Scheduler) runRecentBatch() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Previous batch still running, skipping this tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.logger.Info("Running scheduled batch of recent uploads")

	stats, err := s.batchCtrl.Run(controllers.BatchOptions{
		Mode:      jps.BatchRecent,
		FirstPage: 1,
		LastPage:  1,
	})
	if err != nil {
		s.logger.WithError(err).Error("Scheduled batch failed")
		return
	}

	s.logger.Info(stats.Summary())
}
