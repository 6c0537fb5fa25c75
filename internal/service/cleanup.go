package service

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// RetentionConfig holds configuration for the journal retention scheduler.
type RetentionConfig struct {
	// Retention is how long journal entries are kept.
	// Default: 30 days
	Retention time.Duration

	// Interval is how often pruning runs.
	// Default: 1 hour
	Interval time.Duration
}

// journalPruner is the part of the journal the scheduler needs.
type journalPruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// RetentionScheduler periodically prunes old journal entries.
type RetentionScheduler struct {
	journal   journalPruner
	config    RetentionConfig
	now       func() time.Time
	ticker    *time.Ticker
	stopCh    chan struct{}
	stopOnce  sync.Once
	isRunning bool
	mu        sync.Mutex
}

// NewRetentionScheduler creates a new retention scheduler.
func NewRetentionScheduler(journal journalPruner, config RetentionConfig) *RetentionScheduler {
	if config.Retention == 0 {
		config.Retention = 30 * 24 * time.Hour
	}
	if config.Interval == 0 {
		config.Interval = time.Hour
	}

	return &RetentionScheduler{
		journal: journal,
		config:  config,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
}

// Start begins the scheduler. The first run happens immediately.
func (s *RetentionScheduler) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.ticker = time.NewTicker(s.config.Interval)
	s.mu.Unlock()

	log.Infof("[RetentionScheduler] Started - Interval: %v, Retention: %v",
		s.config.Interval, s.config.Retention)

	go func() {
		s.runPrune()
		s.run()
	}()
}

func (s *RetentionScheduler) run() {
	for {
		select {
		case <-s.ticker.C:
			s.runPrune()
		case <-s.stopCh:
			log.Info("[RetentionScheduler] Stopped")
			return
		}
	}
}

func (s *RetentionScheduler) runPrune() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := s.RunNow(ctx)
	if err != nil {
		log.Errorf("[RetentionScheduler] Error during prune: %v", err)
		return
	}
	if deleted > 0 {
		log.Infof("[RetentionScheduler] Pruned %d journal entries", deleted)
	}
}

// Stop stops the scheduler.
func (s *RetentionScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
		s.isRunning = false
	})
}

// RunNow prunes entries older than the retention window.
func (s *RetentionScheduler) RunNow(ctx context.Context) (int64, error) {
	return s.journal.Prune(ctx, s.now().Add(-s.config.Retention))
}
