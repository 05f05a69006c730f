// Package scheduler runs the retention sweep on a periodic timer,
// independent of request traffic.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"scribe/internal/service/workspace"
)

type Scheduler struct {
	sweeper    *workspace.Sweeper
	interval   time.Duration
	logger     *slog.Logger
	stopCh     chan struct{}
	wg         sync.WaitGroup
	cancelFunc context.CancelFunc // cancels the in-flight sweep
	mu         sync.Mutex         // protects cancelFunc
}

func New(sweeper *workspace.Sweeper, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	s.logger.Info("retention scheduler started", "interval", s.interval)
}

// Stop cancels any in-flight sweep and prevents further runs. In-flight
// record deletes are atomic; the next sweep converges over whatever was
// left.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("retention scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	// Run once on start, then on the ticker
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)

	s.mu.Lock()
	s.cancelFunc = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.cancelFunc = nil
		s.mu.Unlock()
	}()

	if err := s.sweeper.Sweep(ctx); err != nil {
		if ctx.Err() != nil {
			s.logger.Info("scheduled sweep cancelled")
			return
		}
		s.logger.Error("scheduled sweep", "error", err)
	}
}
