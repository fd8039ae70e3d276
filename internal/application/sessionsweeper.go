package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/portalbonos/internal/domain/port/driven"
)

// SessionSweeper periodically removes expired session rows. Lookups already
// treat expired sessions as absent; sweeping only keeps the table small.
type SessionSweeper struct {
	sessions driven.SessionStore
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
	observe  func(removed int64)
}

// NewSessionSweeper creates a SessionSweeper that runs every interval.
func NewSessionSweeper(sessions driven.SessionStore, interval time.Duration, logger *slog.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// OnSweep registers fn to be called with the number of rows removed by each
// successful sweep.
func (s *SessionSweeper) OnSweep(fn func(removed int64)) {
	s.observe = fn
}

// Start sweeps once immediately and then on every tick until ctx is cancelled.
// It blocks; run it in its own goroutine.
func (s *SessionSweeper) Start(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// SweepOnce deletes every session expired at the current time.
func (s *SessionSweeper) SweepOnce(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now().UTC())
}

func (s *SessionSweeper) sweep(ctx context.Context) {
	removed, err := s.SweepOnce(ctx)
	if err != nil {
		s.logger.Error("session sweep failed", "error", err)
		return
	}
	if s.observe != nil {
		s.observe(removed)
	}
	if removed > 0 {
		s.logger.Info("expired sessions removed", "count", removed)
	}
}
