package session

import (
	"context"
	"log/slog"
	"time"
)

const sweepTimeout = 30 * time.Second

// DeleteStaleSessions deletes up to SweepBatch sessions started before
// now - SweepCeiling, oldest first, and returns how many were removed.
func (s *Service) DeleteStaleSessions(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-s.cfg.SweepCeiling)
	n, err := s.store.DeleteStartedBefore(ctx, cutoff, s.cfg.SweepBatch)
	s.metrics.sweep(n, err)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// SweepInBackground starts one sweep without blocking the caller. Errors
// are logged only. A sweep already in flight makes this a no-op.
func (s *Service) SweepInBackground(now time.Time) {
	if !s.sweeping.CompareAndSwap(false, true) {
		return
	}
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		defer s.sweeping.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		s.logSweep(ctx, now)
	}()
}

// RunSweeper sweeps every SweepInterval until ctx is done. clock supplies
// the sweep time (time.Now when nil). It returns nil on cancellation.
func (s *Service) RunSweeper(ctx context.Context, clock func() time.Time) error {
	if s.cfg.SweepInterval <= 0 {
		<-ctx.Done()
		return nil
	}
	if clock == nil {
		clock = time.Now
	}

	t := time.NewTicker(s.cfg.SweepInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			sctx, cancel := context.WithTimeout(ctx, sweepTimeout)
			s.logSweep(sctx, clock())
			cancel()
		}
	}
}

func (s *Service) logSweep(ctx context.Context, now time.Time) {
	n, err := s.DeleteStaleSessions(ctx, now)
	if err != nil {
		s.log.ErrorContext(ctx, "session.sweep.fail", slog.Any("err", err))
		return
	}
	if n > 0 {
		s.log.InfoContext(ctx, "session.sweep.done", slog.Int("deleted", n))
	}
}
