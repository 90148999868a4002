package coordinator

import (
	"context"
	"log/slog"
	"time"
)

// Pacer delays a gateway call that follows an earlier call in the same session.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedPacer waits the same Delay every time. It is a scheduling constraint
// for an external rate limit, not a retry.
type FixedPacer struct {
	Delay time.Duration
}

func NewFixedPacer(delay time.Duration) FixedPacer {
	return FixedPacer{Delay: delay}
}

func (p FixedPacer) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}

	slog.Info("COORDINATOR: Pacing before next model call", "delay", p.Delay)
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
