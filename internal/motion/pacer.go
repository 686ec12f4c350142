package motion

import (
	"context"
	"time"
)

// Pacer blocks between two ticks of a motion
type Pacer interface {
	Wait(ctx context.Context) error
}

// resetter is implemented by pacers that keep time between motions
type resetter interface {
	Reset()
}

type TickerPacer struct {
	tick   time.Duration
	ticker *time.Ticker
}

func NewTickerPacer(tick time.Duration) *TickerPacer {
	return &TickerPacer{
		tick:   tick,
		ticker: time.NewTicker(tick),
	}
}

func (p *TickerPacer) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ticker.C:
		return nil
	}
}

// Reset restarts the tick period now and drops a tick buffered while idle
func (p *TickerPacer) Reset() {
	p.ticker.Reset(p.tick)
	select {
	case <-p.ticker.C:
	default:
	}
}

func (p *TickerPacer) Stop() {
	p.ticker.Stop()
}
