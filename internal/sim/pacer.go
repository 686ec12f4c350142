package sim

import "context"

type waiter interface {
	Wait(ctx context.Context) error
}

type resetter interface {
	Reset()
}

// Pacer steps the simulated drivetrain once per tick. If Inner is nil, ticks
// are not delayed at all.
type Pacer struct {
	Drivetrain *Drivetrain
	Inner      waiter
}

func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Drivetrain.Step()
	if p.Inner == nil {
		return nil
	}
	return p.Inner.Wait(ctx)
}

// Reset forwards to the inner pacer, if it keeps time
func (p *Pacer) Reset() {
	if r, ok := p.Inner.(resetter); ok {
		r.Reset()
	}
}
