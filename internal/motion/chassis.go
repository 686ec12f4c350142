package motion

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/drive2go/drive2go/internal/control_loop"
	"github.com/drive2go/drive2go/internal/ui"
)

var ErrBusy = errors.New("chassis is already executing a motion")

// Chassis executes one motion at a time on a bound drivetrain
type Chassis struct {
	binding   Binding
	settings  Settings
	pacer     Pacer
	observers []Observer

	mu  sync.Mutex
	now func() time.Time
}

func NewChassis(binding Binding, settings Settings, pacer Pacer, observers ...Observer) *Chassis {
	return &Chassis{
		binding:   binding,
		settings:  settings,
		pacer:     pacer,
		observers: observers,
		now:       time.Now,
	}
}

func (c *Chassis) Binding() Binding {
	return c.binding
}

func (c *Chassis) Settings() Settings {
	return c.settings
}

func (c *Chassis) AddObserver(observer Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, observer)
}

func (c *Chassis) newController(settings ControllerSettings) *control_loop.PidLoop {
	return control_loop.NewPidLoop(settings.Pid, settings.Exit, c.settings.tick())
}

// tickFunc reads the sensors, computes and applies the commands of a single
// tick and returns a description of it.
type tickFunc func() (Sample, error)

// run drives the tick loop until the given controller settles or ctx is done.
// Controller state never outlives a single run.
func (c *Chassis) run(ctx context.Context, controller *control_loop.PidLoop, result *Result, tick tickFunc) (err error) {
	defer func() {
		result.Outcome = controller.State()
		result.Elapsed = controller.Elapsed()
		result.FinalError = controller.LastError()

		if c.settings.StopOnExit {
			err = errors.Join(err, c.binding.setCommands(0, 0))
		}
		if err == nil {
			c.notifyResult(*result)
		}
	}()

	if r, ok := c.pacer.(resetter); ok {
		r.Reset()
	}

	for {
		if ctx.Err() != nil {
			controller.Cancel()
			return nil
		}

		sample, err := tick()
		if err != nil {
			return err
		}
		result.Ticks++
		result.ErrorTrace = append(result.ErrorTrace, sample.Error)
		sample.Kind = result.Kind
		sample.Tick = result.Ticks
		sample.Elapsed = controller.Elapsed()
		ui.Debug("%s tick %d: target=%.2f measured=%.2f error=%.3f left=%.0f right=%.0f",
			sample.Kind, sample.Tick, sample.Target, sample.Measured, sample.Error, sample.Left, sample.Right)
		c.notifySample(sample)

		if controller.Settled() {
			return nil
		}

		if err := c.pacer.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				controller.Cancel()
				return nil
			}
			return err
		}
	}
}

func (c *Chassis) notifySample(sample Sample) {
	for _, observer := range c.observers {
		observer.OnSample(sample)
	}
}

func (c *Chassis) notifyResult(result Result) {
	for _, observer := range c.observers {
		observer.OnResult(result)
	}
}

func logResult(result Result) {
	switch result.Outcome {
	case control_loop.Converged:
		ui.Info("%s to %.2f converged after %d ticks (%s), final error: %.3f", result.Kind, result.Target, result.Ticks, result.Elapsed, result.FinalError)
	case control_loop.TimedOut:
		ui.Warning("%s to %.2f timed out after %s, final error: %.3f", result.Kind, result.Target, result.Elapsed, result.FinalError)
	case control_loop.Cancelled:
		ui.Warning("%s to %.2f cancelled after %s", result.Kind, result.Target, result.Elapsed)
	}
}
