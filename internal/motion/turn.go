package motion

import (
	"context"
	"fmt"

	"github.com/drive2go/drive2go/internal/control_loop"
	"github.com/drive2go/drive2go/internal/ui"
	"github.com/drive2go/drive2go/internal/util"
)

// TurnTo turns in place until the robot faces the target heading. The mode
// decides whether target is relative to the heading at the start of the call.
// The robot always takes the shorter way around.
func (c *Chassis) TurnTo(ctx context.Context, target float64, mode TurnMode) (Result, error) {
	if !c.mu.TryLock() {
		return Result{}, ErrBusy
	}
	defer c.mu.Unlock()

	result := Result{
		Kind:      KindTurn,
		Target:    target,
		StartedAt: c.now(),
	}

	if err := c.binding.Validate(); err != nil {
		return result, err
	}

	startHeading, err := c.binding.Heading.GetHeading()
	if err != nil {
		return result, fmt.Errorf("read heading: %w", err)
	}
	absolute, err := ResolveTurnTarget(startHeading, target, mode)
	if err != nil {
		return result, err
	}
	result.Target = absolute

	angular := c.newController(c.settings.Angular)
	slew := control_loop.NewSlewControlLoop(c.settings.Angular.Slew)
	maxVoltage := c.settings.maxVoltage()
	output := 0.0

	ui.Debug("turn %s %.2f from %.2f to %.2f", mode, target, startHeading, absolute)

	err = c.run(ctx, angular, &result, func() (Sample, error) {
		currentHeading, err := c.binding.Heading.GetHeading()
		if err != nil {
			return Sample{}, fmt.Errorf("read heading: %w", err)
		}

		headingError := util.NormalizeAngle(absolute - currentHeading)
		output = slew.Loop(control_loop.Saturate(angular.LoopError(headingError), maxVoltage), output)

		left, right := Mix(0, output, maxVoltage)
		if err := c.binding.setCommands(left, right); err != nil {
			return Sample{}, fmt.Errorf("set commands: %w", err)
		}

		return Sample{
			Target:   absolute,
			Measured: currentHeading,
			Error:    headingError,
			Left:     left,
			Right:    right,
		}, nil
	})
	if err != nil {
		ui.Error("turn to %.2f failed: %v", absolute, err)
		return result, err
	}

	logResult(result)
	return result, nil
}

// ResolveTurnTarget returns the absolute heading a turn aims for
func ResolveTurnTarget(startHeading float64, target float64, mode TurnMode) (float64, error) {
	switch mode {
	case TurnRelative:
		return startHeading + target, nil
	case TurnAbsolute:
		return target, nil
	default:
		return 0, fmt.Errorf("unknown turn mode: %d", mode)
	}
}
