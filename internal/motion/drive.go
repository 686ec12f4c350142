package motion

import (
	"context"
	"fmt"

	"github.com/drive2go/drive2go/internal/control_loop"
	"github.com/drive2go/drive2go/internal/ui"
	"github.com/drive2go/drive2go/internal/util"
)

// DriveStraight drives the given distance while holding the heading the robot
// had when the call started. Only the distance controller decides when the
// motion ends. An error is returned for I/O failures only, the outcome of the
// motion is part of the Result.
func (c *Chassis) DriveStraight(ctx context.Context, distance float64) (Result, error) {
	if !c.mu.TryLock() {
		return Result{}, ErrBusy
	}
	defer c.mu.Unlock()

	result := Result{
		Kind:      KindDrive,
		Target:    distance,
		StartedAt: c.now(),
	}

	if err := c.binding.Validate(); err != nil {
		return result, err
	}
	if err := c.binding.zeroPositions(); err != nil {
		return result, fmt.Errorf("zero positions: %w", err)
	}
	targetHeading, err := c.binding.Heading.GetHeading()
	if err != nil {
		return result, fmt.Errorf("read heading: %w", err)
	}

	linear := c.newController(c.settings.Linear)
	heading := c.newController(c.settings.Heading)
	slew := control_loop.NewSlewControlLoop(c.settings.Linear.Slew)
	maxVoltage := c.settings.maxVoltage()
	forward := 0.0

	ui.Debug("drive %.2f holding heading %.2f", distance, targetHeading)

	err = c.run(ctx, linear, &result, func() (Sample, error) {
		position, err := c.binding.position()
		if err != nil {
			return Sample{}, fmt.Errorf("read position: %w", err)
		}
		travelled := c.settings.Geometry.Distance(position)

		currentHeading, err := c.binding.Heading.GetHeading()
		if err != nil {
			return Sample{}, fmt.Errorf("read heading: %w", err)
		}

		// the slew state must stay within the actuator range
		forward = slew.Loop(control_loop.Saturate(linear.Loop(distance, travelled), maxVoltage), forward)
		headingError := util.NormalizeAngle(targetHeading - currentHeading)
		correction := heading.LoopError(headingError)

		left, right := Mix(forward, correction, maxVoltage)
		if err := c.binding.setCommands(left, right); err != nil {
			return Sample{}, fmt.Errorf("set commands: %w", err)
		}

		return Sample{
			Target:       distance,
			Measured:     travelled,
			Error:        linear.LastError(),
			HeadingError: headingError,
			Left:         left,
			Right:        right,
		}, nil
	})
	if err != nil {
		ui.Error("drive %.2f failed: %v", distance, err)
		return result, err
	}

	logResult(result)
	return result, nil
}

// Mix combines a forward and a correction command into saturated
// left and right commands.
func Mix(forward float64, correction float64, maxVoltage float64) (left float64, right float64) {
	left = control_loop.Saturate(forward+correction, maxVoltage)
	right = control_loop.Saturate(forward-correction, maxVoltage)
	return left, right
}
