package motion

import (
	"errors"

	"github.com/drive2go/drive2go/internal/actuators"
	"github.com/drive2go/drive2go/internal/sensors"
)

// Binding names the hardware a chassis acts on. Aux actuators receive the
// same command as the primary actuator of their side, positions are read
// from the primary actuators only.
type Binding struct {
	Left     actuators.Actuator
	Right    actuators.Actuator
	LeftAux  []actuators.Actuator
	RightAux []actuators.Actuator
	Heading  sensors.HeadingSensor
}

func (b Binding) Validate() error {
	if b.Left == nil || b.Right == nil {
		return errors.New("binding: left and right actuators are required")
	}
	if b.Heading == nil {
		return errors.New("binding: heading sensor is required")
	}
	return nil
}

func (b Binding) leftSide() *actuators.Group {
	return actuators.NewGroup(b.Left.GetId(), append([]actuators.Actuator{b.Left}, b.LeftAux...)...)
}

func (b Binding) rightSide() *actuators.Group {
	return actuators.NewGroup(b.Right.GetId(), append([]actuators.Actuator{b.Right}, b.RightAux...)...)
}

func (b Binding) setCommands(left float64, right float64) error {
	return errors.Join(
		b.leftSide().SetCommand(left),
		b.rightSide().SetCommand(right),
	)
}

func (b Binding) zeroPositions() error {
	return errors.Join(
		b.Left.ZeroReference(),
		b.Right.ZeroReference(),
	)
}

// position returns the mean of the left and right position estimates
func (b Binding) position() (float64, error) {
	left, err := b.Left.GetPositionEstimate()
	if err != nil {
		return 0, err
	}
	right, err := b.Right.GetPositionEstimate()
	if err != nil {
		return 0, err
	}
	return (left + right) / 2, nil
}
