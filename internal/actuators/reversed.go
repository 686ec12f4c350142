package actuators

import (
	"io"
	"time"
)

type reversedActuator struct {
	Actuator
}

// Reverse returns an actuator that negates commands and positions of the given one
func Reverse(actuator Actuator) Actuator {
	return &reversedActuator{Actuator: actuator}
}

func (a *reversedActuator) SetCommand(command float64) error {
	return a.Actuator.SetCommand(-command)
}

func (a *reversedActuator) GetLastCommand() float64 {
	return -a.Actuator.GetLastCommand()
}

func (a *reversedActuator) GetPositionEstimate() (float64, error) {
	position, err := a.Actuator.GetPositionEstimate()
	return -position, err
}

func (a *reversedActuator) Close() error {
	if closer, ok := a.Actuator.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (a *reversedActuator) WaitReady(timeout time.Duration) error {
	return WaitReady(a.Actuator, timeout)
}
