package actuators

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/drive2go/drive2go/internal/configuration"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	ActuatorMap = cmap.New[Actuator]()

	ErrNoPositionFeedback = errors.New("actuator has no position feedback")
)

// Actuator is a single motor that accepts a signed power command
type Actuator interface {
	GetId() string

	// SetCommand applies the given command, positive values drive forward
	SetCommand(command float64) error
	// GetLastCommand returns the last value passed to SetCommand
	GetLastCommand() float64

	// ZeroReference makes the current position the new origin of GetPositionEstimate
	ZeroReference() error
	// GetPositionEstimate returns the position relative to the last ZeroReference call
	GetPositionEstimate() (float64, error)
}

func NewActuator(config configuration.ActuatorConfig, maxVoltage float64) (Actuator, error) {
	var actuator Actuator

	switch {
	case config.Sim != nil:
		actuator = NewSimActuator(config.ID, config.Sim.InitialPosition)
	case config.File != nil:
		actuator = &FileActuator{
			Config:   config,
			position: filePosition{path: config.File.PositionPath},
		}
	case config.Can != nil:
		actuator = &CanActuator{
			Config:     config,
			MaxVoltage: maxVoltage,
		}
	case config.Pwm != nil:
		actuator = &PwmActuator{
			Config:     config,
			MaxVoltage: maxVoltage,
			position:   filePosition{path: config.Pwm.PositionPath},
		}
	default:
		return nil, fmt.Errorf("no matching actuator type for actuator: %s", config.ID)
	}

	if config.Reversed {
		actuator = Reverse(actuator)
	}
	return actuator, nil
}

// Close releases the resources held by the given actuator, if any
func Close(actuator Actuator) error {
	if closer, ok := actuator.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// CloseAll closes all registered actuators and releases the GPIO memory map.
func CloseAll() error {
	var result error
	for _, actuator := range ActuatorMap.Items() {
		result = errors.Join(result, Close(actuator))
	}
	return errors.Join(result, closeGpio())
}

// readyWaiter is implemented by actuators that need time before they report a position
type readyWaiter interface {
	WaitReady(timeout time.Duration) error
}

// WaitReady blocks until the given actuator is connected and reports a
// position, if it has position feedback at all.
func WaitReady(actuator Actuator, timeout time.Duration) error {
	if waiter, ok := actuator.(readyWaiter); ok {
		return waiter.WaitReady(timeout)
	}
	return nil
}
