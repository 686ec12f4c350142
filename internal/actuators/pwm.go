package actuators

import (
	"fmt"
	"math"
	"sync"

	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/stianeikeland/go-rpio/v4"
)

// number of clock ticks per PWM period
const pwmCycleLength uint32 = 1024

var (
	gpioMu     sync.Mutex
	gpioOpened bool
)

func openGpio() error {
	gpioMu.Lock()
	defer gpioMu.Unlock()
	if gpioOpened {
		return nil
	}
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("failed to open GPIO: %w", err)
	}
	gpioOpened = true
	return nil
}

func closeGpio() error {
	gpioMu.Lock()
	defer gpioMu.Unlock()
	if !gpioOpened {
		return nil
	}
	gpioOpened = false
	return rpio.Close()
}

// PwmActuator drives an H-bridge from the Raspberry Pi GPIO header using a
// hardware PWM pin for the magnitude and a second pin for the direction.
type PwmActuator struct {
	Config     configuration.ActuatorConfig `json:"configuration"`
	MaxVoltage float64                      `json:"maxVoltage"`

	mu           sync.Mutex
	initialized  bool
	pwmPin       rpio.Pin
	directionPin rpio.Pin
	lastCommand  float64
	position     filePosition
}

func (a *PwmActuator) GetId() string {
	return a.Config.ID
}

func (a *PwmActuator) setup() error {
	if a.initialized {
		return nil
	}
	if err := openGpio(); err != nil {
		return err
	}
	a.pwmPin = rpio.Pin(a.Config.Pwm.PwmPin)
	a.pwmPin.Mode(rpio.Pwm)
	a.pwmPin.Freq(a.Config.Pwm.Frequency * int(pwmCycleLength))
	a.pwmPin.DutyCycle(0, pwmCycleLength)

	a.directionPin = rpio.Pin(a.Config.Pwm.DirectionPin)
	a.directionPin.Output()
	a.directionPin.Low()

	a.initialized = true
	return nil
}

func (a *PwmActuator) SetCommand(command float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.setup(); err != nil {
		return err
	}
	if command < 0 {
		a.directionPin.High()
	} else {
		a.directionPin.Low()
	}
	a.pwmPin.DutyCycle(dutyCycle(command, a.MaxVoltage, pwmCycleLength), pwmCycleLength)
	a.lastCommand = command
	return nil
}

func (a *PwmActuator) GetLastCommand() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastCommand
}

func (a *PwmActuator) ZeroReference() error {
	return a.position.zero()
}

func (a *PwmActuator) GetPositionEstimate() (float64, error) {
	return a.position.estimate()
}

// Close stops the motor and returns both pins to input mode
func (a *PwmActuator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return nil
	}
	a.pwmPin.DutyCycle(0, pwmCycleLength)
	a.pwmPin.Input()
	a.directionPin.Input()
	a.initialized = false
	return nil
}

// dutyCycle maps the magnitude of a command to the duty length of a PWM period
func dutyCycle(command float64, maxVoltage float64, cycleLength uint32) uint32 {
	if maxVoltage == 0 || math.IsNaN(command) {
		return 0
	}
	ratio := math.Min(math.Abs(command)/math.Abs(maxVoltage), 1)
	return uint32(math.Round(ratio * float64(cycleLength)))
}
