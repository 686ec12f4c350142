package sim

import (
	"math/rand"
	"sync"

	"github.com/drive2go/drive2go/internal/actuators"
	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/sensors"
)

// Drivetrain is a kinematic model of a differential drive. On every Step,
// each side moves proportionally to its last command and the heading turns
// with the difference of both sides.
type Drivetrain struct {
	Left    *actuators.SimActuator
	Right   *actuators.SimActuator
	Heading *sensors.SimSensor

	config configuration.SimulationConfig

	mu    sync.Mutex
	rand  *rand.Rand
	steps int
}

func NewDrivetrain(
	left *actuators.SimActuator,
	right *actuators.SimActuator,
	heading *sensors.SimSensor,
	config configuration.SimulationConfig,
) *Drivetrain {
	return &Drivetrain{
		Left:    left,
		Right:   right,
		Heading: heading,
		config:  config,
		rand:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Step advances the simulation by one tick
func (d *Drivetrain) Step() {
	d.mu.Lock()
	defer d.mu.Unlock()

	deltaLeft := d.config.Gain * d.Left.GetLastCommand()
	deltaRight := d.config.Gain * d.Right.GetLastCommand()
	d.Left.Advance(deltaLeft)
	d.Right.Advance(deltaRight)

	rotation := d.config.HeadingGain*(deltaLeft-deltaRight) + d.config.Drift
	if d.config.Noise > 0 {
		rotation += (d.rand.Float64()*2 - 1) * d.config.Noise
	}
	d.Heading.Rotate(rotation)

	d.steps++
}

// Steps returns the number of ticks simulated so far
func (d *Drivetrain) Steps() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.steps
}
