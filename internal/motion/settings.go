package motion

import (
	"time"

	"github.com/drive2go/drive2go/internal/control_loop"
)

const DefaultTick = 20 * time.Millisecond

type ControllerSettings struct {
	Pid  control_loop.PidSettings
	Exit control_loop.ExitConditions
	// maximum command change per tick, 0 disables slew limiting
	Slew float64
}

type Settings struct {
	Tick       time.Duration
	MaxVoltage float64
	Geometry   Geometry

	// distance controller of DriveStraight, decides when a drive ends
	Linear ControllerSettings
	// heading hold controller of DriveStraight, never ends a drive
	Heading ControllerSettings
	// heading controller of TurnTo
	Angular ControllerSettings

	// command all actuators to 0 when a motion ends
	StopOnExit bool
}

func (s Settings) tick() time.Duration {
	if s.Tick <= 0 {
		return DefaultTick
	}
	return s.Tick
}

func (s Settings) maxVoltage() float64 {
	if s.MaxVoltage <= 0 {
		return control_loop.DefaultMaxVoltage
	}
	return s.MaxVoltage
}
