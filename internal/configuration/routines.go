package configuration

import "time"

type TurnMode string

const (
	TurnModeRelative TurnMode = "relative"
	TurnModeAbsolute TurnMode = "absolute"
)

type OnTimeoutAction string

const (
	OnTimeoutContinue OnTimeoutAction = "continue"
	OnTimeoutAbort    OnTimeoutAction = "abort"
)

type RoutineConfig struct {
	ID string `json:"id"`
	// What to do when a motion of this routine times out, defaults to "continue"
	OnTimeout OnTimeoutAction `json:"onTimeout"`
	Steps     []StepConfig    `json:"steps"`
}

type StepConfig struct {
	Drive *DriveStepConfig `json:"drive,omitempty"`
	Turn  *TurnStepConfig  `json:"turn,omitempty"`
	Wait  *WaitStepConfig  `json:"wait,omitempty"`
	Call  *CallStepConfig  `json:"call,omitempty"`
}

type DriveStepConfig struct {
	Distance float64 `json:"distance"`
}

type TurnStepConfig struct {
	Heading float64 `json:"heading"`
	// Mode is required, a turn target is never interpreted implicitly
	Mode TurnMode `json:"mode"`
}

type WaitStepConfig struct {
	Duration time.Duration `json:"duration"`
}

type CallStepConfig struct {
	Routine string `json:"routine"`
}
