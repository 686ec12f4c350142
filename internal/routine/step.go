package routine

import (
	"errors"
	"fmt"
	"time"

	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/motion"
)

type StepKind string

const (
	StepDrive StepKind = "drive"
	StepTurn  StepKind = "turn"
	StepWait  StepKind = "wait"
	StepCall  StepKind = "call"
)

type Step struct {
	Kind StepKind

	Distance float64

	Heading float64
	Mode    motion.TurnMode

	Duration time.Duration

	Routine string
}

func (s Step) String() string {
	switch s.Kind {
	case StepDrive:
		return fmt.Sprintf("drive %.2f", s.Distance)
	case StepTurn:
		return fmt.Sprintf("turn %s %.2f", s.Mode, s.Heading)
	case StepWait:
		return fmt.Sprintf("wait %s", s.Duration)
	case StepCall:
		return fmt.Sprintf("call %s", s.Routine)
	default:
		return string(s.Kind)
	}
}

type Routine struct {
	Id        string
	OnTimeout configuration.OnTimeoutAction
	Steps     []Step
}

func NewStep(config configuration.StepConfig) (Step, error) {
	switch {
	case config.Drive != nil:
		return Step{Kind: StepDrive, Distance: config.Drive.Distance}, nil
	case config.Turn != nil:
		mode, err := TurnModeFromConfig(config.Turn.Mode)
		if err != nil {
			return Step{}, err
		}
		return Step{Kind: StepTurn, Heading: config.Turn.Heading, Mode: mode}, nil
	case config.Wait != nil:
		return Step{Kind: StepWait, Duration: config.Wait.Duration}, nil
	case config.Call != nil:
		return Step{Kind: StepCall, Routine: config.Call.Routine}, nil
	default:
		return Step{}, errors.New("empty step")
	}
}

func TurnModeFromConfig(mode configuration.TurnMode) (motion.TurnMode, error) {
	switch mode {
	case configuration.TurnModeRelative:
		return motion.TurnRelative, nil
	case configuration.TurnModeAbsolute:
		return motion.TurnAbsolute, nil
	default:
		return 0, fmt.Errorf("invalid turn mode: %q", mode)
	}
}

func NewRoutine(config configuration.RoutineConfig) (Routine, error) {
	routine := Routine{
		Id:        config.ID,
		OnTimeout: config.OnTimeout,
	}
	if routine.OnTimeout == "" {
		routine.OnTimeout = configuration.OnTimeoutContinue
	}
	for idx, stepConfig := range config.Steps {
		step, err := NewStep(stepConfig)
		if err != nil {
			return Routine{}, fmt.Errorf("routine %s, step %d: %w", config.ID, idx+1, err)
		}
		routine.Steps = append(routine.Steps, step)
	}
	return routine, nil
}

func NewRoutines(configs []configuration.RoutineConfig) ([]Routine, error) {
	var result []Routine
	for _, config := range configs {
		routine, err := NewRoutine(config)
		if err != nil {
			return nil, err
		}
		result = append(result, routine)
	}
	return result, nil
}
