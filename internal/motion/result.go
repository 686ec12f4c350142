package motion

import (
	"time"

	"github.com/drive2go/drive2go/internal/control_loop"
)

type Kind string

const (
	KindDrive Kind = "drive"
	KindTurn  Kind = "turn"
)

type TurnMode int

const (
	// TurnRelative interprets the target as a change of the current heading
	TurnRelative TurnMode = iota
	// TurnAbsolute interprets the target as a heading
	TurnAbsolute
)

func (m TurnMode) String() string {
	switch m {
	case TurnRelative:
		return "relative"
	case TurnAbsolute:
		return "absolute"
	default:
		return "unknown"
	}
}

// Result describes how a single motion ended
type Result struct {
	Kind Kind `json:"kind"`
	// distance for drives, absolute heading for turns
	Target     float64                  `json:"target"`
	Outcome    control_loop.SettleState `json:"outcome"`
	Ticks      int                      `json:"ticks"`
	Elapsed    time.Duration            `json:"elapsed"`
	FinalError float64                  `json:"finalError"`
	StartedAt  time.Time                `json:"startedAt"`
	// error of the deciding controller per tick
	ErrorTrace []float64 `json:"errorTrace,omitempty"`
}

func (r Result) Converged() bool {
	return r.Outcome == control_loop.Converged
}

// Sample is the state of a motion after one tick
type Sample struct {
	Kind     Kind          `json:"kind"`
	Tick     int           `json:"tick"`
	Elapsed  time.Duration `json:"elapsed"`
	Target   float64       `json:"target"`
	Measured float64       `json:"measured"`
	Error    float64       `json:"error"`
	// heading error held by DriveStraight, 0 for turns
	HeadingError float64 `json:"headingError"`
	Left         float64 `json:"left"`
	Right        float64 `json:"right"`
}

// Observer is notified about the progress of every motion. Observers must
// not block, they are called from within the control loop.
type Observer interface {
	OnSample(sample Sample)
	OnResult(result Result)
}
