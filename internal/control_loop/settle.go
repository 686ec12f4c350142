package control_loop

import (
	"fmt"
	"time"
)

// DefaultMaxDuration is used for ExitConditions without a MaxDuration,
// so that every motion has an upper time bound.
const DefaultMaxDuration = 5 * time.Second

type SettleState int

const (
	// Active means the loop is still regulating
	Active SettleState = iota
	// Converged means the error stayed within one of the error bands long enough
	Converged
	// TimedOut means MaxDuration elapsed before the loop converged
	TimedOut
	// Cancelled means the loop was stopped from the outside
	Cancelled
)

var settleStateNames = map[SettleState]string{
	Active:    "active",
	Converged: "converged",
	TimedOut:  "timedOut",
	Cancelled: "cancelled",
}

func (s SettleState) String() string {
	name, ok := settleStateNames[s]
	if !ok {
		return fmt.Sprintf("unknown(%d)", int(s))
	}
	return name
}

// IsTerminal is true for every state other than Active
func (s SettleState) IsTerminal() bool {
	return s != Active
}

func (s SettleState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SettleState) UnmarshalText(text []byte) error {
	for state, name := range settleStateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown settle state: %s", string(text))
}

// ExitConditions configures when a SettleDetector considers a motion finished.
// A band is disabled if either its error threshold or its duration is <= 0.
type ExitConditions struct {
	SmallError         float64
	SmallErrorDuration time.Duration
	LargeError         float64
	LargeErrorDuration time.Duration
	MaxDuration        time.Duration
}

func (e ExitConditions) smallBandEnabled() bool {
	return e.SmallError > 0 && e.SmallErrorDuration > 0
}

func (e ExitConditions) largeBandEnabled() bool {
	return e.LargeError > 0 && e.LargeErrorDuration > 0
}

// SettleDetector tracks how long the error of a control loop has been
// within the small and the large error band and how long the loop is
// running in total.
type SettleDetector struct {
	exit  ExitConditions
	state SettleState

	timeInSmallBand time.Duration
	timeInLargeBand time.Duration
	elapsed         time.Duration
}

func NewSettleDetector(exit ExitConditions) *SettleDetector {
	if exit.MaxDuration <= 0 {
		exit.MaxDuration = DefaultMaxDuration
	}
	return &SettleDetector{
		exit: exit,
	}
}

// Update advances the detector by one tick of length dt with the given
// absolute error and returns the resulting state.
// Terminal states are never left again.
func (s *SettleDetector) Update(absError float64, dt time.Duration) SettleState {
	if s.state.IsTerminal() {
		return s.state
	}

	s.elapsed += dt

	if absError <= s.exit.SmallError {
		s.timeInSmallBand += dt
	} else {
		s.timeInSmallBand = 0
	}
	if absError <= s.exit.LargeError {
		s.timeInLargeBand += dt
	} else {
		s.timeInLargeBand = 0
	}

	// convergence wins over a timeout on the same tick
	if s.exit.smallBandEnabled() && s.timeInSmallBand >= s.exit.SmallErrorDuration {
		s.state = Converged
	} else if s.exit.largeBandEnabled() && s.timeInLargeBand >= s.exit.LargeErrorDuration {
		s.state = Converged
	} else if s.elapsed >= s.exit.MaxDuration {
		s.state = TimedOut
	}

	return s.state
}

// Cancel moves the detector into the Cancelled state, unless it already
// reached a terminal state.
func (s *SettleDetector) Cancel() {
	if !s.state.IsTerminal() {
		s.state = Cancelled
	}
}

// Settled is true for every terminal state, including TimedOut and Cancelled.
// Use State to tell them apart.
func (s *SettleDetector) Settled() bool {
	return s.state.IsTerminal()
}

func (s *SettleDetector) State() SettleState {
	return s.state
}

func (s *SettleDetector) Elapsed() time.Duration {
	return s.elapsed
}

func (s *SettleDetector) TimeInSmallBand() time.Duration {
	return s.timeInSmallBand
}

func (s *SettleDetector) TimeInLargeBand() time.Duration {
	return s.timeInLargeBand
}

func (s *SettleDetector) Reset() {
	s.state = Active
	s.timeInSmallBand = 0
	s.timeInLargeBand = 0
	s.elapsed = 0
}
