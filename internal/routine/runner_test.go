package routine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/control_loop"
	"github.com/drive2go/drive2go/internal/motion"
	"github.com/drive2go/drive2go/internal/persistence"
	"github.com/stretchr/testify/assert"
)

type call struct {
	kind   motion.Kind
	target float64
	mode   motion.TurnMode
}

type mockChassis struct {
	calls    []call
	outcomes []control_loop.SettleState
	err      error
}

func (c *mockChassis) next(kind motion.Kind, target float64) (motion.Result, error) {
	if c.err != nil {
		return motion.Result{}, c.err
	}
	outcome := control_loop.Converged
	if len(c.outcomes) > 0 {
		outcome = c.outcomes[0]
		c.outcomes = c.outcomes[1:]
	}
	return motion.Result{Kind: kind, Target: target, Outcome: outcome, Ticks: 3}, nil
}

func (c *mockChassis) DriveStraight(ctx context.Context, distance float64) (motion.Result, error) {
	c.calls = append(c.calls, call{kind: motion.KindDrive, target: distance})
	return c.next(motion.KindDrive, distance)
}

func (c *mockChassis) TurnTo(ctx context.Context, target float64, mode motion.TurnMode) (motion.Result, error) {
	c.calls = append(c.calls, call{kind: motion.KindTurn, target: target, mode: mode})
	return c.next(motion.KindTurn, target)
}

func square() Routine {
	return Routine{
		Id: "square",
		Steps: []Step{
			{Kind: StepDrive, Distance: 24},
			{Kind: StepTurn, Heading: 90, Mode: motion.TurnRelative},
			{Kind: StepDrive, Distance: 24},
		},
	}
}

func newTestRunner(chassis Chassis, p persistence.Persistence, routines ...Routine) (*Runner, *[]time.Duration) {
	runner := NewRunner(chassis, routines, p)
	var sleeps []time.Duration
	runner.sleep = func(ctx context.Context, duration time.Duration) error {
		sleeps = append(sleeps, duration)
		return ctx.Err()
	}
	runner.now = func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return runner, &sleeps
}

func TestRunner_Run_Completed(t *testing.T) {
	// GIVEN
	chassis := &mockChassis{}
	runner, _ := newTestRunner(chassis, nil, square())

	// WHEN
	report, err := runner.Run(context.Background(), "square")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []call{
		{kind: motion.KindDrive, target: 24},
		{kind: motion.KindTurn, target: 90, mode: motion.TurnRelative},
		{kind: motion.KindDrive, target: 24},
	}, chassis.calls)
	assert.Len(t, report.Results, 3)
	assert.Equal(t, persistence.RunStatusCompleted, report.Run.Status)
	assert.Equal(t, 3, report.Run.Motions)
	assert.Equal(t, 3, report.Run.Converged)
	assert.Equal(t, "square-1709294400000", report.Run.Id)
}

func TestRunner_Run_UnknownRoutine(t *testing.T) {
	// GIVEN
	runner, _ := newTestRunner(&mockChassis{}, nil, square())

	// WHEN
	_, err := runner.Run(context.Background(), "missing")

	// THEN
	assert.ErrorIs(t, err, ErrUnknownRoutine)
}

func TestRunner_Run_TimeoutContinues(t *testing.T) {
	// GIVEN
	chassis := &mockChassis{outcomes: []control_loop.SettleState{control_loop.TimedOut}}
	runner, _ := newTestRunner(chassis, nil, square())

	// WHEN
	report, err := runner.Run(context.Background(), "square")

	// THEN
	assert.NoError(t, err)
	assert.Len(t, chassis.calls, 3)
	assert.Equal(t, 1, report.Run.TimedOut)
	assert.Equal(t, 2, report.Run.Converged)
}

func TestRunner_Run_TimeoutAborts(t *testing.T) {
	// GIVEN
	chassis := &mockChassis{outcomes: []control_loop.SettleState{control_loop.Converged, control_loop.TimedOut}}
	routine := square()
	routine.OnTimeout = configuration.OnTimeoutAbort
	runner, _ := newTestRunner(chassis, nil, routine)

	// WHEN
	report, err := runner.Run(context.Background(), "square")

	// THEN
	assert.ErrorIs(t, err, ErrTimedOut)
	assert.Len(t, chassis.calls, 2)
	assert.Equal(t, persistence.RunStatusAborted, report.Run.Status)
	assert.Len(t, report.Results, 2)
}

func TestRunner_Run_CancelledMotion(t *testing.T) {
	// GIVEN
	chassis := &mockChassis{outcomes: []control_loop.SettleState{control_loop.Cancelled}}
	runner, _ := newTestRunner(chassis, nil, square())

	// WHEN
	report, err := runner.Run(context.Background(), "square")

	// THEN
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Len(t, chassis.calls, 1)
	assert.Equal(t, persistence.RunStatusCancelled, report.Run.Status)
}

func TestRunner_Run_CancelledContext(t *testing.T) {
	// GIVEN
	chassis := &mockChassis{}
	runner, _ := newTestRunner(chassis, nil, square())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN
	_, err := runner.Run(ctx, "square")

	// THEN
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Empty(t, chassis.calls)
}

func TestRunner_Run_MotionError(t *testing.T) {
	// GIVEN
	chassis := &mockChassis{err: errors.New("can bus down")}
	runner, _ := newTestRunner(chassis, nil, square())

	// WHEN
	report, err := runner.Run(context.Background(), "square")

	// THEN
	assert.EqualError(t, err, "can bus down")
	assert.Equal(t, persistence.RunStatusFailed, report.Run.Status)
	assert.Equal(t, "can bus down", report.Run.Error)
}

func TestRunner_Run_WaitAndCall(t *testing.T) {
	// GIVEN
	chassis := &mockChassis{}
	main := Routine{
		Id: "main",
		Steps: []Step{
			{Kind: StepWait, Duration: 500 * time.Millisecond},
			{Kind: StepCall, Routine: "square"},
			{Kind: StepTurn, Heading: 0, Mode: motion.TurnAbsolute},
		},
	}
	runner, sleeps := newTestRunner(chassis, nil, main, square())

	// WHEN
	report, err := runner.Run(context.Background(), "main")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, *sleeps)
	assert.Len(t, chassis.calls, 4)
	assert.Equal(t, motion.TurnAbsolute, chassis.calls[3].mode)
	assert.Equal(t, 4, report.Run.Motions)
}

func TestRunner_Run_CalleeAbortStopsCaller(t *testing.T) {
	// GIVEN
	chassis := &mockChassis{outcomes: []control_loop.SettleState{control_loop.TimedOut}}
	callee := square()
	callee.OnTimeout = configuration.OnTimeoutAbort
	main := Routine{
		Id: "main",
		Steps: []Step{
			{Kind: StepCall, Routine: "square"},
			{Kind: StepDrive, Distance: 10},
		},
	}
	runner, _ := newTestRunner(chassis, nil, main, callee)

	// WHEN
	_, err := runner.Run(context.Background(), "main")

	// THEN
	assert.ErrorIs(t, err, ErrTimedOut)
	assert.Len(t, chassis.calls, 1)
}

func TestRunner_Run_MaxCallDepth(t *testing.T) {
	// GIVEN
	loop := Routine{
		Id:    "loop",
		Steps: []Step{{Kind: StepCall, Routine: "loop"}},
	}
	runner, _ := newTestRunner(&mockChassis{}, nil, loop)

	// WHEN
	_, err := runner.Run(context.Background(), "loop")

	// THEN
	assert.ErrorContains(t, err, "maximum call depth")
}

func TestRunner_Run_PersistsResults(t *testing.T) {
	// GIVEN
	p := persistence.NewPersistence(filepath.Join(t.TempDir(), "test.db"))
	assert.NoError(t, p.Init())
	chassis := &mockChassis{outcomes: []control_loop.SettleState{control_loop.Converged, control_loop.TimedOut}}
	runner, _ := newTestRunner(chassis, p, square())

	// WHEN
	report, err := runner.Run(context.Background(), "square")
	assert.NoError(t, err)

	// THEN
	run, err := p.LoadRun(report.Run.Id)
	assert.NoError(t, err)
	assert.Equal(t, persistence.RunStatusCompleted, run.Status)
	assert.Equal(t, 1, run.TimedOut)

	results, err := p.LoadResults(report.Run.Id)
	assert.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, control_loop.TimedOut, results[1].Outcome)
	assert.Equal(t, motion.KindTurn, results[1].Kind)
}

func TestNewRoutine(t *testing.T) {
	// GIVEN
	config := configuration.RoutineConfig{
		ID: "square",
		Steps: []configuration.StepConfig{
			{Drive: &configuration.DriveStepConfig{Distance: 24}},
			{Turn: &configuration.TurnStepConfig{Heading: -90, Mode: configuration.TurnModeAbsolute}},
			{Wait: &configuration.WaitStepConfig{Duration: time.Second}},
			{Call: &configuration.CallStepConfig{Routine: "other"}},
		},
	}

	// WHEN
	routine, err := NewRoutine(config)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, configuration.OnTimeoutContinue, routine.OnTimeout)
	assert.Equal(t, []Step{
		{Kind: StepDrive, Distance: 24},
		{Kind: StepTurn, Heading: -90, Mode: motion.TurnAbsolute},
		{Kind: StepWait, Duration: time.Second},
		{Kind: StepCall, Routine: "other"},
	}, routine.Steps)
}

func TestNewRoutine_InvalidTurnMode(t *testing.T) {
	// GIVEN
	config := configuration.RoutineConfig{
		ID: "square",
		Steps: []configuration.StepConfig{
			{Turn: &configuration.TurnStepConfig{Heading: 90}},
		},
	}

	// WHEN
	_, err := NewRoutine(config)

	// THEN
	assert.EqualError(t, err, "routine square, step 1: invalid turn mode: \"\"")
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "drive 24.00", Step{Kind: StepDrive, Distance: 24}.String())
	assert.Equal(t, "turn absolute 90.00", Step{Kind: StepTurn, Heading: 90, Mode: motion.TurnAbsolute}.String())
	assert.Equal(t, "wait 1.5s", Step{Kind: StepWait, Duration: 1500 * time.Millisecond}.String())
	assert.Equal(t, "call other", Step{Kind: StepCall, Routine: "other"}.String())
}
