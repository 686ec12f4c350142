package routine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/control_loop"
	"github.com/drive2go/drive2go/internal/motion"
	"github.com/drive2go/drive2go/internal/persistence"
	"github.com/drive2go/drive2go/internal/ui"
)

// calls nested deeper than this are rejected
const maxCallDepth = 16

var (
	ErrTimedOut       = errors.New("motion timed out")
	ErrCancelled      = errors.New("routine cancelled")
	ErrUnknownRoutine = errors.New("unknown routine")
)

// Chassis executes single motions
type Chassis interface {
	DriveStraight(ctx context.Context, distance float64) (motion.Result, error)
	TurnTo(ctx context.Context, target float64, mode motion.TurnMode) (motion.Result, error)
}

type Report struct {
	Run     persistence.Run
	Results []motion.Result
}

type Runner struct {
	chassis     Chassis
	routines    map[string]Routine
	persistence persistence.Persistence

	sleep func(ctx context.Context, duration time.Duration) error
	now   func() time.Time
}

// NewRunner creates a runner for the given routines. persistence may be nil,
// in which case results are not stored.
func NewRunner(chassis Chassis, routines []Routine, p persistence.Persistence) *Runner {
	routineMap := map[string]Routine{}
	for _, routine := range routines {
		routineMap[routine.Id] = routine
	}
	return &Runner{
		chassis:     chassis,
		routines:    routineMap,
		persistence: p,
		sleep:       sleepContext,
		now:         time.Now,
	}
}

func sleepContext(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run executes the routine with the given id step by step.
// A non-nil error is returned if the routine did not complete, the report
// always contains all motions that were executed.
func (r *Runner) Run(ctx context.Context, routineId string) (Report, error) {
	routine, ok := r.routines[routineId]
	if !ok {
		return Report{}, fmt.Errorf("%w: %s", ErrUnknownRoutine, routineId)
	}

	startedAt := r.now()
	report := &Report{
		Run: persistence.Run{
			Id:        fmt.Sprintf("%s-%d", routineId, startedAt.UnixMilli()),
			Routine:   routineId,
			Status:    persistence.RunStatusRunning,
			StartedAt: startedAt,
		},
	}
	r.saveRun(report.Run)
	ui.Info("Starting routine %s (run %s)", routineId, report.Run.Id)

	err := r.execute(ctx, report, routine, 0)

	report.Run.FinishedAt = r.now()
	switch {
	case err == nil:
		report.Run.Status = persistence.RunStatusCompleted
		ui.Success("Routine %s completed: %d/%d motions converged", routineId, report.Run.Converged, report.Run.Motions)
	case errors.Is(err, ErrCancelled):
		report.Run.Status = persistence.RunStatusCancelled
		ui.Warning("Routine %s cancelled", routineId)
	case errors.Is(err, ErrTimedOut):
		report.Run.Status = persistence.RunStatusAborted
		ui.Warning("Routine %s aborted: %v", routineId, err)
	default:
		report.Run.Status = persistence.RunStatusFailed
		ui.Error("Routine %s failed: %v", routineId, err)
	}
	if err != nil {
		report.Run.Error = err.Error()
	}
	r.saveRun(report.Run)

	return *report, err
}

func (r *Runner) execute(ctx context.Context, report *Report, routine Routine, depth int) error {
	if depth > maxCallDepth {
		return fmt.Errorf("routine %s: maximum call depth of %d exceeded", routine.Id, maxCallDepth)
	}

	for idx, step := range routine.Steps {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		ui.Debug("routine %s, step %d: %s", routine.Id, idx+1, step)

		var err error
		switch step.Kind {
		case StepDrive:
			result, motionErr := r.chassis.DriveStraight(ctx, step.Distance)
			err = r.handleResult(report, routine, result, motionErr)
		case StepTurn:
			result, motionErr := r.chassis.TurnTo(ctx, step.Heading, step.Mode)
			err = r.handleResult(report, routine, result, motionErr)
		case StepWait:
			if r.sleep(ctx, step.Duration) != nil {
				err = ErrCancelled
			}
		case StepCall:
			callee, ok := r.routines[step.Routine]
			if !ok {
				err = fmt.Errorf("%w: %s", ErrUnknownRoutine, step.Routine)
				break
			}
			err = r.execute(ctx, report, callee, depth+1)
		default:
			err = fmt.Errorf("unknown step kind: %s", step.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) handleResult(report *Report, routine Routine, result motion.Result, err error) error {
	if err != nil {
		return err
	}

	run := &report.Run
	r.saveResult(run.Id, len(report.Results), result)
	report.Results = append(report.Results, result)
	run.Motions++

	switch result.Outcome {
	case control_loop.Converged:
		run.Converged++
	case control_loop.TimedOut:
		run.TimedOut++
		if routine.OnTimeout == configuration.OnTimeoutAbort {
			return fmt.Errorf("%w: %s to %.2f in routine %s", ErrTimedOut, result.Kind, result.Target, routine.Id)
		}
		ui.Warning("%s to %.2f in routine %s timed out, continuing", result.Kind, result.Target, routine.Id)
	case control_loop.Cancelled:
		return ErrCancelled
	}
	return nil
}

func (r *Runner) saveRun(run persistence.Run) {
	if r.persistence == nil {
		return
	}
	if err := r.persistence.SaveRun(run); err != nil {
		ui.Warning("Unable to persist run %s: %v", run.Id, err)
	}
}

func (r *Runner) saveResult(runId string, index int, result motion.Result) {
	if r.persistence == nil {
		return
	}
	if err := r.persistence.SaveResult(runId, index, result); err != nil {
		ui.Warning("Unable to persist result %d of run %s: %v", index, runId, err)
	}
}
