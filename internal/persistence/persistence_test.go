package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/drive2go/drive2go/internal/control_loop"
	"github.com/drive2go/drive2go/internal/motion"
	"github.com/stretchr/testify/assert"
)

func newTestPersistence(t *testing.T) Persistence {
	p := NewPersistence(filepath.Join(t.TempDir(), "db", "test.db"))
	assert.NoError(t, p.Init())
	return p
}

func createRun(id string, startedAt time.Time) Run {
	return Run{
		Id:        id,
		Routine:   "square",
		Status:    RunStatusCompleted,
		StartedAt: startedAt,
		Motions:   2,
		Converged: 1,
		TimedOut:  1,
	}
}

func TestPersistence_SaveAndLoadRun(t *testing.T) {
	// GIVEN
	p := newTestPersistence(t)
	run := createRun("square-1", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	// WHEN
	err := p.SaveRun(run)
	assert.NoError(t, err)
	loaded, err := p.LoadRun("square-1")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, run.Id, loaded.Id)
	assert.Equal(t, run.Status, loaded.Status)
	assert.True(t, run.StartedAt.Equal(loaded.StartedAt))
	assert.Equal(t, 1, loaded.TimedOut)
}

func TestPersistence_LoadRun_Missing(t *testing.T) {
	// GIVEN
	p := newTestPersistence(t)

	// WHEN
	_, err := p.LoadRun("missing")

	// THEN
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersistence_ListRuns_MostRecentFirst(t *testing.T) {
	// GIVEN
	p := newTestPersistence(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	_ = p.SaveRun(createRun("b", base))
	_ = p.SaveRun(createRun("a", base.Add(time.Minute)))
	_ = p.SaveRun(createRun("c", base.Add(-time.Minute)))

	// WHEN
	runs, err := p.ListRuns()

	// THEN
	assert.NoError(t, err)
	assert.Len(t, runs, 3)
	assert.Equal(t, "a", runs[0].Id)
	assert.Equal(t, "b", runs[1].Id)
	assert.Equal(t, "c", runs[2].Id)
}

func TestPersistence_ListRuns_Empty(t *testing.T) {
	// GIVEN
	p := newTestPersistence(t)

	// WHEN
	runs, err := p.ListRuns()

	// THEN
	assert.NoError(t, err)
	assert.Empty(t, runs)
}

func TestPersistence_SaveAndLoadResults(t *testing.T) {
	// GIVEN
	p := newTestPersistence(t)
	drive := motion.Result{
		Kind:       motion.KindDrive,
		Target:     24,
		Outcome:    control_loop.Converged,
		Ticks:      10,
		Elapsed:    200 * time.Millisecond,
		FinalError: 0.05,
		ErrorTrace: []float64{24, 12, 6},
	}
	turn := motion.Result{
		Kind:    motion.KindTurn,
		Target:  90,
		Outcome: control_loop.TimedOut,
		Ticks:   150,
	}

	// WHEN
	// saved out of order, indices above 255 need more than one byte
	assert.NoError(t, p.SaveResult("run", 300, turn))
	assert.NoError(t, p.SaveResult("run", 2, drive))
	results, err := p.LoadResults("run")

	// THEN
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, motion.KindDrive, results[0].Kind)
	assert.Equal(t, control_loop.Converged, results[0].Outcome)
	assert.Equal(t, []float64{24, 12, 6}, results[0].ErrorTrace)
	assert.Equal(t, 200*time.Millisecond, results[0].Elapsed)
	assert.Equal(t, control_loop.TimedOut, results[1].Outcome)
}

func TestPersistence_DeleteRun(t *testing.T) {
	// GIVEN
	p := newTestPersistence(t)
	_ = p.SaveRun(createRun("run", time.Now()))
	_ = p.SaveResult("run", 0, motion.Result{Kind: motion.KindDrive})

	// WHEN
	err := p.DeleteRun("run")

	// THEN
	assert.NoError(t, err)
	_, err = p.LoadRun("run")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = p.LoadResults("run")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersistence_DeleteRun_Missing(t *testing.T) {
	// GIVEN
	p := newTestPersistence(t)

	// WHEN
	err := p.DeleteRun("missing")

	// THEN
	assert.ErrorIs(t, err, ErrNotFound)
}
