package persistence

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/drive2go/drive2go/internal/motion"
	"github.com/drive2go/drive2go/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketRuns    = "runs"
	BucketResults = "results"
)

var ErrNotFound = errors.New("not found")

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusAborted   RunStatus = "aborted"
	RunStatusCancelled RunStatus = "cancelled"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the metadata of a single routine execution
type Run struct {
	Id         string    `json:"id"`
	Routine    string    `json:"routine"`
	Status     RunStatus `json:"status"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
	Motions    int       `json:"motions"`
	Converged  int       `json:"converged"`
	TimedOut   int       `json:"timedOut"`
	Error      string    `json:"error,omitempty"`
}

type Persistence interface {
	Init() error

	SaveRun(run Run) error
	LoadRun(runId string) (Run, error)
	// ListRuns returns all runs, most recent first
	ListRuns() ([]Run, error)
	DeleteRun(runId string) error

	SaveResult(runId string, index int, result motion.Result) error
	// LoadResults returns the results of a run ordered by index
	LoadResults(runId string) ([]motion.Result, error)
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func closeDb(db *bolt.DB) {
	_ = db.Close()
}

func indexKey(index int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(index))
	return key
}

func (p persistence) SaveRun(run Run) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer closeDb(db)

	data, err := json.Marshal(run)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketRuns))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		return b.Put([]byte(run.Id), data)
	})
}

func (p persistence) LoadRun(runId string) (Run, error) {
	db, err := p.openPersistence()
	if err != nil {
		return Run{}, err
	}
	defer closeDb(db)

	var run Run
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketRuns))
		if b == nil {
			return ErrNotFound
		}
		data := b.Get([]byte(runId))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &run)
	})
	if err != nil {
		return Run{}, fmt.Errorf("run %s: %w", runId, err)
	}
	return run, nil
}

func (p persistence) ListRuns() ([]Run, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer closeDb(db)

	var runs []Run
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketRuns))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("run %s: %w", string(k), err)
			}
			runs = append(runs, run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

func (p persistence) DeleteRun(runId string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer closeDb(db)

	return db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket([]byte(BucketRuns))
		if runs == nil || runs.Get([]byte(runId)) == nil {
			return fmt.Errorf("run %s: %w", runId, ErrNotFound)
		}
		if err := runs.Delete([]byte(runId)); err != nil {
			return err
		}

		results := tx.Bucket([]byte(BucketResults))
		if results == nil || results.Bucket([]byte(runId)) == nil {
			return nil
		}
		return results.DeleteBucket([]byte(runId))
	})
}

func (p persistence) SaveResult(runId string, index int, result motion.Result) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer closeDb(db)

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		results, err := tx.CreateBucketIfNotExists([]byte(BucketResults))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		run, err := results.CreateBucketIfNotExists([]byte(runId))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		return run.Put(indexKey(index), data)
	})
}

func (p persistence) LoadResults(runId string) ([]motion.Result, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer closeDb(db)

	var results []motion.Result
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketResults))
		if b == nil {
			return ErrNotFound
		}
		run := b.Bucket([]byte(runId))
		if run == nil {
			return ErrNotFound
		}
		// keys are big endian, so the cursor yields them in index order
		return run.ForEach(func(k, v []byte) error {
			var result motion.Result
			if err := json.Unmarshal(v, &result); err != nil {
				return err
			}
			results = append(results, result)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("results of run %s: %w", runId, err)
	}
	return results, nil
}
