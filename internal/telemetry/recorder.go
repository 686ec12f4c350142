package telemetry

import (
	"sync"

	"github.com/drive2go/drive2go/internal/motion"
)

const defaultHistorySize = 50

// Recorder keeps the samples of the running and the last finished motion
type Recorder struct {
	historySize int

	mu         sync.RWMutex
	current    []motion.Sample
	last       []motion.Sample
	lastResult *motion.Result
	history    []motion.Result
}

type Snapshot struct {
	Current    []motion.Sample `json:"current"`
	Last       []motion.Sample `json:"last"`
	LastResult *motion.Result  `json:"lastResult,omitempty"`
	History    []motion.Result `json:"history"`
}

func NewRecorder(historySize int) *Recorder {
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &Recorder{
		historySize: historySize,
	}
}

func (r *Recorder) OnSample(sample motion.Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sample.Tick <= 1 {
		r.current = nil
	}
	r.current = append(r.current, sample)
}

func (r *Recorder) OnResult(result motion.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = r.current
	r.current = nil
	r.lastResult = &result
	r.history = append(r.history, result)
	if len(r.history) > r.historySize {
		r.history = r.history[len(r.history)-r.historySize:]
	}
}

// Snapshot returns copies of the recorded data
func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := Snapshot{
		Current: append([]motion.Sample{}, r.current...),
		Last:    append([]motion.Sample{}, r.last...),
		History: append([]motion.Result{}, r.history...),
	}
	if r.lastResult != nil {
		result := *r.lastResult
		snapshot.LastResult = &result
	}
	return snapshot
}
