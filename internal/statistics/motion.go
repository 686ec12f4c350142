package statistics

import (
	"sync"

	"github.com/drive2go/drive2go/internal/motion"
	"github.com/prometheus/client_golang/prometheus"
)

const motionSubsystem = "motion"

type outcomeKey struct {
	kind    motion.Kind
	outcome string
}

// MotionCollector counts motion outcomes. It is registered as an observer
// of the chassis.
type MotionCollector struct {
	mu         sync.Mutex
	outcomes   map[outcomeKey]int
	lastResult map[motion.Kind]motion.Result

	total      *prometheus.Desc
	duration   *prometheus.Desc
	finalError *prometheus.Desc
}

func NewMotionCollector() *MotionCollector {
	return &MotionCollector{
		outcomes:   map[outcomeKey]int{},
		lastResult: map[motion.Kind]motion.Result{},
		total: prometheus.NewDesc(prometheus.BuildFQName(namespace, motionSubsystem, "total"),
			"Number of finished motions by kind and outcome",
			[]string{"kind", "outcome"}, nil,
		),
		duration: prometheus.NewDesc(prometheus.BuildFQName(namespace, motionSubsystem, "last_duration_seconds"),
			"Duration of the last motion of this kind",
			[]string{"kind"}, nil,
		),
		finalError: prometheus.NewDesc(prometheus.BuildFQName(namespace, motionSubsystem, "last_final_error"),
			"Error of the deciding controller when the last motion of this kind ended",
			[]string{"kind"}, nil,
		),
	}
}

func (collector *MotionCollector) OnSample(sample motion.Sample) {}

func (collector *MotionCollector) OnResult(result motion.Result) {
	collector.mu.Lock()
	defer collector.mu.Unlock()
	collector.outcomes[outcomeKey{kind: result.Kind, outcome: result.Outcome.String()}]++
	collector.lastResult[result.Kind] = result
}

func (collector *MotionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.total
	ch <- collector.duration
	ch <- collector.finalError
}

// Collect implements required collect function for all prometheus collectors
func (collector *MotionCollector) Collect(ch chan<- prometheus.Metric) {
	collector.mu.Lock()
	defer collector.mu.Unlock()

	for key, count := range collector.outcomes {
		ch <- prometheus.MustNewConstMetric(collector.total, prometheus.CounterValue, float64(count), string(key.kind), key.outcome)
	}
	for kind, result := range collector.lastResult {
		ch <- prometheus.MustNewConstMetric(collector.duration, prometheus.GaugeValue, result.Elapsed.Seconds(), string(kind))
		ch <- prometheus.MustNewConstMetric(collector.finalError, prometheus.GaugeValue, result.FinalError, string(kind))
	}
}
