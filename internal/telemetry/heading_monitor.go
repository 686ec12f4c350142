package telemetry

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/drive2go/drive2go/internal/sensors"
	"github.com/drive2go/drive2go/internal/ui"
	"github.com/drive2go/drive2go/internal/util"
)

type HeadingStatistics struct {
	Heading float64 `json:"heading"`
	// average absolute rate of change in degrees per second
	AvgRate float64 `json:"avgRate"`
	// maximum absolute rate of change in degrees per second
	MaxRate float64 `json:"maxRate"`
	Samples int     `json:"samples"`
	Errors  int     `json:"errors"`
}

// HeadingMonitor samples a heading sensor independently of any motion. It
// never writes to actuators.
type HeadingMonitor struct {
	sensor      sensors.HeadingSensor
	pollingRate time.Duration

	mu       sync.Mutex
	window   *rolling.PointPolicy
	samples  int
	errors   int
	last     float64
	lastTime time.Time
	hasLast  bool
	now      func() time.Time
}

func NewHeadingMonitor(sensor sensors.HeadingSensor, pollingRate time.Duration, windowSize int) *HeadingMonitor {
	if windowSize <= 0 {
		windowSize = 1
	}
	return &HeadingMonitor{
		sensor:      sensor,
		pollingRate: pollingRate,
		window:      util.CreateRollingWindow(windowSize),
		now:         time.Now,
	}
}

func (m *HeadingMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.pollingRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Poll()
		}
	}
}

// Poll reads the sensor once and updates the statistics
func (m *HeadingMonitor) Poll() {
	heading, err := m.sensor.GetHeading()
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.errors++
		ui.Warning("Error reading heading sensor %s: %v", m.sensor.GetId(), err)
		return
	}

	if m.hasLast {
		dt := now.Sub(m.lastTime).Seconds()
		if dt > 0 {
			rate := math.Abs(util.NormalizeAngle(heading-m.last)) / dt
			m.window.Append(rate)
			m.samples++
		}
	}
	m.last = heading
	m.lastTime = now
	m.hasLast = true
}

func (m *HeadingMonitor) Statistics() HeadingStatistics {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := HeadingStatistics{
		Heading: m.last,
		Samples: m.samples,
		Errors:  m.errors,
	}
	if m.samples > 0 {
		result.AvgRate = util.GetPartialWindowAvg(m.window, m.samples)
		result.MaxRate = util.GetWindowMax(m.window)
	}
	return result
}
