package sensors

import (
	"fmt"
	"io"
	"time"

	"github.com/drive2go/drive2go/internal/configuration"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	SensorMap = cmap.New[HeadingSensor]()
)

// HeadingSensor reports the heading of the robot in degrees.
// Values are not required to be wrapped to any range.
type HeadingSensor interface {
	GetId() string

	GetHeading() (float64, error)
}

func NewSensor(config configuration.SensorConfig) (HeadingSensor, error) {
	if config.Sim != nil {
		return NewSimSensor(config.ID, config.Sim.InitialHeading), nil
	}

	if config.File != nil {
		return &FileSensor{
			Config: config,
		}, nil
	}

	if config.Serial != nil {
		return &SerialSensor{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching sensor type for sensor: %s", config.ID)
}

// Close releases the resources held by the given sensor, if any
func Close(sensor HeadingSensor) error {
	if closer, ok := sensor.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// readyWaiter is implemented by sensors that need time to report their first value
type readyWaiter interface {
	WaitReady(timeout time.Duration) error
}

// WaitReady blocks until the given sensor can report a heading. Sensors
// that are ready right away return immediately.
func WaitReady(sensor HeadingSensor, timeout time.Duration) error {
	if waiter, ok := sensor.(readyWaiter); ok {
		return waiter.WaitReady(timeout)
	}
	return nil
}
