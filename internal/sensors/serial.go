package sensors

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/ui"
	"go.bug.st/serial"
)

const (
	defaultBaudRate   = 115200
	readyPollInterval = 10 * time.Millisecond
)

var ErrNoHeadingReceived = errors.New("no heading received yet")

// SerialSensor reads newline separated heading values from an IMU attached
// to a serial port. A background reader keeps the latest value.
type SerialSensor struct {
	Config configuration.SensorConfig `json:"configuration"`

	mu       sync.Mutex
	port     io.ReadCloser
	heading  float64
	received bool
	readErr  error
}

func (sensor *SerialSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *SerialSensor) open() error {
	if sensor.port != nil {
		return nil
	}
	baudRate := sensor.Config.Serial.BaudRate
	if baudRate <= 0 {
		baudRate = defaultBaudRate
	}
	port, err := serial.Open(sensor.Config.Serial.Port, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return fmt.Errorf("open serial port %s: %w", sensor.Config.Serial.Port, err)
	}
	sensor.attach(port)
	return nil
}

// attach starts reading heading lines from the given port
func (sensor *SerialSensor) attach(port io.ReadCloser) {
	sensor.port = port
	sensor.readErr = nil
	go sensor.read(port)
}

func (sensor *SerialSensor) read(port io.ReadCloser) {
	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		heading, err := parseHeadingLine(scanner.Text(), sensor.Config.Serial.Field)
		if err != nil {
			ui.Debug("Sensor %s: skipping line: %v", sensor.GetId(), err)
			continue
		}
		sensor.mu.Lock()
		sensor.heading = heading
		sensor.received = true
		sensor.mu.Unlock()
	}

	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	sensor.readErr = scanner.Err()
	if sensor.readErr == nil {
		sensor.readErr = errors.New("serial port closed")
	}
	if sensor.port == port {
		_ = port.Close()
		sensor.port = nil
	}
}

func (sensor *SerialSensor) GetHeading() (float64, error) {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()

	if sensor.readErr != nil {
		err := sensor.readErr
		sensor.readErr = nil
		return 0, err
	}
	if err := sensor.open(); err != nil {
		return 0, err
	}
	if !sensor.received {
		return 0, ErrNoHeadingReceived
	}
	return sensor.heading, nil
}

// WaitReady opens the port and blocks until the first heading was received
func (sensor *SerialSensor) WaitReady(timeout time.Duration) error {
	sensor.mu.Lock()
	err := sensor.open()
	sensor.mu.Unlock()
	if err != nil {
		return err
	}

	deadline := time.Now().Add(timeout)
	for {
		sensor.mu.Lock()
		received, readErr := sensor.received, sensor.readErr
		sensor.mu.Unlock()

		if received {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("sensor %s: %w", sensor.GetId(), readErr)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("sensor %s: %w within %s", sensor.GetId(), ErrNoHeadingReceived, timeout)
		}
		time.Sleep(readyPollInterval)
	}
}

func (sensor *SerialSensor) Close() error {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	if sensor.port == nil {
		return nil
	}
	port := sensor.port
	sensor.port = nil
	return port.Close()
}

// parseHeadingLine extracts the value at the given index of a comma separated
// line. Fields may carry a "name=" or "name:" prefix.
func parseHeadingLine(line string, field int) (float64, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if field < 0 || field >= len(fields) {
		return 0, fmt.Errorf("line %q has no field %d", line, field)
	}
	value := strings.TrimSpace(fields[field])
	if idx := strings.LastIndexAny(value, "=:"); idx >= 0 {
		value = strings.TrimSpace(value[idx+1:])
	}
	return strconv.ParseFloat(value, 64)
}
