package actuators

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"net"
	"sync"
	"time"

	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/ui"
	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
)

const (
	canWriteTimeout   = 10 * time.Millisecond
	readyPollInterval = 10 * time.Millisecond
)

var ErrNoPositionReceived = errors.New("no position frame received yet")

// CanActuator commands a motor controller attached to a SocketCAN bus.
//
// Commands are sent as a little-endian int16 in millivolts. If a position
// frame id is configured, the controller is expected to broadcast its
// position as a little-endian int32 in the first four data bytes.
type CanActuator struct {
	Config     configuration.ActuatorConfig `json:"configuration"`
	MaxVoltage float64                      `json:"maxVoltage"`

	mu          sync.Mutex
	conn        net.Conn
	tx          *socketcan.Transmitter
	lastCommand float64
	position    float64
	hasPosition bool
	reference   float64
}

func (a *CanActuator) GetId() string {
	return a.Config.ID
}

func (a *CanActuator) connect() error {
	if a.conn != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	conn, err := socketcan.DialContext(ctx, "can", a.Config.Can.Interface)
	if err != nil {
		return fmt.Errorf("socketcan dial: %w", err)
	}
	a.conn = conn
	a.tx = socketcan.NewTransmitter(conn)

	if a.Config.Can.PositionId != 0 {
		go a.receive(socketcan.NewReceiver(conn))
	}
	return nil
}

func (a *CanActuator) receive(receiver *socketcan.Receiver) {
	for receiver.Receive() {
		a.handleFrame(receiver.Frame())
	}
	if err := receiver.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		ui.Warning("Actuator %s: can receiver stopped: %v", a.GetId(), err)
	}
}

func (a *CanActuator) handleFrame(frame can.Frame) {
	if frame.ID != a.Config.Can.PositionId {
		return
	}
	position, err := decodePositionFrame(frame, a.Config.Can.PositionScale)
	if err != nil {
		ui.Warning("Actuator %s: %v", a.GetId(), err)
		return
	}
	a.mu.Lock()
	a.position = position
	a.hasPosition = true
	a.mu.Unlock()
}

func (a *CanActuator) SetCommand(command float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.connect(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), canWriteTimeout)
	defer cancel()
	frame := encodeCommandFrame(a.Config.Can.CommandId, command, a.MaxVoltage)
	if err := a.tx.TransmitFrame(ctx, frame); err != nil {
		return fmt.Errorf("transmit command frame: %w", err)
	}
	a.lastCommand = command
	return nil
}

func (a *CanActuator) GetLastCommand() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastCommand
}

func (a *CanActuator) ZeroReference() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Config.Can.PositionId == 0 {
		return nil
	}
	if err := a.connect(); err != nil {
		return err
	}
	if !a.hasPosition {
		return fmt.Errorf("actuator %s: %w", a.GetId(), ErrNoPositionReceived)
	}
	a.reference = a.position
	return nil
}

func (a *CanActuator) GetPositionEstimate() (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Config.Can.PositionId == 0 {
		return 0, ErrNoPositionFeedback
	}
	if err := a.connect(); err != nil {
		return 0, err
	}
	if !a.hasPosition {
		return 0, fmt.Errorf("actuator %s: %w", a.GetId(), ErrNoPositionReceived)
	}
	return a.position - a.reference, nil
}

// WaitReady connects to the bus and, if position feedback is configured,
// blocks until the first position frame was received.
func (a *CanActuator) WaitReady(timeout time.Duration) error {
	a.mu.Lock()
	err := a.connect()
	a.mu.Unlock()
	if err != nil || a.Config.Can.PositionId == 0 {
		return err
	}

	deadline := time.Now().Add(timeout)
	for {
		a.mu.Lock()
		hasPosition := a.hasPosition
		a.mu.Unlock()

		if hasPosition {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("actuator %s: %w within %s", a.GetId(), ErrNoPositionReceived, timeout)
		}
		time.Sleep(readyPollInterval)
	}
}

func (a *CanActuator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn = nil
	a.tx = nil
	return err
}

// encodeCommandFrame clamps the command to the int16 range of the wire format
func encodeCommandFrame(id uint32, command float64, maxVoltage float64) can.Frame {
	limit := math.Min(math.Abs(maxVoltage), math.MaxInt16)
	if maxVoltage == 0 {
		limit = math.MaxInt16
	}
	value := math.Round(math.Max(-limit, math.Min(limit, command)))
	if math.IsNaN(value) {
		value = 0
	}

	var frame can.Frame
	frame.ID = id
	frame.Length = 2
	binary.LittleEndian.PutUint16(frame.Data[0:2], uint16(int16(value)))
	return frame
}

func decodePositionFrame(frame can.Frame, scale float64) (float64, error) {
	if frame.Length < 4 {
		return 0, fmt.Errorf("position frame 0x%X expects at least 4 bytes, got %d", frame.ID, frame.Length)
	}
	if scale == 0 {
		scale = 1
	}
	raw := int32(binary.LittleEndian.Uint32(frame.Data[0:4]))
	return float64(raw) * scale, nil
}
