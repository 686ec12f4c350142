package actuators

import "sync"

// SimActuator is an in-memory actuator whose position is moved by a simulated plant
type SimActuator struct {
	ID string

	mu        sync.Mutex
	command   float64
	position  float64
	reference float64
}

func NewSimActuator(id string, initialPosition float64) *SimActuator {
	return &SimActuator{
		ID:       id,
		position: initialPosition,
	}
}

func (a *SimActuator) GetId() string {
	return a.ID
}

func (a *SimActuator) SetCommand(command float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.command = command
	return nil
}

func (a *SimActuator) GetLastCommand() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.command
}

func (a *SimActuator) ZeroReference() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reference = a.position
	return nil
}

func (a *SimActuator) GetPositionEstimate() (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position - a.reference, nil
}

// Advance moves the raw position by delta
func (a *SimActuator) Advance(delta float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.position += delta
}
