package sensors

import "sync"

// SimSensor is an in-memory heading source turned by a simulated plant
type SimSensor struct {
	ID string

	mu      sync.Mutex
	heading float64
}

func NewSimSensor(id string, initialHeading float64) *SimSensor {
	return &SimSensor{
		ID:      id,
		heading: initialHeading,
	}
}

func (s *SimSensor) GetId() string {
	return s.ID
}

func (s *SimSensor) GetHeading() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heading, nil
}

func (s *SimSensor) SetHeading(heading float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heading = heading
}

func (s *SimSensor) Rotate(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heading += delta
}
