package actuators

import (
	"errors"
	"io"
	"time"
)

// Group drives several actuators with the same command. The first member is
// the lead, its position is the position of the group.
type Group struct {
	ID      string
	Members []Actuator
}

func NewGroup(id string, members ...Actuator) *Group {
	return &Group{
		ID:      id,
		Members: members,
	}
}

func (g *Group) GetId() string {
	return g.ID
}

func (g *Group) SetCommand(command float64) error {
	var result error
	for _, member := range g.Members {
		result = errors.Join(result, member.SetCommand(command))
	}
	return result
}

func (g *Group) GetLastCommand() float64 {
	if len(g.Members) <= 0 {
		return 0
	}
	return g.Members[0].GetLastCommand()
}

func (g *Group) ZeroReference() error {
	if len(g.Members) <= 0 {
		return nil
	}
	return g.Members[0].ZeroReference()
}

func (g *Group) GetPositionEstimate() (float64, error) {
	if len(g.Members) <= 0 {
		return 0, ErrNoPositionFeedback
	}
	return g.Members[0].GetPositionEstimate()
}

func (g *Group) WaitReady(timeout time.Duration) error {
	var result error
	for _, member := range g.Members {
		result = errors.Join(result, WaitReady(member, timeout))
	}
	return result
}

func (g *Group) Close() error {
	var result error
	for _, member := range g.Members {
		if closer, ok := member.(io.Closer); ok {
			result = errors.Join(result, closer.Close())
		}
	}
	return result
}
