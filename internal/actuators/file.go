package actuators

import (
	"sync"

	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/util"
)

// filePosition reads a raw position from a file and keeps a zero reference
type filePosition struct {
	path string

	mu        sync.Mutex
	reference float64
}

func (p *filePosition) read() (float64, error) {
	if len(p.path) <= 0 {
		return 0, ErrNoPositionFeedback
	}
	path, err := util.ExpandPath(p.path)
	if err != nil {
		return 0, err
	}
	return util.ReadFloatFromFile(path)
}

func (p *filePosition) zero() error {
	if len(p.path) <= 0 {
		return nil
	}
	raw, err := p.read()
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reference = raw
	return nil
}

func (p *filePosition) estimate() (float64, error) {
	raw, err := p.read()
	if err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return raw - p.reference, nil
}

// FileActuator writes its command to a file, e.g. a sysfs attribute of a motor driver
type FileActuator struct {
	Config configuration.ActuatorConfig `json:"configuration"`

	mu          sync.Mutex
	lastCommand float64
	position    filePosition
}

func (a *FileActuator) GetId() string {
	return a.Config.ID
}

func (a *FileActuator) SetCommand(command float64) error {
	path, err := util.ExpandPath(a.Config.File.CommandPath)
	if err != nil {
		return err
	}
	err = util.WriteFloatToFileAtomic(command, path)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastCommand = command
	return nil
}

func (a *FileActuator) GetLastCommand() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastCommand
}

func (a *FileActuator) ZeroReference() error {
	return a.position.zero()
}

func (a *FileActuator) GetPositionEstimate() (float64, error) {
	return a.position.estimate()
}
