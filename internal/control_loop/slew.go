package control_loop

import (
	"github.com/drive2go/drive2go/internal/util"
)

// SlewControlLoop limits how much a command may change from one tick to the next.
// It is used to gracefully approach a new command instead of jumping to it.
type SlewControlLoop struct {
	// maximum allowed command change per tick, <= 0 disables the limit
	maxChangePerTick float64
}

func NewSlewControlLoop(maxChangePerTick float64) *SlewControlLoop {
	return &SlewControlLoop{
		maxChangePerTick: maxChangePerTick,
	}
}

// Loop returns the measured (currently applied) command moved towards the
// target command by at most maxChangePerTick.
func (l *SlewControlLoop) Loop(target float64, measured float64) float64 {
	if l.maxChangePerTick <= 0 {
		return target
	}

	err := target - measured
	if err > 0 {
		return measured + util.Coerce(l.maxChangePerTick, 0, err)
	} else {
		return measured + util.Coerce(-l.maxChangePerTick, err, 0)
	}
}
