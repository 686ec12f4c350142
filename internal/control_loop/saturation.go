package control_loop

import (
	"math"

	"github.com/drive2go/drive2go/internal/util"
)

// DefaultMaxVoltage is the largest command magnitude accepted by the drive motors (in mV)
const DefaultMaxVoltage = 12000.0

// Saturate bounds the given command to [-max, max], preserving its sign.
func Saturate(command float64, max float64) float64 {
	if math.IsNaN(command) {
		return 0
	}
	max = math.Abs(max)
	return util.Coerce(command, -max, max)
}
