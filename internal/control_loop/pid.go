package control_loop

import (
	"math"
	"time"

	"github.com/drive2go/drive2go/internal/util"
)

type PidGains struct {
	// Proportional Constant
	P float64
	// Integral Constant
	I float64
	// Derivative Constant
	D float64
}

type PidSettings struct {
	Gains PidGains
	// Limits the integral accumulator to [-IntegralCap, IntegralCap], <= 0 disables the limit
	IntegralCap float64
	// Exponential smoothing factor of the derivative in [0, 1), 0 disables smoothing
	DerivativeSmoothing float64
	// Clears the integral accumulator whenever the error changes its sign
	IntegralResetOnCrossing bool
}

// PidLoop is a discrete PID regulator for a single axis, combined with a
// SettleDetector that decides when the axis has settled.
//
// The loop is meant to be driven at a fixed tick rate, so all gains are
// expressed per tick: the integral is the plain sum of all errors and the
// derivative is the difference to the error of the previous tick.
type PidLoop struct {
	settings PidSettings
	tick     time.Duration
	settle   *SettleDetector

	initialized bool
	// error of the previous tick
	lastError float64
	// sum of all errors, i.e. integral error
	integral float64
	// smoothed derivative of the previous tick
	derivative float64
	// last output value
	lastOutput float64
}

func NewPidLoop(settings PidSettings, exit ExitConditions, tick time.Duration) *PidLoop {
	return &PidLoop{
		settings: settings,
		tick:     tick,
		settle:   NewSettleDetector(exit),
	}
}

// Loop advances the pid loop by one tick
func (p *PidLoop) Loop(target float64, measured float64) float64 {
	return p.LoopError(target - measured)
}

// LoopError advances the pid loop by one tick using an already computed error.
// This is useful for axes where the error is not a plain difference, e.g. headings.
func (p *PidLoop) LoopError(err float64) float64 {
	if !p.initialized {
		// avoid derivative kick on the first tick
		p.lastError = err
		p.initialized = true
	}

	if p.settings.IntegralResetOnCrossing && err*p.lastError < 0 {
		p.integral = 0
	}
	p.integral += err
	if p.settings.IntegralCap > 0 {
		p.integral = util.Coerce(p.integral, -p.settings.IntegralCap, p.settings.IntegralCap)
	}

	derivativeRaw := err - p.lastError
	a := util.Coerce(p.settings.DerivativeSmoothing, 0, 1)
	p.derivative = a*p.derivative + (1-a)*derivativeRaw

	gains := p.settings.Gains
	output := gains.P*err + gains.I*p.integral + gains.D*p.derivative

	p.lastError = err
	p.lastOutput = output
	p.settle.Update(math.Abs(err), p.tick)

	return output
}

// Cancel stops the settle detection with the Cancelled state
func (p *PidLoop) Cancel() {
	p.settle.Cancel()
}

// Reset clears all accumulated state, as if the loop was newly created
func (p *PidLoop) Reset() {
	p.initialized = false
	p.lastError = 0
	p.integral = 0
	p.derivative = 0
	p.lastOutput = 0
	p.settle.Reset()
}

func (p *PidLoop) Settled() bool {
	return p.settle.Settled()
}

func (p *PidLoop) State() SettleState {
	return p.settle.State()
}

func (p *PidLoop) Elapsed() time.Duration {
	return p.settle.Elapsed()
}

func (p *PidLoop) LastError() float64 {
	return p.lastError
}

func (p *PidLoop) LastOutput() float64 {
	return p.lastOutput
}

func (p *PidLoop) Integral() float64 {
	return p.integral
}
