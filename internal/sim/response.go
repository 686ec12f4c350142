package sim

import "github.com/drive2go/drive2go/internal/control_loop"

// maxResponseTicks bounds StepResponse for loops without a max duration
const maxResponseTicks = 100000

// Response is the trace of a controller driving a plant towards a target
type Response struct {
	Measurements []float64
	Commands     []float64
	State        control_loop.SettleState
	Ticks        int
}

// StepResponse runs the given loop against the plant until it settles.
// slew may be nil, it receives the loop output as target and the previous
// command as measurement.
func StepResponse(
	loop control_loop.SettlingLoop,
	slew control_loop.ControlLoop,
	plant *FirstOrderPlant,
	target float64,
	maxVoltage float64,
) Response {
	response := Response{}
	command := 0.0
	for !loop.Settled() && response.Ticks < maxResponseTicks {
		output := control_loop.Saturate(loop.Loop(target, plant.Measurement), maxVoltage)
		if slew != nil {
			output = slew.Loop(output, command)
		}
		command = output
		plant.Apply(command)

		response.Ticks++
		response.Commands = append(response.Commands, command)
		response.Measurements = append(response.Measurements, plant.Measurement)
	}
	response.State = loop.State()
	return response
}
