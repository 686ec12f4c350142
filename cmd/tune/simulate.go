package tune

import (
	"fmt"
	"time"

	"github.com/drive2go/drive2go/cmd/global"
	"github.com/drive2go/drive2go/internal"
	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/control_loop"
	"github.com/drive2go/drive2go/internal/motion"
	"github.com/drive2go/drive2go/internal/sim"
	"github.com/drive2go/drive2go/internal/ui"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var (
	controllerId string
	target       float64
	gain         float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate the step response of a controller",
	Long: `Runs a fresh instance of the given controller against a simulated
first-order plant, where every tick moves the measurement by gain * command,
and plots the measurement until the controller settles.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		global.LoadValidConfig()
		config := configuration.CurrentConfig

		var controllerConfig *configuration.ControllerConfig
		for _, c := range config.Controllers {
			if c.ID == controllerId {
				controllerConfig = &c
				break
			}
		}
		if controllerConfig == nil {
			return fmt.Errorf("no controller with id '%s' found", controllerId)
		}

		settings := internal.NewControllerSettings(*controllerConfig)
		tick := config.TickRate
		if tick <= 0 {
			tick = motion.DefaultTick
		}
		loop := control_loop.NewPidLoop(settings.Pid, settings.Exit, tick)
		slew := control_loop.NewSlewControlLoop(settings.Slew)
		plant := &sim.FirstOrderPlant{Gain: gain}

		response := sim.StepResponse(loop, slew, plant, target, config.MaxVoltage)

		printResponse(controllerId, target, response, loop.Elapsed())

		if response.State == control_loop.Converged {
			ui.Success("Final error: %.3f", loop.LastError())
		} else {
			ui.Warning("Final error: %.3f", loop.LastError())
		}
		return nil
	},
}

func printResponse(controllerId string, target float64, response sim.Response, elapsed time.Duration) {
	caption := fmt.Sprintf("%s: target %.2f, %s after %d ticks (%s)",
		controllerId, target, response.State, response.Ticks, elapsed)
	graph := asciigraph.Plot(response.Measurements, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
	ui.Printfln("%s", graph)
}

func init() {
	simulateCmd.Flags().StringVarP(&controllerId, "controller", "i", "", "Controller ID as specified in the config")
	simulateCmd.Flags().Float64VarP(&target, "target", "t", 24, "Target of the step response")
	simulateCmd.Flags().Float64VarP(&gain, "gain", "g", 0.001, "Measurement change per tick and unit of command")
	_ = simulateCmd.MarkFlagRequired("controller")
	Command.AddCommand(simulateCmd)
}
