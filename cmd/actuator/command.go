package actuator

import (
	"fmt"
	"strconv"

	"github.com/drive2go/drive2go/internal/actuators"
	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/control_loop"
	"github.com/drive2go/drive2go/internal/ui"
	"github.com/spf13/cobra"
)

var commandCmd = &cobra.Command{
	Use:   "command <value>",
	Short: "Apply a command to an actuator",
	Long:  `Applies the given command, saturated to the configured max voltage.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid command value: %s", args[0])
		}

		actuator, err := getActuator(actuatorId)
		if err != nil {
			return err
		}
		defer func() {
			_ = actuators.Close(actuator)
		}()

		value = control_loop.Saturate(value, configuration.CurrentConfig.MaxVoltage)
		if err := actuator.SetCommand(value); err != nil {
			return err
		}
		ui.Success("Applied command %.0f to %s", value, actuator.GetId())
		return nil
	},
}

func init() {
	Command.AddCommand(commandCmd)
}
