package actuator

import (
	"fmt"

	"github.com/drive2go/drive2go/internal/actuators"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var positionCmd = &cobra.Command{
	Use:   "position",
	Short: "Get the current position estimate of an actuator",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		actuator, err := getActuator(actuatorId)
		if err != nil {
			return err
		}
		defer func() {
			_ = actuators.Close(actuator)
		}()

		position, err := actuator.GetPositionEstimate()
		if err != nil {
			return err
		}

		fmt.Printf("%.3f", position)
		return nil
	},
}

func init() {
	Command.AddCommand(positionCmd)
}
