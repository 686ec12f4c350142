package sensor

import (
	"fmt"
	"time"

	"github.com/drive2go/drive2go/internal/sensors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// serial sensors only report a heading once the first line was received
const headingTimeout = 2 * time.Second

var headingCmd = &cobra.Command{
	Use:   "heading",
	Short: "Get the current heading reading of a sensor",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		sensor, err := getSensor(sensorId)
		if err != nil {
			return err
		}
		defer func() {
			_ = sensors.Close(sensor)
		}()

		if err := sensors.WaitReady(sensor, headingTimeout); err != nil {
			return err
		}
		heading, err := sensor.GetHeading()
		if err != nil {
			return err
		}
		fmt.Printf("%.3f", heading)
		return nil
	},
}

func init() {
	Command.AddCommand(headingCmd)
}
