package sensor

import (
	"fmt"

	"github.com/drive2go/drive2go/cmd/global"
	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/sensors"
	"github.com/spf13/cobra"
)

var sensorId string

var Command = &cobra.Command{
	Use:              "sensor",
	Short:            "Sensor related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&sensorId,
		"id", "i",
		"",
		"Sensor ID as specified in the config",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

func getSensor(id string) (sensors.HeadingSensor, error) {
	global.LoadValidConfig()

	for _, config := range configuration.CurrentConfig.Sensors {
		if config.ID == id {
			return sensors.NewSensor(config)
		}
	}

	return nil, fmt.Errorf("no sensor with id found: %s", id)
}
