package actuator

import (
	"fmt"

	"github.com/drive2go/drive2go/cmd/global"
	"github.com/drive2go/drive2go/internal/actuators"
	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/spf13/cobra"
)

var actuatorId string

var Command = &cobra.Command{
	Use:              "actuator",
	Short:            "Actuator related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&actuatorId,
		"id", "i",
		"",
		"Actuator ID as specified in the config",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

func getActuator(id string) (actuators.Actuator, error) {
	global.LoadValidConfig()

	for _, config := range configuration.CurrentConfig.Actuators {
		if config.ID == id {
			return actuators.NewActuator(config, configuration.CurrentConfig.MaxVoltage)
		}
	}

	return nil, fmt.Errorf("no actuator with id found: %s", id)
}
