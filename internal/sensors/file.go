package sensors

import (
	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/util"
)

type FileSensor struct {
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor FileSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor FileSensor) GetHeading() (float64, error) {
	filePath, err := util.ExpandPath(sensor.Config.File.Path)
	if err != nil {
		return 0, err
	}
	return util.ReadFloatFromFile(filePath)
}
