package configuration

type SensorConfig struct {
	ID     string              `json:"id"`
	Sim    *SimSensorConfig    `json:"sim,omitempty"`
	File   *FileSensorConfig   `json:"file,omitempty"`
	Serial *SerialSensorConfig `json:"serial,omitempty"`
}

type SimSensorConfig struct {
	InitialHeading float64 `json:"initialHeading"`
}

type FileSensorConfig struct {
	Path string `json:"path"`
}

type SerialSensorConfig struct {
	Port     string `json:"port"`
	BaudRate int    `json:"baudRate"`
	// Index of the heading value within a comma separated line
	Field int `json:"field"`
}
