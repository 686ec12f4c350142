package configuration

type DrivetrainConfig struct {
	// actuator ids
	Left     string   `json:"left"`
	Right    string   `json:"right"`
	LeftAux  []string `json:"leftAux"`
	RightAux []string `json:"rightAux"`

	// sensor id
	Heading string `json:"heading"`

	WheelDiameter      float64 `json:"wheelDiameter"`
	GearRatio          float64 `json:"gearRatio"`
	SlipCorrection     float64 `json:"slipCorrection"`
	UnitsPerRevolution float64 `json:"unitsPerRevolution"`

	// controller ids
	LinearController  string `json:"linearController"`
	HeadingController string `json:"headingController"`
	AngularController string `json:"angularController"`

	// Command all actuators to 0 when a motion ends
	StopOnExit DefaultTrueBool `json:"stopOnExit"`

	Simulation *SimulationConfig `json:"simulation,omitempty"`
}

// SimulationConfig describes the simulated plant used with sim actuators and sensors
type SimulationConfig struct {
	// Position change per tick and unit of command
	Gain float64 `json:"gain"`
	// Heading change (degrees) per unit of position difference between left and right
	HeadingGain float64 `json:"headingGain"`
	// Constant heading change per tick
	Drift float64 `json:"drift"`
	// Amplitude of uniform heading noise per tick
	Noise float64 `json:"noise"`
	Seed  int64   `json:"seed"`
}
