package configuration

type ActuatorConfig struct {
	ID string `json:"id"`
	// Negates commands and position estimates of this actuator
	Reversed bool                `json:"reversed"`
	Sim      *SimActuatorConfig  `json:"sim,omitempty"`
	File     *FileActuatorConfig `json:"file,omitempty"`
	Can      *CanActuatorConfig  `json:"can,omitempty"`
	Pwm      *PwmActuatorConfig  `json:"pwm,omitempty"`
}

type SimActuatorConfig struct {
	InitialPosition float64 `json:"initialPosition"`
}

type FileActuatorConfig struct {
	// File the command is written to
	CommandPath string `json:"commandPath"`
	// File the raw position estimate is read from, optional
	PositionPath string `json:"positionPath"`
}

type CanActuatorConfig struct {
	// SocketCAN interface, e.g. "can0"
	Interface string `json:"interface"`
	// Frame id used to send commands
	CommandId uint32 `json:"commandId"`
	// Frame id the motor controller reports its position with, 0 if none
	PositionId uint32 `json:"positionId"`
	// Factor applied to the reported raw position
	PositionScale float64 `json:"positionScale"`
}

type PwmActuatorConfig struct {
	// BCM number of a hardware PWM capable pin
	PwmPin int `json:"pwmPin"`
	// BCM number of the pin selecting the motor direction
	DirectionPin int `json:"directionPin"`
	// PWM frequency in Hz
	Frequency int `json:"frequency"`
	// File the raw position estimate is read from, optional
	PositionPath string `json:"positionPath"`
}
