package configuration

import "time"

type ControllerConfig struct {
	ID string `json:"id"`

	P float64 `json:"p"`
	I float64 `json:"i"`
	D float64 `json:"d"`

	IntegralCap             float64 `json:"integralCap"`
	DerivativeSmoothing     float64 `json:"derivativeSmoothing"`
	IntegralResetOnCrossing bool    `json:"integralResetOnCrossing"`
	// Maximum command change per tick, 0 disables slew limiting
	Slew float64 `json:"slew"`

	Exit ExitConfig `json:"exit"`
}

type ExitConfig struct {
	SmallError         float64       `json:"smallError"`
	SmallErrorDuration time.Duration `json:"smallErrorDuration"`
	LargeError         float64       `json:"largeError"`
	LargeErrorDuration time.Duration `json:"largeErrorDuration"`
	MaxDuration        time.Duration `json:"maxDuration"`
}
