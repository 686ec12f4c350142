package configuration

import "time"

type TelemetryConfig struct {
	Enabled bool `json:"enabled"`
	// Interval between two heading samples
	PollingRate time.Duration `json:"pollingRate"`
	// Number of samples used for the rolling heading statistics
	WindowSize int `json:"windowSize"`
}
