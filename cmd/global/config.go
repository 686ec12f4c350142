package global

import (
	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/ui"
)

// LoadValidConfig reads, decodes and validates the configuration file,
// exiting the program on failure.
func LoadValidConfig() {
	configPath := configuration.DetectAndReadConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()

	if err := configuration.Validate(); err != nil {
		ui.Fatal("%v", err)
	}
}
