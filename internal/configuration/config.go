package configuration

import (
	"os"
	"time"

	"github.com/drive2go/drive2go/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	// Period of the motion control loop
	TickRate time.Duration `json:"tickRate"`
	// Largest command magnitude that is ever sent to an actuator
	MaxVoltage float64 `json:"maxVoltage"`

	Telemetry  TelemetryConfig  `json:"telemetry"`
	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`

	Actuators   []ActuatorConfig   `json:"actuators"`
	Sensors     []SensorConfig     `json:"sensors"`
	Drivetrain  DrivetrainConfig   `json:"drivetrain"`
	Controllers []ControllerConfig `json:"controllers"`
	Routines    []RoutineConfig    `json:"routines"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("drive2go")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/drive2go/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbPath", "/etc/drive2go/drive2go.db")
	viper.SetDefault("tickRate", 20*time.Millisecond)
	viper.SetDefault("maxVoltage", 12000.0)

	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.pollingRate", 50*time.Millisecond)
	viper.SetDefault("telemetry.windowSize", 20)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)

	viper.SetDefault("drivetrain.gearRatio", 1.0)
	viper.SetDefault("drivetrain.slipCorrection", 1.0)
	viper.SetDefault("drivetrain.unitsPerRevolution", 360.0)

	viper.SetDefault("actuators", []ActuatorConfig{})
	viper.SetDefault("sensors", []SensorConfig{})
	viper.SetDefault("controllers", []ControllerConfig{})
	viper.SetDefault("routines", []RoutineConfig{})
}

// ReadConfigFile reads the config file detected by InitConfig and
// returns its path.
func ReadConfigFile() (string, error) {
	if err := viper.ReadInConfig(); err != nil {
		return "", err
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed(), nil
}

// DetectAndReadConfigFile is like ReadConfigFile, but exits the program
// if no config file could be read.
func DetectAndReadConfigFile() string {
	path, err := ReadConfigFile()
	if err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	return path
}

func LoadConfig() {
	err := UnmarshalConfig(&CurrentConfig)
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

// UnmarshalConfig decodes the current viper state into the given struct.
func UnmarshalConfig(config *Configuration) error {
	return viper.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			TurnModeHookFunc(),
			OnTimeoutHookFunc(),
			DefaultTrueBoolHookFunc(),
		),
	))
}
