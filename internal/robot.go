package internal

import (
	"errors"
	"fmt"
	"time"

	"github.com/drive2go/drive2go/internal/actuators"
	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/control_loop"
	"github.com/drive2go/drive2go/internal/motion"
	"github.com/drive2go/drive2go/internal/sensors"
	"github.com/drive2go/drive2go/internal/sim"
	"github.com/drive2go/drive2go/internal/ui"
)

// hardware devices connect lazily, this bounds the wait for their first reading
const deviceReadyTimeout = 2 * time.Second

// Robot holds everything needed to execute motions on the configured hardware.
type Robot struct {
	Binding  motion.Binding
	Settings motion.Settings

	// set if the drivetrain is simulated
	Simulation *sim.Drivetrain

	Actuators []actuators.Actuator
	Sensors   []sensors.HeadingSensor
}

// InitializeObjects creates all configured actuators and sensors, registers
// them and binds them to the drivetrain.
func InitializeObjects(config configuration.Configuration) (*Robot, error) {
	robot := &Robot{}

	for _, actuatorConfig := range config.Actuators {
		actuator, err := actuators.NewActuator(actuatorConfig, config.MaxVoltage)
		if err != nil {
			return nil, fmt.Errorf("unable to process actuator configuration of '%s': %w", actuatorConfig.ID, err)
		}
		actuators.ActuatorMap.Set(actuatorConfig.ID, actuator)
		robot.Actuators = append(robot.Actuators, actuator)
	}

	for _, sensorConfig := range config.Sensors {
		sensor, err := sensors.NewSensor(sensorConfig)
		if err != nil {
			return nil, fmt.Errorf("unable to process sensor configuration of '%s': %w", sensorConfig.ID, err)
		}
		sensors.SensorMap.Set(sensorConfig.ID, sensor)
		robot.Sensors = append(robot.Sensors, sensor)
	}

	binding, err := newBinding(config.Drivetrain)
	if err != nil {
		return nil, err
	}
	robot.Binding = binding

	if err := robot.waitForDevices(deviceReadyTimeout); err != nil {
		return nil, err
	}

	settings, err := NewMotionSettings(config)
	if err != nil {
		return nil, err
	}
	robot.Settings = settings

	if config.Drivetrain.Simulation != nil {
		drivetrain, err := newSimulation(binding, *config.Drivetrain.Simulation)
		if err != nil {
			return nil, err
		}
		robot.Simulation = drivetrain
	}

	return robot, nil
}

// waitForDevices opens all devices and waits until each one reports a first
// position or heading, so a motion never starts on an unknown reference.
func (r *Robot) waitForDevices(timeout time.Duration) error {
	for _, actuator := range r.Actuators {
		if err := actuators.WaitReady(actuator, timeout); err != nil {
			return fmt.Errorf("actuator '%s' not ready: %w", actuator.GetId(), err)
		}
	}
	for _, sensor := range r.Sensors {
		if err := sensors.WaitReady(sensor, timeout); err != nil {
			return fmt.Errorf("sensor '%s' not ready: %w", sensor.GetId(), err)
		}
	}
	return nil
}

func newBinding(config configuration.DrivetrainConfig) (motion.Binding, error) {
	var err error
	binding := motion.Binding{}

	if binding.Left, err = findActuator(config.Left); err != nil {
		return binding, err
	}
	if binding.Right, err = findActuator(config.Right); err != nil {
		return binding, err
	}
	for _, id := range config.LeftAux {
		actuator, err := findActuator(id)
		if err != nil {
			return binding, err
		}
		binding.LeftAux = append(binding.LeftAux, actuator)
	}
	for _, id := range config.RightAux {
		actuator, err := findActuator(id)
		if err != nil {
			return binding, err
		}
		binding.RightAux = append(binding.RightAux, actuator)
	}

	sensor, ok := sensors.SensorMap.Get(config.Heading)
	if !ok {
		return binding, fmt.Errorf("no sensor with id '%s' found", config.Heading)
	}
	binding.Heading = sensor

	return binding, binding.Validate()
}

func findActuator(id string) (actuators.Actuator, error) {
	actuator, ok := actuators.ActuatorMap.Get(id)
	if !ok {
		return nil, fmt.Errorf("no actuator with id '%s' found", id)
	}
	return actuator, nil
}

// newSimulation connects the simulated plant to the bound sim devices.
// Reversed sim actuators are not supported.
func newSimulation(binding motion.Binding, config configuration.SimulationConfig) (*sim.Drivetrain, error) {
	left, ok := binding.Left.(*actuators.SimActuator)
	if !ok {
		return nil, fmt.Errorf("simulation requires a non-reversed sim actuator on the left side, got '%s'", binding.Left.GetId())
	}
	right, ok := binding.Right.(*actuators.SimActuator)
	if !ok {
		return nil, fmt.Errorf("simulation requires a non-reversed sim actuator on the right side, got '%s'", binding.Right.GetId())
	}
	heading, ok := binding.Heading.(*sensors.SimSensor)
	if !ok {
		return nil, fmt.Errorf("simulation requires a sim heading sensor, got '%s'", binding.Heading.GetId())
	}
	return sim.NewDrivetrain(left, right, heading, config), nil
}

func findController(controllers []configuration.ControllerConfig, id string) (configuration.ControllerConfig, error) {
	for _, controller := range controllers {
		if controller.ID == id {
			return controller, nil
		}
	}
	return configuration.ControllerConfig{}, fmt.Errorf("no controller with id '%s' found", id)
}

func NewControllerSettings(config configuration.ControllerConfig) motion.ControllerSettings {
	return motion.ControllerSettings{
		Pid: control_loop.PidSettings{
			Gains: control_loop.PidGains{
				P: config.P,
				I: config.I,
				D: config.D,
			},
			IntegralCap:             config.IntegralCap,
			DerivativeSmoothing:     config.DerivativeSmoothing,
			IntegralResetOnCrossing: config.IntegralResetOnCrossing,
		},
		Exit: control_loop.ExitConditions{
			SmallError:         config.Exit.SmallError,
			SmallErrorDuration: config.Exit.SmallErrorDuration,
			LargeError:         config.Exit.LargeError,
			LargeErrorDuration: config.Exit.LargeErrorDuration,
			MaxDuration:        config.Exit.MaxDuration,
		},
		Slew: config.Slew,
	}
}

// NewMotionSettings resolves the controllers referenced by the drivetrain
func NewMotionSettings(config configuration.Configuration) (motion.Settings, error) {
	drivetrain := config.Drivetrain

	linear, err := findController(config.Controllers, drivetrain.LinearController)
	if err != nil {
		return motion.Settings{}, err
	}
	heading, err := findController(config.Controllers, drivetrain.HeadingController)
	if err != nil {
		return motion.Settings{}, err
	}
	angular, err := findController(config.Controllers, drivetrain.AngularController)
	if err != nil {
		return motion.Settings{}, err
	}

	return motion.Settings{
		Tick:       config.TickRate,
		MaxVoltage: config.MaxVoltage,
		Geometry: motion.Geometry{
			WheelDiameter:      drivetrain.WheelDiameter,
			GearRatio:          drivetrain.GearRatio,
			SlipCorrection:     drivetrain.SlipCorrection,
			UnitsPerRevolution: drivetrain.UnitsPerRevolution,
		},
		Linear:     NewControllerSettings(linear),
		Heading:    NewControllerSettings(heading),
		Angular:    NewControllerSettings(angular),
		StopOnExit: drivetrain.StopOnExit.Get(),
	}, nil
}

// TickPacer paces a chassis and can be stopped
type TickPacer interface {
	motion.Pacer
	Stop()
}

type simPacer struct {
	*sim.Pacer
	ticker *motion.TickerPacer
}

func (p simPacer) Stop() {
	p.ticker.Stop()
}

// NewPacer returns a real time pacer that also advances the simulation, if any
func (r *Robot) NewPacer() TickPacer {
	tick := r.Settings.Tick
	if tick <= 0 {
		tick = motion.DefaultTick
	}
	ticker := motion.NewTickerPacer(tick)
	if r.Simulation == nil {
		return ticker
	}
	return simPacer{
		Pacer:  &sim.Pacer{Drivetrain: r.Simulation, Inner: ticker},
		ticker: ticker,
	}
}

// Stop commands 0 to all actuators
func (r *Robot) Stop() error {
	var result error
	for _, actuator := range r.Actuators {
		result = errors.Join(result, actuator.SetCommand(0))
	}
	return result
}

// Shutdown stops all actuators and releases all device resources
func (r *Robot) Shutdown() {
	if err := r.Stop(); err != nil {
		ui.Warning("Error stopping actuators: %v", err)
	}
	if err := actuators.CloseAll(); err != nil {
		ui.Warning("Error closing actuators: %v", err)
	}
	for _, sensor := range r.Sensors {
		if err := sensors.Close(sensor); err != nil {
			ui.Warning("Error closing sensor %s: %v", sensor.GetId(), err)
		}
	}
}
