package configuration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/drive2go/drive2go/internal/ui"
	"github.com/looplab/tarjan"
	"golang.org/x/exp/slices"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if config.TickRate <= 0 {
		return errors.New("tickRate must be > 0")
	}
	if config.MaxVoltage <= 0 {
		return errors.New("maxVoltage must be > 0")
	}
	if config.Telemetry.Enabled && config.Telemetry.PollingRate <= 0 {
		return errors.New("telemetry.pollingRate must be > 0")
	}

	err := validateActuators(config)
	if err != nil {
		return err
	}
	err = validateSensors(config)
	if err != nil {
		return err
	}
	err = validateControllers(config)
	if err != nil {
		return err
	}
	err = validateDrivetrain(config)
	if err != nil {
		return err
	}
	return validateRoutines(config)
}

func validateActuators(config *Configuration) error {
	var ids []string
	for _, actuatorConfig := range config.Actuators {
		if len(actuatorConfig.ID) <= 0 {
			return errors.New("actuator id must not be empty")
		}
		if slices.Contains(ids, actuatorConfig.ID) {
			return fmt.Errorf("duplicate actuator id detected: %s", actuatorConfig.ID)
		}
		ids = append(ids, actuatorConfig.ID)

		subConfigs := 0
		if actuatorConfig.Sim != nil {
			subConfigs++
		}
		if actuatorConfig.File != nil {
			subConfigs++
		}
		if actuatorConfig.Can != nil {
			subConfigs++
		}
		if actuatorConfig.Pwm != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("actuator %s: only one actuator type can be used per actuator definition block", actuatorConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("actuator %s: sub-configuration for actuator is missing, use one of: sim | file | can | pwm", actuatorConfig.ID)
		}

		if actuatorConfig.File != nil && len(actuatorConfig.File.CommandPath) <= 0 {
			return fmt.Errorf("actuator %s: commandPath must not be empty", actuatorConfig.ID)
		}
		if actuatorConfig.Can != nil {
			if len(actuatorConfig.Can.Interface) <= 0 {
				return fmt.Errorf("actuator %s: can interface must not be empty", actuatorConfig.ID)
			}
			if actuatorConfig.Can.CommandId == 0 {
				return fmt.Errorf("actuator %s: can commandId must not be 0", actuatorConfig.ID)
			}
		}
		if actuatorConfig.Pwm != nil {
			if actuatorConfig.Pwm.PwmPin == actuatorConfig.Pwm.DirectionPin {
				return fmt.Errorf("actuator %s: pwmPin and directionPin must differ", actuatorConfig.ID)
			}
			if actuatorConfig.Pwm.Frequency <= 0 {
				return fmt.Errorf("actuator %s: pwm frequency must be > 0", actuatorConfig.ID)
			}
		}

		if !isActuatorInUse(actuatorConfig.ID, config.Drivetrain) {
			ui.Warning("Unused actuator configuration: %s", actuatorConfig.ID)
		}
	}
	return nil
}

func isActuatorInUse(id string, drivetrain DrivetrainConfig) bool {
	return drivetrain.Left == id ||
		drivetrain.Right == id ||
		slices.Contains(drivetrain.LeftAux, id) ||
		slices.Contains(drivetrain.RightAux, id)
}

func validateSensors(config *Configuration) error {
	var ids []string
	for _, sensorConfig := range config.Sensors {
		if len(sensorConfig.ID) <= 0 {
			return errors.New("sensor id must not be empty")
		}
		if slices.Contains(ids, sensorConfig.ID) {
			return fmt.Errorf("duplicate sensor id detected: %s", sensorConfig.ID)
		}
		ids = append(ids, sensorConfig.ID)

		subConfigs := 0
		if sensorConfig.Sim != nil {
			subConfigs++
		}
		if sensorConfig.File != nil {
			subConfigs++
		}
		if sensorConfig.Serial != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("sensor %s: only one sensor type can be used per sensor definition block", sensorConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("sensor %s: sub-configuration for sensor is missing, use one of: sim | file | serial", sensorConfig.ID)
		}

		if sensorConfig.File != nil && len(sensorConfig.File.Path) <= 0 {
			return fmt.Errorf("sensor %s: path must not be empty", sensorConfig.ID)
		}
		if sensorConfig.Serial != nil {
			if len(sensorConfig.Serial.Port) <= 0 {
				return fmt.Errorf("sensor %s: serial port must not be empty", sensorConfig.ID)
			}
			if sensorConfig.Serial.Field < 0 {
				return fmt.Errorf("sensor %s: serial field must be >= 0", sensorConfig.ID)
			}
		}

		if sensorConfig.ID != config.Drivetrain.Heading {
			ui.Warning("Unused sensor configuration: %s", sensorConfig.ID)
		}
	}
	return nil
}

func validateControllers(config *Configuration) error {
	var ids []string
	for _, controllerConfig := range config.Controllers {
		if len(controllerConfig.ID) <= 0 {
			return errors.New("controller id must not be empty")
		}
		if slices.Contains(ids, controllerConfig.ID) {
			return fmt.Errorf("duplicate controller id detected: %s", controllerConfig.ID)
		}
		ids = append(ids, controllerConfig.ID)

		if controllerConfig.P == 0 && controllerConfig.I == 0 && controllerConfig.D == 0 {
			return fmt.Errorf("controller %s: at least one of p, i or d must be non-zero", controllerConfig.ID)
		}
		if controllerConfig.IntegralCap < 0 {
			return fmt.Errorf("controller %s: integralCap must be >= 0", controllerConfig.ID)
		}
		if controllerConfig.DerivativeSmoothing < 0 || controllerConfig.DerivativeSmoothing >= 1 {
			return fmt.Errorf("controller %s: derivativeSmoothing must be in [0, 1)", controllerConfig.ID)
		}
		if controllerConfig.Slew < 0 {
			return fmt.Errorf("controller %s: slew must be >= 0", controllerConfig.ID)
		}

		exit := controllerConfig.Exit
		if exit.MaxDuration <= 0 {
			return fmt.Errorf("controller %s: exit.maxDuration must be > 0", controllerConfig.ID)
		}
		if exit.SmallError < 0 || exit.LargeError < 0 {
			return fmt.Errorf("controller %s: exit error bands must be >= 0", controllerConfig.ID)
		}
		if exit.SmallErrorDuration < 0 || exit.LargeErrorDuration < 0 {
			return fmt.Errorf("controller %s: exit band durations must be >= 0", controllerConfig.ID)
		}
	}
	return nil
}

func findController(config *Configuration, id string) *ControllerConfig {
	for i := range config.Controllers {
		if config.Controllers[i].ID == id {
			return &config.Controllers[i]
		}
	}
	return nil
}

func hasActuator(config *Configuration, id string) bool {
	return slices.ContainsFunc(config.Actuators, func(a ActuatorConfig) bool { return a.ID == id })
}

func hasSensor(config *Configuration, id string) bool {
	return slices.ContainsFunc(config.Sensors, func(s SensorConfig) bool { return s.ID == id })
}

func validateDrivetrain(config *Configuration) error {
	drivetrain := config.Drivetrain

	if len(drivetrain.Left) <= 0 || len(drivetrain.Right) <= 0 {
		return errors.New("drivetrain: left and right actuators are required")
	}
	if drivetrain.Left == drivetrain.Right {
		return errors.New("drivetrain: left and right must be different actuators")
	}

	var used []string
	sides := append([]string{drivetrain.Left, drivetrain.Right}, drivetrain.LeftAux...)
	sides = append(sides, drivetrain.RightAux...)
	for _, id := range sides {
		if !hasActuator(config, id) {
			return fmt.Errorf("drivetrain: no actuator definition with id '%s' found", id)
		}
		if slices.Contains(used, id) {
			return fmt.Errorf("drivetrain: actuator '%s' is bound more than once", id)
		}
		used = append(used, id)
	}

	if len(drivetrain.Heading) <= 0 {
		return errors.New("drivetrain: heading sensor is required")
	}
	if !hasSensor(config, drivetrain.Heading) {
		return fmt.Errorf("drivetrain: no sensor definition with id '%s' found", drivetrain.Heading)
	}

	if drivetrain.WheelDiameter < 0 {
		return errors.New("drivetrain: wheelDiameter must be >= 0")
	}
	if drivetrain.GearRatio <= 0 || drivetrain.SlipCorrection <= 0 || drivetrain.UnitsPerRevolution <= 0 {
		return errors.New("drivetrain: gearRatio, slipCorrection and unitsPerRevolution must be > 0")
	}

	controllers := map[string]string{
		"linearController":  drivetrain.LinearController,
		"headingController": drivetrain.HeadingController,
		"angularController": drivetrain.AngularController,
	}
	for _, key := range []string{"linearController", "headingController", "angularController"} {
		id := controllers[key]
		if len(id) <= 0 {
			return fmt.Errorf("drivetrain: %s is required", key)
		}
		if findController(config, id) == nil {
			return fmt.Errorf("drivetrain: no controller definition with id '%s' found", id)
		}
	}

	if drivetrain.Simulation != nil && drivetrain.Simulation.Noise < 0 {
		return errors.New("drivetrain: simulation noise must be >= 0")
	}

	return nil
}

func validateRoutines(config *Configuration) error {
	var ids []string
	for _, routineConfig := range config.Routines {
		if len(routineConfig.ID) <= 0 {
			return errors.New("routine id must not be empty")
		}
		if slices.Contains(ids, routineConfig.ID) {
			return fmt.Errorf("duplicate routine id detected: %s", routineConfig.ID)
		}
		ids = append(ids, routineConfig.ID)

		switch routineConfig.OnTimeout {
		case "", OnTimeoutContinue, OnTimeoutAbort:
		default:
			return fmt.Errorf("routine %s: invalid onTimeout value: %s", routineConfig.ID, routineConfig.OnTimeout)
		}
	}

	for _, routineConfig := range config.Routines {
		for idx, step := range routineConfig.Steps {
			err := validateStep(step, ids)
			if err != nil {
				return fmt.Errorf("routine %s, step %d: %w", routineConfig.ID, idx+1, err)
			}
		}
	}

	return validateNoRoutineCycles(config)
}

func validateStep(step StepConfig, routineIds []string) error {
	subConfigs := 0
	if step.Drive != nil {
		subConfigs++
	}
	if step.Turn != nil {
		subConfigs++
	}
	if step.Wait != nil {
		subConfigs++
	}
	if step.Call != nil {
		subConfigs++
	}
	if subConfigs != 1 {
		return errors.New("exactly one of drive | turn | wait | call must be set")
	}

	if step.Turn != nil {
		switch step.Turn.Mode {
		case TurnModeRelative, TurnModeAbsolute:
		case "":
			return errors.New("turn mode is required, use one of: relative | absolute")
		default:
			return fmt.Errorf("invalid turn mode: %s", step.Turn.Mode)
		}
	}
	if step.Wait != nil && step.Wait.Duration < 0 {
		return errors.New("wait duration must be >= 0")
	}
	if step.Call != nil && !slices.Contains(routineIds, step.Call.Routine) {
		return fmt.Errorf("no routine definition with id '%s' found", step.Call.Routine)
	}
	return nil
}

func validateNoRoutineCycles(config *Configuration) error {
	graph := make(map[interface{}][]interface{})
	for _, routineConfig := range config.Routines {
		var callees []interface{}
		for _, step := range routineConfig.Steps {
			if step.Call == nil {
				continue
			}
			if step.Call.Routine == routineConfig.ID {
				return fmt.Errorf("routine %s calls itself", routineConfig.ID)
			}
			callees = append(callees, step.Call.Routine)
		}
		graph[routineConfig.ID] = callees
	}

	output := tarjan.Connections(graph)
	for _, items := range output {
		if len(items) > 1 {
			var names []string
			for _, item := range items {
				names = append(names, fmt.Sprint(item))
			}
			return fmt.Errorf("you have created a routine call cycle: %s", strings.Join(names, " -> "))
		}
	}
	return nil
}
