package motion

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/drive2go/drive2go/internal/actuators"
	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/control_loop"
	"github.com/drive2go/drive2go/internal/sensors"
	"github.com/drive2go/drive2go/internal/sim"
	"github.com/drive2go/drive2go/internal/util"
	"github.com/stretchr/testify/assert"
)

type recordingObserver struct {
	samples []Sample
	results []Result
	onTick  func(sample Sample)
}

func (o *recordingObserver) OnSample(sample Sample) {
	o.samples = append(o.samples, sample)
	if o.onTick != nil {
		o.onTick(sample)
	}
}

func (o *recordingObserver) OnResult(result Result) {
	o.results = append(o.results, result)
}

func (o *recordingObserver) leftCommands() []float64 {
	var result []float64
	for _, sample := range o.samples {
		result = append(result, sample.Left)
	}
	return result
}

func testSettings() Settings {
	exit := control_loop.ExitConditions{
		SmallError:         1,
		SmallErrorDuration: 100 * time.Millisecond,
		MaxDuration:        2 * time.Second,
	}
	return Settings{
		Tick:       20 * time.Millisecond,
		MaxVoltage: 12000,
		Linear: ControllerSettings{
			Pid:  control_loop.PidSettings{Gains: control_loop.PidGains{P: 500}},
			Exit: exit,
		},
		Heading: ControllerSettings{
			Pid:  control_loop.PidSettings{Gains: control_loop.PidGains{P: 100}},
			Exit: exit,
		},
		Angular: ControllerSettings{
			Pid:  control_loop.PidSettings{Gains: control_loop.PidGains{P: 250}},
			Exit: exit,
		},
		StopOnExit: true,
	}
}

// newSimChassis creates a chassis on a simulated drivetrain where a drive
// command halves the remaining distance and a turn command halves the
// remaining heading error on every tick.
func newSimChassis(config configuration.SimulationConfig, initialHeading float64, observers ...Observer) (*Chassis, *sim.Drivetrain) {
	drivetrain := sim.NewDrivetrain(
		actuators.NewSimActuator("left", 0),
		actuators.NewSimActuator("right", 0),
		sensors.NewSimSensor("imu", initialHeading),
		config,
	)
	binding := Binding{
		Left:    drivetrain.Left,
		Right:   drivetrain.Right,
		Heading: drivetrain.Heading,
	}
	pacer := &sim.Pacer{Drivetrain: drivetrain}
	return NewChassis(binding, testSettings(), pacer, observers...), drivetrain
}

func defaultSimulation() configuration.SimulationConfig {
	return configuration.SimulationConfig{Gain: 0.001, HeadingGain: 1}
}

func TestMix(t *testing.T) {
	tests := []struct {
		name          string
		forward       float64
		correction    float64
		expectedLeft  float64
		expectedRight float64
	}{
		{"no correction", 5000, 0, 5000, 5000},
		{"positive correction", 5000, 1000, 6000, 4000},
		{"left saturated", 10000, 4000, 12000, 6000},
		{"both saturated", 48000, 1000, 12000, 12000},
		{"reverse", -5000, -9000, -12000, 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := Mix(tt.forward, tt.correction, 12000)
			assert.Equal(t, tt.expectedLeft, left)
			assert.Equal(t, tt.expectedRight, right)
		})
	}
}

func TestDriveStraight_Converges(t *testing.T) {
	// GIVEN
	observer := &recordingObserver{}
	chassis, drivetrain := newSimChassis(defaultSimulation(), 0, observer)

	// WHEN
	result, err := chassis.DriveStraight(context.Background(), 24)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, KindDrive, result.Kind)
	assert.Equal(t, control_loop.Converged, result.Outcome)
	assert.True(t, result.Converged())
	assert.Equal(t, 10, result.Ticks)
	assert.Equal(t, 200*time.Millisecond, result.Elapsed)
	assert.Equal(t, 0.046875, result.FinalError)
	assert.Len(t, result.ErrorTrace, 10)
	assert.Equal(t, 24.0, result.ErrorTrace[0])

	assert.Equal(t, 12000.0, observer.samples[0].Left)
	assert.Equal(t, 6000.0, observer.samples[1].Left)
	assert.Len(t, observer.results, 1)

	// stopped on exit
	assert.Equal(t, 0.0, drivetrain.Left.GetLastCommand())
	assert.Equal(t, 0.0, drivetrain.Right.GetLastCommand())
}

func TestDriveStraight_HeadingHoldCorrectsDrift(t *testing.T) {
	// GIVEN
	simulation := defaultSimulation()
	simulation.Drift = -1
	observer := &recordingObserver{}
	chassis, _ := newSimChassis(simulation, 0, observer)

	// WHEN
	_, err := chassis.DriveStraight(context.Background(), 24)

	// THEN
	assert.NoError(t, err)
	first := observer.samples[0]
	assert.Equal(t, 0.0, first.HeadingError)
	assert.Equal(t, first.Left, first.Right)

	second := observer.samples[1]
	assert.Equal(t, 1.0, second.HeadingError)
	assert.Equal(t, 6100.0, second.Left)
	assert.Equal(t, 5900.0, second.Right)
}

func TestDriveStraight_HeadingHoldAcrossWrap(t *testing.T) {
	// GIVEN
	simulation := defaultSimulation()
	simulation.Drift = 2
	observer := &recordingObserver{}
	chassis, _ := newSimChassis(simulation, 179, observer)

	// WHEN
	_, err := chassis.DriveStraight(context.Background(), 24)

	// THEN
	assert.NoError(t, err)
	// heading moved from 179 to 181, which is -179 on a wrapping sensor
	second := observer.samples[1]
	assert.Equal(t, -2.0, second.HeadingError)
	assert.Less(t, second.Left, second.Right)
}

func TestDriveStraight_ResetBetweenCalls(t *testing.T) {
	// GIVEN
	observer := &recordingObserver{}
	chassis, _ := newSimChassis(defaultSimulation(), 0, observer)

	// WHEN
	first, err := chassis.DriveStraight(context.Background(), 24)
	assert.NoError(t, err)
	firstCommands := observer.leftCommands()
	observer.samples = nil

	second, err := chassis.DriveStraight(context.Background(), 24)
	assert.NoError(t, err)
	secondCommands := observer.leftCommands()

	// THEN
	assert.Equal(t, firstCommands, secondCommands)
	assert.Equal(t, first.Ticks, second.Ticks)
	assert.Equal(t, first.ErrorTrace, second.ErrorTrace)
}

func TestDriveStraight_TimedOut(t *testing.T) {
	// GIVEN
	simulation := defaultSimulation()
	simulation.Gain = 0
	chassis, drivetrain := newSimChassis(simulation, 0)
	chassis.settings.Linear.Exit.MaxDuration = 100 * time.Millisecond

	// WHEN
	result, err := chassis.DriveStraight(context.Background(), 24)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, control_loop.TimedOut, result.Outcome)
	assert.False(t, result.Converged())
	assert.Equal(t, 5, result.Ticks)
	assert.Equal(t, 24.0, result.FinalError)
	assert.Equal(t, 0.0, drivetrain.Left.GetLastCommand())
}

func TestDriveStraight_CancelledBeforeStart(t *testing.T) {
	// GIVEN
	chassis, drivetrain := newSimChassis(defaultSimulation(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN
	result, err := chassis.DriveStraight(ctx, 24)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, control_loop.Cancelled, result.Outcome)
	assert.Equal(t, 0, result.Ticks)
	assert.Equal(t, 0, drivetrain.Steps())
}

func TestDriveStraight_CancelledWhileRunning(t *testing.T) {
	// GIVEN
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	observer := &recordingObserver{}
	observer.onTick = func(sample Sample) {
		if sample.Tick == 3 {
			cancel()
		}
	}
	chassis, drivetrain := newSimChassis(defaultSimulation(), 0, observer)

	// WHEN
	result, err := chassis.DriveStraight(ctx, 24)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, control_loop.Cancelled, result.Outcome)
	assert.Equal(t, 3, result.Ticks)
	assert.Equal(t, 0.0, drivetrain.Left.GetLastCommand())
	assert.Equal(t, 0.0, drivetrain.Right.GetLastCommand())
	assert.Len(t, observer.results, 1)
}

type failingSensor struct{}

func (failingSensor) GetId() string { return "broken" }

func (failingSensor) GetHeading() (float64, error) {
	return 0, errors.New("i2c timeout")
}

func TestDriveStraight_SensorFailure(t *testing.T) {
	// GIVEN
	chassis, _ := newSimChassis(defaultSimulation(), 0)
	chassis.binding.Heading = failingSensor{}

	// WHEN
	_, err := chassis.DriveStraight(context.Background(), 24)

	// THEN
	assert.ErrorContains(t, err, "i2c timeout")
}

func TestDriveStraight_AuxActuatorsFollow(t *testing.T) {
	// GIVEN
	observer := &recordingObserver{}
	leftAux := actuators.NewSimActuator("leftAux", 0)
	rightAux := actuators.NewSimActuator("rightAux", 0)
	var leftAuxCommands []float64
	observer.onTick = func(sample Sample) {
		leftAuxCommands = append(leftAuxCommands, leftAux.GetLastCommand())
	}
	chassis, _ := newSimChassis(defaultSimulation(), 0, observer)
	chassis.binding.LeftAux = []actuators.Actuator{leftAux}
	chassis.binding.RightAux = []actuators.Actuator{rightAux}

	// WHEN
	_, err := chassis.DriveStraight(context.Background(), 24)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, observer.leftCommands(), leftAuxCommands)
	assert.Equal(t, 0.0, rightAux.GetLastCommand())
}

type blockingPacer struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingPacer) Wait(ctx context.Context) error {
	p.entered <- struct{}{}
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type resettingPacer struct {
	*sim.Pacer
	resets int
}

func (p *resettingPacer) Reset() {
	p.resets++
}

func TestChassis_ResetsPacerPerMotion(t *testing.T) {
	// GIVEN
	chassis, drivetrain := newSimChassis(defaultSimulation(), 0)
	pacer := &resettingPacer{Pacer: &sim.Pacer{Drivetrain: drivetrain}}
	chassis.pacer = pacer

	// WHEN
	_, err := chassis.DriveStraight(context.Background(), 24)
	assert.NoError(t, err)
	_, err = chassis.TurnTo(context.Background(), 45, TurnRelative)
	assert.NoError(t, err)

	// THEN
	assert.Equal(t, 2, pacer.resets)
}

func TestTickerPacer_ResetDropsIdleTick(t *testing.T) {
	// GIVEN
	pacer := NewTickerPacer(50 * time.Millisecond)
	defer pacer.Stop()
	time.Sleep(120 * time.Millisecond)

	// WHEN
	pacer.Reset()
	start := time.Now()
	err := pacer.Wait(context.Background())

	// THEN
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestChassis_Busy(t *testing.T) {
	// GIVEN
	chassis, _ := newSimChassis(defaultSimulation(), 0)
	pacer := &blockingPacer{entered: make(chan struct{}), release: make(chan struct{})}
	chassis.pacer = pacer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Result)
	go func() {
		result, _ := chassis.DriveStraight(ctx, 24)
		done <- result
	}()
	<-pacer.entered

	// WHEN
	_, err := chassis.TurnTo(context.Background(), 90, TurnRelative)

	// THEN
	assert.ErrorIs(t, err, ErrBusy)
	cancel()
	result := <-done
	assert.Equal(t, control_loop.Cancelled, result.Outcome)
}

func TestDriveStraight_SlewStateStaysWithinRange(t *testing.T) {
	// GIVEN
	observer := &recordingObserver{}
	chassis, _ := newSimChassis(defaultSimulation(), 0, observer)
	chassis.settings.Linear.Pid.Gains.P = 5000
	chassis.settings.Linear.Slew = 6000

	// WHEN
	_, err := chassis.DriveStraight(context.Background(), 24)

	// THEN
	assert.NoError(t, err)
	commands := observer.leftCommands()
	assert.Equal(t, []float64{6000, 12000, 12000}, commands[:3])
	// overshoot on the fourth tick, the command ramps down right away
	assert.Less(t, observer.samples[3].Error, 0.0)
	assert.Equal(t, 6000.0, commands[3])
	for i := 1; i < len(commands); i++ {
		assert.LessOrEqual(t, math.Abs(commands[i]-commands[i-1]), 6000.0)
	}
}

func TestTurnTo_SlewStateStaysWithinRange(t *testing.T) {
	// GIVEN
	observer := &recordingObserver{}
	chassis, _ := newSimChassis(defaultSimulation(), 0, observer)
	chassis.settings.Angular.Pid.Gains.P = 5000
	chassis.settings.Angular.Slew = 8000

	// WHEN
	_, err := chassis.TurnTo(context.Background(), 50, TurnAbsolute)

	// THEN
	assert.NoError(t, err)
	commands := observer.leftCommands()
	assert.Equal(t, []float64{8000, 12000, 12000}, commands[:3])
	assert.Less(t, observer.samples[3].Error, 0.0)
	assert.Equal(t, 4000.0, commands[3])
	assert.Equal(t, -4000.0, observer.samples[3].Right)
}

func TestTurnTo_Relative(t *testing.T) {
	// GIVEN
	chassis, drivetrain := newSimChassis(defaultSimulation(), 100)

	// WHEN
	result, err := chassis.TurnTo(context.Background(), 90, TurnRelative)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, KindTurn, result.Kind)
	assert.Equal(t, 190.0, result.Target)
	assert.Equal(t, control_loop.Converged, result.Outcome)
	heading, _ := drivetrain.Heading.GetHeading()
	assert.InDelta(t, 190.0, heading, 1)
}

func TestTurnTo_Absolute(t *testing.T) {
	// GIVEN
	chassis, drivetrain := newSimChassis(defaultSimulation(), 100)

	// WHEN
	result, err := chassis.TurnTo(context.Background(), 90, TurnAbsolute)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 90.0, result.Target)
	assert.Equal(t, control_loop.Converged, result.Outcome)
	heading, _ := drivetrain.Heading.GetHeading()
	assert.InDelta(t, 90.0, heading, 1)
}

func TestTurnTo_TakesShortestPathAcrossWrap(t *testing.T) {
	// GIVEN
	observer := &recordingObserver{}
	chassis, drivetrain := newSimChassis(defaultSimulation(), 170, observer)

	// WHEN
	result, err := chassis.TurnTo(context.Background(), -170, TurnAbsolute)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, control_loop.Converged, result.Outcome)
	first := observer.samples[0]
	assert.Equal(t, 20.0, first.Error)
	assert.Greater(t, first.Left, 0.0)
	assert.Less(t, first.Right, 0.0)

	heading, _ := drivetrain.Heading.GetHeading()
	assert.InDelta(t, -170.0, util.NormalizeAngle(heading), 1)
	assert.InDelta(t, 190.0, heading, 1)
}

func TestTurnTo_TimedOut(t *testing.T) {
	// GIVEN
	simulation := defaultSimulation()
	simulation.HeadingGain = 0
	chassis, _ := newSimChassis(simulation, 0)

	// WHEN
	result, err := chassis.TurnTo(context.Background(), 45, TurnRelative)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, control_loop.TimedOut, result.Outcome)
	assert.Equal(t, 2*time.Second, result.Elapsed)
	assert.Equal(t, 100, result.Ticks)
}

func TestResolveTurnTarget(t *testing.T) {
	relative, err := ResolveTurnTarget(30, 90, TurnRelative)
	assert.NoError(t, err)
	assert.Equal(t, 120.0, relative)

	absolute, err := ResolveTurnTarget(30, 90, TurnAbsolute)
	assert.NoError(t, err)
	assert.Equal(t, 90.0, absolute)

	_, err = ResolveTurnTarget(30, 90, TurnMode(7))
	assert.Error(t, err)
}

func TestGeometry_Distance(t *testing.T) {
	// GIVEN
	geometry := Geometry{
		WheelDiameter:      4,
		GearRatio:          0.5,
		SlipCorrection:     1,
		UnitsPerRevolution: 360,
	}

	// WHEN
	distance := geometry.Distance(720)

	// THEN
	// two motor revolutions, one wheel revolution
	assert.InDelta(t, 4*3.141592653589793, distance, 1e-9)
	assert.Equal(t, 12.5, Geometry{}.Distance(12.5))
}

func TestBinding_Validate(t *testing.T) {
	assert.Error(t, Binding{}.Validate())
	assert.Error(t, Binding{
		Left:  actuators.NewSimActuator("l", 0),
		Right: actuators.NewSimActuator("r", 0),
	}.Validate())
}
