package statistics

import (
	"strings"
	"testing"
	"time"

	"github.com/drive2go/drive2go/internal/actuators"
	"github.com/drive2go/drive2go/internal/control_loop"
	"github.com/drive2go/drive2go/internal/motion"
	"github.com/drive2go/drive2go/internal/sensors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMotionCollector(t *testing.T) {
	// GIVEN
	collector := NewMotionCollector()

	// WHEN
	collector.OnResult(motion.Result{Kind: motion.KindDrive, Outcome: control_loop.Converged, Elapsed: 1500 * time.Millisecond, FinalError: 0.25})
	collector.OnResult(motion.Result{Kind: motion.KindDrive, Outcome: control_loop.Converged})
	collector.OnResult(motion.Result{Kind: motion.KindTurn, Outcome: control_loop.TimedOut, Elapsed: 3 * time.Second, FinalError: 4})

	// THEN
	expected := `
# HELP drive2go_motion_total Number of finished motions by kind and outcome
# TYPE drive2go_motion_total counter
drive2go_motion_total{kind="drive",outcome="converged"} 2
drive2go_motion_total{kind="turn",outcome="timedOut"} 1
`
	err := testutil.CollectAndCompare(collector, strings.NewReader(expected), "drive2go_motion_total")
	assert.NoError(t, err)

	expected = `
# HELP drive2go_motion_last_final_error Error of the deciding controller when the last motion of this kind ended
# TYPE drive2go_motion_last_final_error gauge
drive2go_motion_last_final_error{kind="drive"} 0
drive2go_motion_last_final_error{kind="turn"} 4
`
	err = testutil.CollectAndCompare(collector, strings.NewReader(expected), "drive2go_motion_last_final_error")
	assert.NoError(t, err)
}

func TestActuatorCollector(t *testing.T) {
	// GIVEN
	left := actuators.NewSimActuator("left", 0)
	_ = left.SetCommand(1200)
	left.Advance(30)
	collector := NewActuatorCollector([]actuators.Actuator{left})

	// WHEN
	count := testutil.CollectAndCount(collector)

	// THEN
	assert.Equal(t, 2, count)
	expected := `
# HELP drive2go_actuator_command Last command sent to the actuator
# TYPE drive2go_actuator_command gauge
drive2go_actuator_command{id="left"} 1200
`
	err := testutil.CollectAndCompare(collector, strings.NewReader(expected), "drive2go_actuator_command")
	assert.NoError(t, err)
}

func TestSensorCollector_WithoutMonitor(t *testing.T) {
	// GIVEN
	collector := NewSensorCollector([]sensors.HeadingSensor{sensors.NewSimSensor("imu", 42)}, nil)

	// WHEN
	expected := `
# HELP drive2go_sensor_heading Current heading reported by the sensor in degrees
# TYPE drive2go_sensor_heading gauge
drive2go_sensor_heading{id="imu"} 42
`
	err := testutil.CollectAndCompare(collector, strings.NewReader(expected))

	// THEN
	assert.NoError(t, err)
}
