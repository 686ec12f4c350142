package statistics

import (
	"github.com/drive2go/drive2go/internal/actuators"
	"github.com/prometheus/client_golang/prometheus"
)

const actuatorSubsystem = "actuator"

type ActuatorCollector struct {
	actuators []actuators.Actuator
	command   *prometheus.Desc
	position  *prometheus.Desc
}

func NewActuatorCollector(actuators []actuators.Actuator) *ActuatorCollector {
	return &ActuatorCollector{
		actuators: actuators,
		command: prometheus.NewDesc(prometheus.BuildFQName(namespace, actuatorSubsystem, "command"),
			"Last command sent to the actuator",
			[]string{"id"}, nil,
		),
		position: prometheus.NewDesc(prometheus.BuildFQName(namespace, actuatorSubsystem, "position"),
			"Position estimate of the actuator relative to its last zero reference",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ActuatorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.command
	ch <- collector.position
}

// Collect implements required collect function for all prometheus collectors
func (collector *ActuatorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, actuator := range collector.actuators {
		actuatorId := actuator.GetId()
		ch <- prometheus.MustNewConstMetric(collector.command, prometheus.GaugeValue, actuator.GetLastCommand(), actuatorId)
		position, err := actuator.GetPositionEstimate()
		if err != nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(collector.position, prometheus.GaugeValue, position, actuatorId)
	}
}
