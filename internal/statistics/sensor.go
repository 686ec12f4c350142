package statistics

import (
	"github.com/drive2go/drive2go/internal/sensors"
	"github.com/drive2go/drive2go/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	sensors []sensors.HeadingSensor
	monitor *telemetry.HeadingMonitor

	heading *prometheus.Desc
	avgRate *prometheus.Desc
	maxRate *prometheus.Desc
	errors  *prometheus.Desc
}

// NewSensorCollector creates a collector for the given sensors. monitor may be nil.
func NewSensorCollector(sensors []sensors.HeadingSensor, monitor *telemetry.HeadingMonitor) *SensorCollector {
	return &SensorCollector{
		sensors: sensors,
		monitor: monitor,
		heading: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "heading"),
			"Current heading reported by the sensor in degrees",
			[]string{"id"}, nil,
		),
		avgRate: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "heading_rate_avg"),
			"Average absolute heading rate of change in degrees per second",
			nil, nil,
		),
		maxRate: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "heading_rate_max"),
			"Maximum absolute heading rate of change in degrees per second",
			nil, nil,
		),
		errors: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "read_errors_total"),
			"Number of failed heading reads of the heading monitor",
			nil, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.heading
	ch <- collector.avgRate
	ch <- collector.maxRate
	ch <- collector.errors
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, sensor := range collector.sensors {
		heading, err := sensor.GetHeading()
		if err != nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(collector.heading, prometheus.GaugeValue, heading, sensor.GetId())
	}

	if collector.monitor == nil {
		return
	}
	statistics := collector.monitor.Statistics()
	ch <- prometheus.MustNewConstMetric(collector.avgRate, prometheus.GaugeValue, statistics.AvgRate)
	ch <- prometheus.MustNewConstMetric(collector.maxRate, prometheus.GaugeValue, statistics.MaxRate)
	ch <- prometheus.MustNewConstMetric(collector.errors, prometheus.CounterValue, float64(statistics.Errors))
}
