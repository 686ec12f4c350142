package sim

// FirstOrderPlant integrates its input: every Apply moves the measurement by Gain * command.
type FirstOrderPlant struct {
	Gain        float64
	Measurement float64
}

func (p *FirstOrderPlant) Apply(command float64) float64 {
	p.Measurement += p.Gain * command
	return p.Measurement
}
