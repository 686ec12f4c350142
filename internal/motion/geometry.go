package motion

import "math"

// Geometry converts actuator positions into travelled distance.
// A zero WheelDiameter means positions are already distances.
type Geometry struct {
	WheelDiameter float64
	// wheel revolutions per actuator revolution
	GearRatio float64
	// factor compensating for wheel slip, 1 means none
	SlipCorrection float64
	// position units per actuator revolution, e.g. 360 for degrees
	UnitsPerRevolution float64
}

func (g Geometry) Distance(position float64) float64 {
	ratio := g.GearRatio
	if ratio == 0 {
		ratio = 1
	}
	slip := g.SlipCorrection
	if slip == 0 {
		slip = 1
	}
	if g.WheelDiameter <= 0 {
		return position * ratio * slip
	}
	unitsPerRevolution := g.UnitsPerRevolution
	if unitsPerRevolution <= 0 {
		unitsPerRevolution = 360
	}
	return position / unitsPerRevolution * ratio * math.Pi * g.WheelDiameter * slip
}
