package control_loop

type ControlLoop interface {
	// Loop advances the control loop
	Loop(target float64, measured float64) float64
}

// Settler is implemented by control loops that can decide on their own
// when the regulated plant has reached its target.
type Settler interface {
	// Settled is true once the loop reached any terminal SettleState
	Settled() bool
	// State returns the current SettleState
	State() SettleState
}

// SettlingLoop is a ControlLoop that ends on its own
type SettlingLoop interface {
	ControlLoop
	Settler
}
