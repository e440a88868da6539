package motor

// Driver is the capability interface a concrete motor driver must
// implement in full. All calls are blocking and synchronous; the core
// never assumes non-blocking hardware access. Drivers work in raw device
// units (steps) and are always called under the owning device's lock.
type Driver interface {
	// Position returns the current position in steps.
	Position() (float64, error)

	// SetPosition moves the device to the given position in steps and
	// returns when the motion has finished.
	SetPosition(steps float64) error

	// Stop halts the motion.
	Stop() error

	// Home drives the device to its home switch.
	Home() error

	// InHardLimit reports whether the device sits in a physical
	// travel-range limit.
	InHardLimit() (bool, error)
}

// VelocityDriver extends Driver with a velocity setpoint, for motors that
// support continuous motion.
type VelocityDriver interface {
	Driver

	// Velocity returns the current velocity setpoint in steps per second.
	Velocity() (float64, error)

	// SetVelocity sets the velocity setpoint in steps per second.
	SetVelocity(steps float64) error
}
