package sim

import (
	"sync"
	"time"
)

// MotorDriver simulates a stepper axis with physical travel-range limits.
// Positions are raw steps; a move past a hard limit clamps at the boundary
// and the driver reports the limit condition afterwards, the way real
// controllers do.
type MotorDriver struct {
	mu       sync.Mutex
	position float64
	lower    float64
	upper    float64

	// MoveDelay is slept inside SetPosition to simulate motion time.
	MoveDelay time.Duration
}

// NewMotorDriver creates a simulated axis with hard limits at the given
// step positions. The axis starts at step 0.
func NewMotorDriver(lower, upper float64) *MotorDriver {
	return &MotorDriver{lower: lower, upper: upper}
}

// Place moves the axis to the given step position without limit handling.
// Tests use it to set up scenarios.
func (d *MotorDriver) Place(steps float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.position = steps
}

// Position returns the current position in steps.
func (d *MotorDriver) Position() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.position, nil
}

// SetPosition moves to the given step position, clamping at the hard limits.
func (d *MotorDriver) SetPosition(steps float64) error {
	if d.MoveDelay > 0 {
		time.Sleep(d.MoveDelay)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case steps < d.lower:
		d.position = d.lower
	case steps > d.upper:
		d.position = d.upper
	default:
		d.position = steps
	}
	return nil
}

// Stop is a no-op: simulated moves are instantaneous.
func (d *MotorDriver) Stop() error {
	return nil
}

// Home returns the axis to step 0.
func (d *MotorDriver) Home() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.position = 0
	return nil
}

// InHardLimit reports whether the axis sits at either travel boundary.
func (d *MotorDriver) InHardLimit() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.position <= d.lower || d.position >= d.upper, nil
}

// ContinuousMotorDriver extends the simulated axis with a velocity setpoint.
type ContinuousMotorDriver struct {
	MotorDriver

	vmu      sync.Mutex
	velocity float64
}

// NewContinuousMotorDriver creates a simulated continuous axis.
func NewContinuousMotorDriver(lower, upper float64) *ContinuousMotorDriver {
	return &ContinuousMotorDriver{MotorDriver: MotorDriver{lower: lower, upper: upper}}
}

// Velocity returns the velocity setpoint in steps per second.
func (d *ContinuousMotorDriver) Velocity() (float64, error) {
	d.vmu.Lock()
	defer d.vmu.Unlock()
	return d.velocity, nil
}

// SetVelocity sets the velocity setpoint in steps per second.
func (d *ContinuousMotorDriver) SetVelocity(steps float64) error {
	d.vmu.Lock()
	defer d.vmu.Unlock()
	d.velocity = steps
	return nil
}
