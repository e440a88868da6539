package motor

import (
	"github.com/concert-control/concert-go/pkg/calib"
	"github.com/concert-control/concert-go/pkg/log"
	"github.com/concert-control/concert-go/pkg/param"
	"github.com/concert-control/concert-go/pkg/unit"
)

// Continuous is a motor on which a velocity can be set in addition to the
// position. It is inherently capable of discrete movement.
type Continuous struct {
	*Motor

	vdrv VelocityDriver
	vcal calib.Calibration
}

// NewContinuous creates a continuous motor with separate calibrations for
// position and velocity. Limiters may be nil.
func NewContinuous(name string, drv VelocityDriver, posCal, velCal calib.Calibration,
	posLimiter, velLimiter param.Limiter, logger log.Logger) (*Continuous, error) {

	base, err := New(name, drv, posCal, posLimiter, logger)
	if err != nil {
		return nil, err
	}

	c := &Continuous{
		Motor: base,
		vdrv:  drv,
		vcal:  velCal,
	}

	velocity := param.New(&param.Metadata{
		Name:        "velocity",
		Dim:         unit.Velocity,
		Get:         c.calibratedVelocity,
		Set:         c.setCalibratedVelocity,
		Limiter:     velLimiter,
		Description: "Velocity of the motor",
	})
	if err := c.Add(velocity); err != nil {
		return nil, err
	}
	return c, nil
}

// Velocity returns the current velocity setpoint in user units.
func (c *Continuous) Velocity() (unit.Value, error) {
	return c.Get("velocity")
}

// SetVelocity sets the velocity setpoint and blocks until applied.
func (c *Continuous) SetVelocity(velocity unit.Value) error {
	return c.Set("velocity", velocity)
}

func (c *Continuous) calibratedVelocity() (unit.Value, error) {
	var steps float64
	err := c.WithLock(func() error {
		var err error
		steps, err = c.vdrv.Velocity()
		return err
	})
	if err != nil {
		return unit.Value{}, err
	}
	return c.vcal.ToUser(steps), nil
}

func (c *Continuous) setCalibratedVelocity(velocity unit.Value) error {
	return c.WithLock(func() error {
		return c.vdrv.SetVelocity(c.vcal.ToSteps(velocity))
	})
}
