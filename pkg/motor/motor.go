package motor

import (
	"errors"
	"fmt"

	"github.com/concert-control/concert-go/pkg/calib"
	"github.com/concert-control/concert-go/pkg/device"
	"github.com/concert-control/concert-go/pkg/log"
	"github.com/concert-control/concert-go/pkg/param"
	"github.com/concert-control/concert-go/pkg/task"
	"github.com/concert-control/concert-go/pkg/unit"
)

// ErrHardLimit is returned when the device reports a physical travel-range
// limit. The motor records the "limit" state and notifies observers before
// the error reaches the caller.
var ErrHardLimit = errors.New("hard limit reached")

// Motor states, in addition to the inherited "n/a".
const (
	StateStandby = "standby"
	StateMoving  = "moving"
	StateLimit   = "limit"
)

// Motor is a device with a calibrated position parameter. The position is
// exposed in user units; the calibration converts to the driver's raw
// steps on the way down.
type Motor struct {
	*device.Device

	drv Driver
	cal calib.Calibration
}

// New creates a motor over the given driver. The limiter, if non-nil,
// bounds the user-space position (a soft limit).
func New(name string, drv Driver, cal calib.Calibration, limiter param.Limiter, logger log.Logger) (*Motor, error) {
	m := &Motor{
		Device: device.New(name, logger),
		drv:    drv,
		cal:    cal,
	}
	m.DeclareStates(StateStandby, StateMoving, StateLimit)

	position := param.New(&param.Metadata{
		Name:        "position",
		Dim:         unit.Length,
		Get:         m.calibratedPosition,
		Set:         m.setCalibratedPosition,
		Limiter:     limiter,
		Description: "Position of the motor",
	})
	if err := m.Add(position); err != nil {
		return nil, err
	}
	return m, nil
}

// Position returns the current position in user units.
func (m *Motor) Position() (unit.Value, error) {
	return m.Get("position")
}

// SetPosition moves the motor to an absolute position and blocks until
// the motion has completed or failed.
func (m *Motor) SetPosition(position unit.Value) error {
	return m.Set("position", position)
}

// Move moves the motor by delta user units on a background worker.
func (m *Motor) Move(delta unit.Value) *task.Task {
	return task.Spawn(func() error {
		current, err := m.Position()
		if err != nil {
			return err
		}
		target, err := current.Add(delta)
		if err != nil {
			return err
		}
		return m.SetPosition(target)
	})
}

// Stop halts the motion on a background worker.
func (m *Motor) Stop() *task.Task {
	return task.Spawn(func() error {
		if err := m.WithLock(m.drv.Stop); err != nil {
			return err
		}
		m.SetState(StateStandby)
		return nil
	})
}

// Home drives the motor to its home switch on a background worker and
// re-broadcasts the position, which changed as a side effect.
func (m *Motor) Home() *task.Task {
	return task.Spawn(func() error {
		if err := m.WithLock(m.drv.Home); err != nil {
			return err
		}
		m.SetState(StateStandby)

		p, err := m.Param("position")
		if err != nil {
			return err
		}
		return p.Notify()
	})
}

func (m *Motor) calibratedPosition() (unit.Value, error) {
	var steps float64
	err := m.WithLock(func() error {
		var err error
		steps, err = m.drv.Position()
		return err
	})
	if err != nil {
		return unit.Value{}, err
	}
	return m.cal.ToUser(steps), nil
}

// setCalibratedPosition implements the motion state machine. The order is
// deliberate: observers must see the transition to "moving" before a
// potential limit failure is raised, and "limit" before the error reaches
// the caller.
func (m *Motor) setCalibratedPosition(position unit.Value) error {
	m.SetState(StateMoving)

	var inLimit bool
	err := m.WithLock(func() error {
		if err := m.drv.SetPosition(m.cal.ToSteps(position)); err != nil {
			return err
		}
		var err error
		inLimit, err = m.drv.InHardLimit()
		return err
	})
	if err != nil {
		return err
	}

	if inLimit {
		m.SetState(StateLimit)
		return fmt.Errorf("%w: %s", ErrHardLimit, m.Name())
	}

	m.SetState(StateStandby)
	return nil
}
