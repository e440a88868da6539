// Package focus runs a feedback-driven focusing routine over a motor.
package focus

import (
	"errors"
	"fmt"

	"github.com/concert-control/concert-go/pkg/motor"
	"github.com/concert-control/concert-go/pkg/param"
	"github.com/concert-control/concert-go/pkg/task"
	"github.com/concert-control/concert-go/pkg/unit"
)

// ErrZeroStep is returned when focusing is started with a zero step,
// which could never terminate.
var ErrZeroStep = errors.New("zero focusing step")

// Measure produces the feedback score at the current motor position.
// Higher is sharper. A typical measure grabs a frame and computes a
// gradient metric on it.
type Measure func() (float64, error)

// Focuser climbs the feedback score by moving a motor.
type Focuser struct {
	motor   *motor.Motor
	epsilon unit.Value
	measure Measure
}

// NewFocuser creates a focuser on the given motor. The routine stops
// once the step size has decayed below epsilon.
func NewFocuser(m *motor.Motor, epsilon unit.Value, measure Measure) *Focuser {
	return &Focuser{motor: m, epsilon: epsilon, measure: measure}
}

// Focus starts hill climbing with the given initial step on a
// background worker. The returned task finishes when the step size has
// decayed below the focuser's epsilon.
//
// The motor moves by the current step each iteration; if the score did
// not improve, the direction is reversed and the step halved. Hard and
// soft travel limits are not fatal: the motor makes clamped progress or
// none, the score stalls, and the next iteration turns around.
func (f *Focuser) Focus(step unit.Value) *task.Task {
	return task.Spawn(func() error {
		return f.climb(step)
	})
}

func (f *Focuser) climb(step unit.Value) error {
	if step.IsZero() {
		return fmt.Errorf("%w on %s", ErrZeroStep, f.motor.Name())
	}

	for {
		if small, err := step.Abs().Less(f.epsilon); err != nil {
			return err
		} else if small {
			return nil
		}

		before, err := f.measure()
		if err != nil {
			return err
		}

		if err := f.moveBy(step); err != nil {
			if !errors.Is(err, motor.ErrHardLimit) && !errors.Is(err, param.ErrLimitRejected) {
				return err
			}
		}

		after, err := f.measure()
		if err != nil {
			return err
		}

		if after <= before {
			step = step.Neg().Scale(0.5)
		}
	}
}

// moveBy moves the motor relative to its current position, blocking on
// the calling goroutine. The climb body already occupies a worker slot,
// so it must not spawn the move as another task; the device lock alone
// serializes the hardware access.
func (f *Focuser) moveBy(delta unit.Value) error {
	current, err := f.motor.Position()
	if err != nil {
		return err
	}
	target, err := current.Add(delta)
	if err != nil {
		return err
	}
	return f.motor.SetPosition(target)
}
