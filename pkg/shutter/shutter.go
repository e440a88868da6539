// Package shutter provides a beam shutter device with open/closed states.
package shutter

import (
	"github.com/concert-control/concert-go/pkg/device"
	"github.com/concert-control/concert-go/pkg/log"
	"github.com/concert-control/concert-go/pkg/task"
)

// Shutter states, in addition to the inherited "n/a".
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Driver is the capability a physical shutter controller must provide.
type Driver interface {
	Open() error
	Close() error
	IsOpen() bool
}

// Shutter is a device that blocks or passes the beam.
type Shutter struct {
	*device.Device

	drv Driver
}

// New creates a shutter over the given driver. The state reflects the
// driver's reported position at construction.
func New(name string, drv Driver, logger log.Logger) *Shutter {
	s := &Shutter{
		Device: device.New(name, logger),
		drv:    drv,
	}
	s.DeclareStates(StateOpen, StateClosed)

	if drv.IsOpen() {
		s.SetState(StateOpen)
	} else {
		s.SetState(StateClosed)
	}
	return s
}

// Open opens the shutter on a background worker.
func (s *Shutter) Open() *task.Task {
	return task.Spawn(func() error {
		if err := s.WithLock(s.drv.Open); err != nil {
			return err
		}
		s.SetState(StateOpen)
		return nil
	})
}

// Close closes the shutter on a background worker.
func (s *Shutter) Close() *task.Task {
	return task.Spawn(func() error {
		if err := s.WithLock(s.drv.Close); err != nil {
			return err
		}
		s.SetState(StateClosed)
		return nil
	})
}

// IsOpen reports whether the shutter currently passes the beam.
func (s *Shutter) IsOpen() bool {
	return s.State() == StateOpen
}
