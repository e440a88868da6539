// Package sim provides simulated drivers and feedback measures. They back
// the package tests and the concert-sim command; no hardware required.
package sim

import (
	"sync"

	"github.com/concert-control/concert-go/pkg/param"
	"github.com/concert-control/concert-go/pkg/unit"
)

// RangeLimiter returns a soft-limit predicate accepting values in the
// closed interval [lower, upper].
func RangeLimiter(lower, upper unit.Value) param.Limiter {
	return func(v unit.Value) bool {
		return v.Magnitude() >= lower.Magnitude() && v.Magnitude() <= upper.Magnitude()
	}
}

// ShutterDriver simulates a beam shutter.
type ShutterDriver struct {
	mu   sync.Mutex
	open bool
}

// NewShutterDriver creates a closed simulated shutter.
func NewShutterDriver() *ShutterDriver {
	return &ShutterDriver{}
}

// Open opens the shutter.
func (d *ShutterDriver) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	return nil
}

// Close closes the shutter.
func (d *ShutterDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	return nil
}

// IsOpen reports the simulated blade position.
func (d *ShutterDriver) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// MonochromatorDriver simulates a monochromator crystal.
type MonochromatorDriver struct {
	mu     sync.Mutex
	energy float64 // eV
}

// NewMonochromatorDriver creates a simulated monochromator at the given
// photon energy in eV.
func NewMonochromatorDriver(energy float64) *MonochromatorDriver {
	return &MonochromatorDriver{energy: energy}
}

// Energy returns the photon energy in raw device units.
func (d *MonochromatorDriver) Energy() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.energy, nil
}

// SetEnergy sets the photon energy in raw device units.
func (d *MonochromatorDriver) SetEnergy(energy float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.energy = energy
	return nil
}
