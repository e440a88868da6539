// Package calib converts between user-facing units and raw device units.
//
// Calibrations are pure and stateless: they hold no locks and touch no
// hardware. Every implementation must satisfy the round-trip law
// ToSteps(ToUser(x)) == x for all representable x.
package calib

import "github.com/concert-control/concert-go/pkg/unit"

// Calibration converts between user units and device steps.
type Calibration interface {
	// ToUser returns the raw device value in user units.
	ToUser(steps float64) unit.Value

	// ToSteps returns the user value in raw device units.
	ToSteps(value unit.Value) float64
}

// Linear maps a number of device steps to a real-world unit.
//
// StepsPerUnit tells how many steps correspond to one canonical unit of
// Dim; Offset is how far, in user units, the device zero is from the
// real-world zero.
type Linear struct {
	StepsPerUnit float64
	Offset       float64
	Dim          unit.Dim
}

// NewLinear creates a linear calibration for the given dimension.
func NewLinear(stepsPerUnit, offset float64, dim unit.Dim) Linear {
	return Linear{StepsPerUnit: stepsPerUnit, Offset: offset, Dim: dim}
}

// ToUser returns steps converted to user units.
func (c Linear) ToUser(steps float64) unit.Value {
	return unit.New(steps/c.StepsPerUnit-c.Offset, c.Dim)
}

// ToSteps returns the user value converted to device steps.
func (c Linear) ToSteps(value unit.Value) float64 {
	return (value.Magnitude() + c.Offset) * c.StepsPerUnit
}

// Identity maps steps one-to-one onto the canonical unit of Dim.
// Simulated devices that already operate in user units use it.
type Identity struct {
	Dim unit.Dim
}

// ToUser returns steps tagged with the calibration's dimension.
func (c Identity) ToUser(steps float64) unit.Value {
	return unit.New(steps, c.Dim)
}

// ToSteps returns the magnitude unchanged.
func (c Identity) ToSteps(value unit.Value) float64 {
	return value.Magnitude()
}
