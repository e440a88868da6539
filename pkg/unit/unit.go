package unit

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch is returned when two values of different dimensions
// are combined or compared.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Dim identifies the physical dimension a Value carries.
type Dim uint8

const (
	// Dimensionless is a bare number.
	Dimensionless Dim = iota

	// Length is a distance, canonically in metres.
	Length

	// Time is a duration, canonically in seconds.
	Time

	// Velocity is a speed, canonically in metres per second.
	Velocity

	// Energy is a photon energy, canonically in electronvolts.
	Energy
)

// String returns the canonical unit symbol for the dimension.
func (d Dim) String() string {
	switch d {
	case Dimensionless:
		return ""
	case Length:
		return "m"
	case Time:
		return "s"
	case Velocity:
		return "m/s"
	case Energy:
		return "eV"
	default:
		return "?"
	}
}

// Value is a numeric magnitude tagged with a dimension. Magnitudes are
// stored in the dimension's canonical unit. Value is a small immutable
// value type and safe to copy.
type Value struct {
	mag float64
	dim Dim
}

// New creates a value with the given magnitude in the dimension's
// canonical unit.
func New(mag float64, dim Dim) Value {
	return Value{mag: mag, dim: dim}
}

// Scalar creates a dimensionless value.
func Scalar(mag float64) Value {
	return Value{mag: mag, dim: Dimensionless}
}

// Meters creates a length value.
func Meters(m float64) Value {
	return Value{mag: m, dim: Length}
}

// Millimeters creates a length value from millimetres.
func Millimeters(mm float64) Value {
	return Value{mag: mm * 1e-3, dim: Length}
}

// Micrometers creates a length value from micrometres.
func Micrometers(um float64) Value {
	return Value{mag: um * 1e-6, dim: Length}
}

// Seconds creates a time value.
func Seconds(s float64) Value {
	return Value{mag: s, dim: Time}
}

// MetersPerSecond creates a velocity value.
func MetersPerSecond(v float64) Value {
	return Value{mag: v, dim: Velocity}
}

// ElectronVolts creates an energy value.
func ElectronVolts(ev float64) Value {
	return Value{mag: ev, dim: Energy}
}

// KiloElectronVolts creates an energy value from keV.
func KiloElectronVolts(kev float64) Value {
	return Value{mag: kev * 1e3, dim: Energy}
}

// Magnitude returns the magnitude in the canonical unit of the dimension.
func (v Value) Magnitude() float64 {
	return v.mag
}

// Dim returns the dimension tag.
func (v Value) Dim() Dim {
	return v.dim
}

// Millimeters returns a Length value expressed in millimetres.
// It does not check the dimension; callers use it on known lengths.
func (v Value) Millimeters() float64 {
	return v.mag * 1e3
}

// IsZero reports whether the magnitude is exactly zero.
func (v Value) IsZero() bool {
	return v.mag == 0
}

// Neg returns the value with the magnitude sign flipped.
func (v Value) Neg() Value {
	return Value{mag: -v.mag, dim: v.dim}
}

// Abs returns the value with a non-negative magnitude.
func (v Value) Abs() Value {
	return Value{mag: math.Abs(v.mag), dim: v.dim}
}

// Scale returns the value multiplied by a dimensionless factor.
func (v Value) Scale(f float64) Value {
	return Value{mag: v.mag * f, dim: v.dim}
}

// Add returns v + o. The dimensions must match.
func (v Value) Add(o Value) (Value, error) {
	if v.dim != o.dim {
		return Value{}, fmt.Errorf("%w: %s + %s", ErrDimensionMismatch, v.dim, o.dim)
	}
	return Value{mag: v.mag + o.mag, dim: v.dim}, nil
}

// Sub returns v - o. The dimensions must match.
func (v Value) Sub(o Value) (Value, error) {
	if v.dim != o.dim {
		return Value{}, fmt.Errorf("%w: %s - %s", ErrDimensionMismatch, v.dim, o.dim)
	}
	return Value{mag: v.mag - o.mag, dim: v.dim}, nil
}

// Less reports whether v < o. The dimensions must match.
func (v Value) Less(o Value) (bool, error) {
	if v.dim != o.dim {
		return false, fmt.Errorf("%w: %s vs %s", ErrDimensionMismatch, v.dim, o.dim)
	}
	return v.mag < o.mag, nil
}

// String formats the value with its canonical unit symbol.
func (v Value) String() string {
	if v.dim == Dimensionless {
		return fmt.Sprintf("%g", v.mag)
	}
	return fmt.Sprintf("%g %s", v.mag, v.dim)
}
