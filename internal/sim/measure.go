package sim

import (
	"sync"

	"github.com/concert-control/concert-go/pkg/param"
	"github.com/concert-control/concert-go/pkg/unit"
)

// GradientMeasure is a sharpness feedback with a single maximum at a
// configurable position. It reads the motor position through its
// parameter, the way a real measure would read a camera.
//
// The score falls off quadratically, so positions symmetric about the
// maximum score identically — the tied-score case focusing must not
// oscillate on.
type GradientMeasure struct {
	position *param.Parameter

	mu  sync.Mutex
	max unit.Value
}

// NewGradientMeasure creates a measure peaking at maxPosition.
func NewGradientMeasure(position *param.Parameter, maxPosition unit.Value) *GradientMeasure {
	return &GradientMeasure{position: position, max: maxPosition}
}

// MaxPosition returns the position of the feedback maximum.
func (g *GradientMeasure) MaxPosition() unit.Value {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.max
}

// SetMaxPosition moves the feedback maximum, possibly outside the motor's
// reachable range.
func (g *GradientMeasure) SetMaxPosition(maxPosition unit.Value) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.max = maxPosition
}

// Measure returns the sharpness score at the current motor position.
func (g *GradientMeasure) Measure() (float64, error) {
	pos, err := g.position.Get()
	if err != nil {
		return 0, err
	}

	g.mu.Lock()
	max := g.max
	g.mu.Unlock()

	d := pos.Magnitude() - max.Magnitude()
	return -(d * d), nil
}
