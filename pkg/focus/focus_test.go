package focus

import (
	"math"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concert-control/concert-go/internal/sim"
	"github.com/concert-control/concert-go/pkg/calib"
	"github.com/concert-control/concert-go/pkg/motor"
	"github.com/concert-control/concert-go/pkg/param"
	"github.com/concert-control/concert-go/pkg/unit"
)

// epsilon terminates the climb once steps decay below a tenth of a
// millimetre; converged positions are asserted to within a millimetre.
var epsilon = unit.Millimeters(0.1)

type rig struct {
	motor   *motor.Motor
	driver  *sim.MotorDriver
	measure *sim.GradientMeasure
	focuser *Focuser
}

// newRig builds a focusing setup with one step per millimetre and hard
// limits at +-100 steps, so the reachable range is +-100 mm.
func newRig(t *testing.T, maxPosition unit.Value, limiter param.Limiter) *rig {
	t.Helper()

	drv := sim.NewMotorDriver(-100, 100)
	m, err := motor.New("focus-axis", drv, calib.NewLinear(1000, 0, unit.Length), limiter, nil)
	require.NoError(t, err)

	position, err := m.Param("position")
	require.NoError(t, err)

	measure := sim.NewGradientMeasure(position, maxPosition)
	return &rig{
		motor:   m,
		driver:  drv,
		measure: measure,
		focuser: NewFocuser(m, epsilon, measure.Measure),
	}
}

func (r *rig) positionMillimeters(t *testing.T) float64 {
	t.Helper()
	pos, err := r.motor.Position()
	require.NoError(t, err)
	return pos.Millimeters()
}

func TestFocusFindsMaximum(t *testing.T) {
	steps := []unit.Value{
		unit.Millimeters(10),
		unit.Millimeters(-10),
		unit.Millimeters(5),
		unit.Millimeters(-5),
		unit.Millimeters(2.5),
	}
	for _, step := range steps {
		t.Run(step.String(), func(t *testing.T) {
			r := newRig(t, unit.Millimeters(18.75), nil)

			require.NoError(t, r.focuser.Focus(step).Wait())
			assert.InDelta(t, 18.75, r.positionMillimeters(t), 1.0)
			assert.Equal(t, motor.StateStandby, r.motor.State())
		})
	}
}

func TestFocusWithHugeStep(t *testing.T) {
	r := newRig(t, unit.Millimeters(18.75), nil)

	require.NoError(t, r.focuser.Focus(unit.Millimeters(1000)).Wait())
	assert.InDelta(t, 18.75, r.positionMillimeters(t), 1.0)
}

func TestFocusMaximumBeyondHardLimits(t *testing.T) {
	cases := []struct {
		name   string
		max    unit.Value
		wantMM float64
	}{
		{"above upper", unit.Millimeters(150), 100},
		{"below lower", unit.Millimeters(-150), -100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, tc.max, nil)

			require.NoError(t, r.focuser.Focus(unit.Millimeters(10)).Wait())
			assert.InDelta(t, tc.wantMM, r.positionMillimeters(t), 1.0)
		})
	}
}

func TestFocusMaximumBeyondSoftLimits(t *testing.T) {
	limiter := sim.RangeLimiter(unit.Millimeters(25), unit.Millimeters(75))
	cases := []struct {
		name   string
		max    unit.Value
		wantMM float64
	}{
		{"above upper", unit.Millimeters(80), 75},
		{"below lower", unit.Millimeters(20), 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, tc.max, limiter)
			r.driver.Place(50)

			require.NoError(t, r.focuser.Focus(unit.Millimeters(10)).Wait())
			assert.InDelta(t, tc.wantMM, r.positionMillimeters(t), 1.0)
		})
	}
}

func TestFocusTiedScoresTerminate(t *testing.T) {
	// The first move lands symmetrically about the maximum, so both
	// positions score identically. The climb must not oscillate forever.
	r := newRig(t, unit.Millimeters(5), nil)

	require.NoError(t, r.focuser.Focus(unit.Millimeters(10)).Wait())
	assert.InDelta(t, 5, r.positionMillimeters(t), 1.0)
}

func TestFocusSaturatedWorkerPool(t *testing.T) {
	// Enough concurrent searches to occupy every worker slot. Each climb
	// must make progress on its own slot without waiting for a second
	// one, or the searches starve each other and none ever converges.
	n := runtime.NumCPU() + 2

	done := make(chan error, n)
	for i := 0; i < n; i++ {
		r := newRig(t, unit.Millimeters(18.75), nil)
		tk := r.focuser.Focus(unit.Millimeters(10))
		go func() { done <- tk.Wait() }()
	}

	for i := 0; i < n; i++ {
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(30 * time.Second):
			t.Fatal("focusing never completed with all worker slots occupied")
		}
	}
}

func TestFocusZeroStep(t *testing.T) {
	r := newRig(t, unit.Millimeters(18.75), nil)

	err := r.focuser.Focus(unit.Millimeters(0)).Wait()
	require.ErrorIs(t, err, ErrZeroStep)
	assert.Equal(t, 0.0, r.positionMillimeters(t))
}

func TestFocusScoreImproves(t *testing.T) {
	r := newRig(t, unit.Millimeters(18.75), nil)

	before, err := r.measure.Measure()
	require.NoError(t, err)

	require.NoError(t, r.focuser.Focus(unit.Millimeters(10)).Wait())

	after, err := r.measure.Measure()
	require.NoError(t, err)
	assert.Greater(t, after, before)
	assert.True(t, math.Abs(after) < math.Abs(before))
}
