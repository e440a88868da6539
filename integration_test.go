package concert_test

import (
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/concert-control/concert-go/internal/sim"
	"github.com/concert-control/concert-go/pkg/calib"
	"github.com/concert-control/concert-go/pkg/focus"
	"github.com/concert-control/concert-go/pkg/log"
	"github.com/concert-control/concert-go/pkg/motor"
	"github.com/concert-control/concert-go/pkg/shutter"
	"github.com/concert-control/concert-go/pkg/task"
	"github.com/concert-control/concert-go/pkg/unit"
)

// newAxis builds a motor with one step per millimetre and hard limits
// at +-100 mm, logging into the given logger.
func newAxis(t *testing.T, name string, logger log.Logger) *motor.Motor {
	t.Helper()

	drv := sim.NewMotorDriver(-100, 100)
	m, err := motor.New(name, drv, calib.NewLinear(1000, 0, unit.Length), nil, logger)
	if err != nil {
		t.Fatalf("motor.New failed: %v", err)
	}
	return m
}

// TestE2E_EventLog drives a motor into a hard limit and reads the whole
// story back from the on-disk event log.
func TestE2E_EventLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.clog")
	fl, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	m := newAxis(t, "axis-x", fl)
	p, err := m.Param("position")
	if err != nil {
		t.Fatalf("Param failed: %v", err)
	}
	p.Subscribe(log.NewParameterObserver(fl))

	if err := m.SetPosition(unit.Millimeters(10)); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}
	if err := m.SetPosition(unit.Millimeters(200)); !errors.Is(err, motor.ErrHardLimit) {
		t.Fatalf("SetPosition past limit: error = %v, want ErrHardLimit", err)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := log.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer r.Close()

	events, err := r.ReadAll(nil)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	var states []string
	var positions []float64
	for _, e := range events {
		switch e.Category {
		case log.CategoryState:
			states = append(states, e.NewState)
		case log.CategoryParameter:
			positions = append(positions, e.Value)
		}
	}

	wantStates := []string{"moving", "standby", "moving", "limit"}
	if len(states) != len(wantStates) {
		t.Fatalf("state transitions = %v, want %v", states, wantStates)
	}
	for i := range wantStates {
		if states[i] != wantStates[i] {
			t.Errorf("state[%d] = %q, want %q", i, states[i], wantStates[i])
		}
	}
	if len(positions) != 1 || positions[0] != 0.01 {
		t.Errorf("logged positions = %v, want [0.01]", positions)
	}

	// A filtered read sees only the state transitions.
	r2, err := log.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer r2.Close()

	category := log.CategoryState
	filtered, err := r2.ReadAll(&log.Filter{Device: "axis-x", Category: &category})
	if err != nil {
		t.Fatalf("filtered ReadAll failed: %v", err)
	}
	if len(filtered) != 4 {
		t.Errorf("filtered events = %d, want 4", len(filtered))
	}
}

// TestE2E_Focusing runs the focusing routine end to end over a
// simulated axis and sharpness measure.
func TestE2E_Focusing(t *testing.T) {
	m := newAxis(t, "focus-axis", nil)
	p, err := m.Param("position")
	if err != nil {
		t.Fatalf("Param failed: %v", err)
	}

	measure := sim.NewGradientMeasure(p, unit.Millimeters(18.75))
	f := focus.NewFocuser(m, unit.Millimeters(0.1), measure.Measure)

	if err := f.Focus(unit.Millimeters(10)).Wait(); err != nil {
		t.Fatalf("Focus failed: %v", err)
	}

	pos, err := m.Position()
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}
	if got := pos.Millimeters(); got < 17.75 || got > 19.75 {
		t.Errorf("converged at %v mm, want near 18.75 mm", got)
	}
	if m.State() != motor.StateStandby {
		t.Errorf("state = %q, want standby", m.State())
	}
}

// TestE2E_ConcurrentDevices moves several devices from several
// goroutines and waits for every spawned task.
func TestE2E_ConcurrentDevices(t *testing.T) {
	pool := task.NewPool(4)
	defer pool.Close()

	axes := make([]*motor.Motor, 3)
	for i := range axes {
		axes[i] = newAxis(t, "axis", nil)
	}
	sh := shutter.New("shutter", sim.NewShutterDriver(), nil)

	var mu sync.Mutex
	var tasks []*task.Task
	var wg sync.WaitGroup
	for _, m := range axes {
		for i := 1; i <= 5; i++ {
			wg.Add(1)
			go func(m *motor.Motor, mm float64) {
				defer wg.Done()
				tk := pool.Spawn(func() error {
					return m.SetPosition(unit.Millimeters(mm))
				})
				mu.Lock()
				tasks = append(tasks, tk)
				mu.Unlock()
			}(m, float64(i))
		}
	}
	wg.Wait()

	tasks = append(tasks, sh.Open())
	for _, tk := range tasks {
		if err := tk.Wait(); err != nil {
			t.Errorf("task %s failed: %v", tk.ID(), err)
		}
	}

	for _, m := range axes {
		if m.State() != motor.StateStandby {
			t.Errorf("state = %q, want standby", m.State())
		}
		pos, err := m.Position()
		if err != nil {
			t.Fatalf("Position failed: %v", err)
		}
		if mm := pos.Millimeters(); mm < 0.999 || mm > 5.001 {
			t.Errorf("position = %v mm, want one of the requested targets", mm)
		}
	}
	if !sh.IsOpen() {
		t.Error("shutter closed after Open")
	}
}

// TestE2E_ReaderStream checks that the reader yields what was written
// and then a clean EOF.
func TestE2E_ReaderStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.clog")
	fl, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	fl.Log(log.WarningEvent("mono", "unknown state: tuned"))
	if err := fl.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := log.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer r.Close()

	e, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if e.Category != log.CategoryWarning || e.Device != "mono" {
		t.Errorf("event = %+v, want mono warning", e)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next at end = %v, want io.EOF", err)
	}
}
