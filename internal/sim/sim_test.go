package sim

import (
	"math"
	"testing"

	"github.com/concert-control/concert-go/pkg/param"
	"github.com/concert-control/concert-go/pkg/unit"
)

func TestMotorDriverClamping(t *testing.T) {
	d := NewMotorDriver(-100, 100)

	tests := []struct {
		name   string
		target float64
		want   float64
		limit  bool
	}{
		{"InRange", 50, 50, false},
		{"AboveUpper", 150, 100, true},
		{"BelowLower", -150, -100, true},
		{"AtUpper", 100, 100, true},
		{"BackInRange", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.SetPosition(tt.target); err != nil {
				t.Fatalf("SetPosition failed: %v", err)
			}
			pos, _ := d.Position()
			if pos != tt.want {
				t.Errorf("Position = %v, want %v", pos, tt.want)
			}
			limit, _ := d.InHardLimit()
			if limit != tt.limit {
				t.Errorf("InHardLimit = %v, want %v", limit, tt.limit)
			}
		})
	}
}

func TestMotorDriverHome(t *testing.T) {
	d := NewMotorDriver(-100, 100)
	d.Place(42)

	if err := d.Home(); err != nil {
		t.Fatalf("Home failed: %v", err)
	}
	if pos, _ := d.Position(); pos != 0 {
		t.Errorf("Position after Home = %v, want 0", pos)
	}
}

func TestGradientMeasurePeaksAtMax(t *testing.T) {
	pos := unit.Millimeters(0)
	p := param.New(&param.Metadata{
		Name: "position",
		Dim:  unit.Length,
		Get:  func() (unit.Value, error) { return pos, nil },
		Set:  func(v unit.Value) error { pos = v; return nil },
	})

	m := NewGradientMeasure(p, unit.Millimeters(10))

	score := func(mm float64) float64 {
		pos = unit.Millimeters(mm)
		s, err := m.Measure()
		if err != nil {
			t.Fatalf("Measure failed: %v", err)
		}
		return s
	}

	atMax := score(10)
	off := score(12)
	if off >= atMax {
		t.Errorf("score(12) = %v >= score(10) = %v", off, atMax)
	}

	// Symmetric positions score identically.
	left, right := score(8), score(12)
	if math.Abs(left-right) > 1e-12 {
		t.Errorf("symmetric scores differ: %v vs %v", left, right)
	}
}

func TestRangeLimiter(t *testing.T) {
	inRange := RangeLimiter(unit.Millimeters(25), unit.Millimeters(75))

	if !inRange(unit.Millimeters(25)) || !inRange(unit.Millimeters(75)) || !inRange(unit.Millimeters(50)) {
		t.Error("values inside the range rejected")
	}
	if inRange(unit.Millimeters(24.9)) || inRange(unit.Millimeters(75.1)) {
		t.Error("values outside the range accepted")
	}
}

func TestShutterDriver(t *testing.T) {
	d := NewShutterDriver()
	if d.IsOpen() {
		t.Error("new shutter is open")
	}
	if err := d.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !d.IsOpen() {
		t.Error("shutter closed after Open")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if d.IsOpen() {
		t.Error("shutter open after Close")
	}
}
