package param

import (
	"errors"
	"reflect"
	"testing"

	"github.com/concert-control/concert-go/pkg/unit"
)

func newGroupWithSlot(t *testing.T) (*Group, *slot) {
	t.Helper()

	g := NewGroup("axis-x")
	s := &slot{value: unit.Millimeters(10)}
	if err := g.Add(s.param("position")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return g, s
}

func TestGroupGetSet(t *testing.T) {
	g, s := newGroupWithSlot(t)

	v, err := g.Get("position")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v.Millimeters() != 10 {
		t.Errorf("Get = %v mm, want 10 mm", v.Millimeters())
	}

	if err := g.Set("position", unit.Millimeters(20)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if s.value.Millimeters() != 20 {
		t.Errorf("value = %v mm, want 20 mm", s.value.Millimeters())
	}
}

func TestGroupUnknownParameter(t *testing.T) {
	g, _ := newGroupWithSlot(t)

	if _, err := g.Get("velocity"); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("Get unknown: error = %v, want ErrUnknownParameter", err)
	}
	if err := g.Set("velocity", unit.MetersPerSecond(1)); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("Set unknown: error = %v, want ErrUnknownParameter", err)
	}
	if _, err := g.Param("velocity"); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("Param unknown: error = %v, want ErrUnknownParameter", err)
	}
}

func TestGroupDuplicateName(t *testing.T) {
	g, s := newGroupWithSlot(t)

	err := g.Add(s.param("position"))
	if !errors.Is(err, ErrDuplicateParameter) {
		t.Errorf("Add duplicate: error = %v, want ErrDuplicateParameter", err)
	}
}

func TestGroupSetsOwner(t *testing.T) {
	g, _ := newGroupWithSlot(t)

	p, err := g.Param("position")
	if err != nil {
		t.Fatalf("Param failed: %v", err)
	}
	if p.Owner() != "axis-x" {
		t.Errorf("Owner() = %q, want %q", p.Owner(), "axis-x")
	}

	rec := &recorder{}
	p.Subscribe(rec)
	if err := g.Set("position", unit.Millimeters(1)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if len(rec.events) != 1 || rec.events[0] != "axis-x.position" {
		t.Errorf("notification = %v, want [axis-x.position]", rec.events)
	}
}

func TestGroupSetAsync(t *testing.T) {
	g, s := newGroupWithSlot(t)

	if err := g.SetAsync("position", unit.Millimeters(42)).Wait(); err != nil {
		t.Fatalf("SetAsync failed: %v", err)
	}
	if s.value.Millimeters() != 42 {
		t.Errorf("value = %v mm, want 42 mm", s.value.Millimeters())
	}

	err := g.SetAsync("missing", unit.Millimeters(1)).Wait()
	if !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("SetAsync unknown: error = %v, want ErrUnknownParameter", err)
	}
}

func TestGroupNames(t *testing.T) {
	g := NewGroup("dev")
	s := &slot{}
	for _, name := range []string{"velocity", "position", "state"} {
		if err := g.Add(s.param(name)); err != nil {
			t.Fatalf("Add(%s) failed: %v", name, err)
		}
	}

	want := []string{"position", "state", "velocity"}
	if got := g.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
