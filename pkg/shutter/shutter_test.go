package shutter

import (
	"errors"
	"testing"

	"github.com/concert-control/concert-go/internal/sim"
)

func TestOpenClose(t *testing.T) {
	s := New("beam-shutter", sim.NewShutterDriver(), nil)

	if s.IsOpen() {
		t.Fatal("shutter starts open, want closed")
	}
	if s.State() != StateClosed {
		t.Fatalf("state = %q, want closed", s.State())
	}

	if err := s.Open().Wait(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !s.IsOpen() {
		t.Error("shutter reports closed after Open")
	}

	if err := s.Close().Wait(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if s.IsOpen() {
		t.Error("shutter reports open after Close")
	}
}

type failingDriver struct{ err error }

func (d failingDriver) Open() error  { return d.err }
func (d failingDriver) Close() error { return d.err }
func (d failingDriver) IsOpen() bool { return false }

func TestDriverErrorLeavesState(t *testing.T) {
	want := errors.New("stuck blade")
	s := New("beam-shutter", failingDriver{err: want}, nil)

	if err := s.Open().Wait(); !errors.Is(err, want) {
		t.Fatalf("Open error = %v, want %v", err, want)
	}
	if s.State() != StateClosed {
		t.Errorf("state = %q after failed open, want closed", s.State())
	}
}
