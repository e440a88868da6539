package device

import (
	"fmt"
	"sync"

	"github.com/concert-control/concert-go/pkg/log"
	"github.com/concert-control/concert-go/pkg/param"
	"github.com/concert-control/concert-go/pkg/unit"
)

// StateNA is the sentinel "not available" state every device starts in
// and always accepts.
const StateNA = "n/a"

// stateDim is the dimension the state parameter reports under. State
// labels travel through the parameter framework as dimensionless values,
// so observers receive the notification while the label itself is read
// via State().
const stateDim = unit.Dimensionless

// Device provides locked access to a real-world device and a read-only
// state parameter. Concrete devices embed it, extend the state-label set
// with DeclareStates and drive transitions with SetState.
type Device struct {
	*param.Group

	logger log.Logger

	mu sync.Mutex // the critical section guarding raw hardware access

	stateMu sync.Mutex
	state   string
	states  map[string]struct{}
}

// New creates a device with the given name. The state parameter is
// registered immediately, state starts as "n/a" and logger may be nil to
// disable event logging.
func New(name string, logger log.Logger) *Device {
	if logger == nil {
		logger = log.NoopLogger{}
	}

	d := &Device{
		Group:  param.NewGroup(name),
		logger: logger,
		state:  StateNA,
		states: map[string]struct{}{StateNA: {}},
	}

	// The state parameter is owner-only: callers cannot externally force
	// a device state, they can only observe it.
	stateParam := param.New(&param.Metadata{
		Name:        "state",
		Dim:         stateDim,
		Get:         d.stateValue,
		OwnerOnly:   true,
		Description: "Current state of the device",
	})
	// Adding to a fresh group cannot collide.
	_ = d.Add(stateParam)

	return d
}

// Logger returns the device's event logger.
func (d *Device) Logger() log.Logger {
	return d.logger
}

// WithLock runs fn inside the device's critical section. The lock is
// acquired unconditionally and released on every exit path, including
// when fn fails or panics. Every mutating operation that touches raw
// hardware state must go through here.
func (d *Device) WithLock(fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn()
}

// DeclareStates extends the set of valid state labels. Concrete devices
// call it at construction time.
func (d *Device) DeclareStates(labels ...string) {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	for _, label := range labels {
		d.states[label] = struct{}{}
	}
}

// State returns the current state label.
func (d *Device) State() string {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	return d.state
}

// SetState transitions the device to the given state and notifies the
// state parameter's observers. An unknown label is logged as a warning
// and otherwise ignored: drivers report state on a best-effort basis and
// a bogus label must not fail the operation that produced it.
func (d *Device) SetState(label string) {
	d.stateMu.Lock()
	if _, known := d.states[label]; !known {
		d.stateMu.Unlock()
		d.logger.Log(log.WarningEvent(d.Name(), fmt.Sprintf("state %q unknown", label)))
		return
	}
	old := d.state
	d.state = label
	d.stateMu.Unlock()

	d.logger.Log(log.StateEvent(d.Name(), old, label))

	if p, err := d.Param("state"); err == nil {
		_ = p.Notify()
	}
}

func (d *Device) stateValue() (unit.Value, error) {
	// The numeric payload is meaningless for states; observers react to
	// the notification and read State() for the label.
	return unit.Scalar(0), nil
}
