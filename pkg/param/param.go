package param

import (
	"errors"
	"fmt"
	"sync"

	"github.com/concert-control/concert-go/pkg/unit"
)

// Parameter errors.
var (
	ErrReadOnly      = errors.New("parameter is read-only")
	ErrOwnerOnly     = errors.New("parameter is writable by its owner only")
	ErrLimitRejected = errors.New("value rejected by limiter")
)

// Limiter validates a candidate value before it is applied.
// Returning false refuses the write without touching the device.
type Limiter func(value unit.Value) bool

// Observer is notified when a parameter value changes.
type Observer interface {
	// OnParameterChanged is called synchronously after the underlying
	// mutation succeeded. Owner is the name of the owning group.
	OnParameterChanged(owner, name string, value unit.Value)
}

// Metadata describes a parameter at construction time. Name and Dim are
// the parameter's immutable identity; the accessors close over the value,
// which lives in the owning object, not in the Parameter itself.
type Metadata struct {
	// Name is the parameter name, unique within its owner.
	Name string

	// Dim is the dimension values must carry. Dimensionless accepts
	// bare numbers only.
	Dim unit.Dim

	// Get reads the current value. Required.
	Get func() (unit.Value, error)

	// Set applies a new value. Nil makes the parameter read-only.
	Set func(value unit.Value) error

	// Limiter optionally validates candidate values before Set runs.
	Limiter Limiter

	// OwnerOnly forbids external writes; only the owning device may
	// update the value through SetInternal.
	OwnerOnly bool

	// Description is a human-readable description.
	Description string
}

// Parameter is a named, typed, observable slot backed by getter/setter
// closures. Identity (name, dimension) is immutable for its lifetime.
type Parameter struct {
	meta  Metadata
	owner string

	mu        sync.Mutex
	observers []Observer
}

// New creates a parameter from its metadata.
func New(meta *Metadata) *Parameter {
	return &Parameter{meta: *meta}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.meta.Name
}

// Dim returns the dimension values must carry.
func (p *Parameter) Dim() unit.Dim {
	return p.meta.Dim
}

// Description returns the human-readable description.
func (p *Parameter) Description() string {
	return p.meta.Description
}

// Owner returns the name of the owning group, or "" before the parameter
// has been added to one.
func (p *Parameter) Owner() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.owner
}

// Writable reports whether the parameter has a setter at all.
func (p *Parameter) Writable() bool {
	return p.meta.Set != nil
}

// Get returns the current value via the getter closure.
func (p *Parameter) Get() (unit.Value, error) {
	return p.meta.Get()
}

// Set validates and applies a new value. It fails with ErrReadOnly when no
// setter exists, ErrOwnerOnly when external writes are forbidden,
// unit.ErrDimensionMismatch on a wrong dimension and ErrLimitRejected when
// the limiter refuses the candidate. Observers run synchronously, in
// subscription order, only after the setter succeeded.
func (p *Parameter) Set(value unit.Value) error {
	if p.meta.OwnerOnly {
		return fmt.Errorf("%w: %s", ErrOwnerOnly, p.meta.Name)
	}
	return p.SetInternal(value)
}

// SetInternal applies a value without the owner-only check. Devices use it
// to update parameters they own. Dimension and limiter validation still
// apply.
func (p *Parameter) SetInternal(value unit.Value) error {
	if p.meta.Set == nil {
		return fmt.Errorf("%w: %s", ErrReadOnly, p.meta.Name)
	}
	if value.Dim() != p.meta.Dim {
		return fmt.Errorf("%w: %s expects %q, got %q",
			unit.ErrDimensionMismatch, p.meta.Name, p.meta.Dim, value.Dim())
	}
	if p.meta.Limiter != nil && !p.meta.Limiter(value) {
		return fmt.Errorf("%w: %s = %s", ErrLimitRejected, p.meta.Name, value)
	}

	if err := p.meta.Set(value); err != nil {
		return err
	}

	p.notify(value)
	return nil
}

// Notify re-broadcasts the current value to observers. It is used when the
// value changed as a side effect of another operation (for example a state
// transition during a move) rather than through Set.
func (p *Parameter) Notify() error {
	value, err := p.meta.Get()
	if err != nil {
		return err
	}
	p.notify(value)
	return nil
}

// Subscribe adds an observer for change notifications.
func (p *Parameter) Subscribe(obs Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, obs)
}

// Unsubscribe removes an observer.
func (p *Parameter) Unsubscribe(obs Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, o := range p.observers {
		if o == obs {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			return
		}
	}
}

func (p *Parameter) notify(value unit.Value) {
	p.mu.Lock()
	obs := make([]Observer, len(p.observers))
	copy(obs, p.observers)
	owner := p.owner
	p.mu.Unlock()

	for _, o := range obs {
		o.OnParameterChanged(owner, p.meta.Name, value)
	}
}

func (p *Parameter) setOwner(owner string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.owner = owner
}
