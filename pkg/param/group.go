package param

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/concert-control/concert-go/pkg/task"
	"github.com/concert-control/concert-go/pkg/unit"
)

// Group errors.
var (
	ErrUnknownParameter   = errors.New("unknown parameter")
	ErrDuplicateParameter = errors.New("duplicate parameter name")
)

// Group is a named collection of parameters with generic get/set access.
// It owns its parameters exclusively: a parameter belongs to at most one
// group.
type Group struct {
	name string

	mu     sync.RWMutex
	params map[string]*Parameter
}

// NewGroup creates an empty parameter group.
func NewGroup(name string) *Group {
	return &Group{
		name:   name,
		params: make(map[string]*Parameter),
	}
}

// Name returns the group name.
func (g *Group) Name() string {
	return g.name
}

// Add registers a parameter. Adding a second parameter with the same name
// fails with ErrDuplicateParameter.
func (g *Group) Add(p *Parameter) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.params[p.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateParameter, p.Name())
	}
	p.setOwner(g.name)
	g.params[p.Name()] = p
	return nil
}

// Param returns the parameter object itself, for composition such as
// wiring a feedback measure directly to a motor's position parameter.
func (g *Group) Param(name string) (*Parameter, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	p, exists := g.params[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownParameter, g.name, name)
	}
	return p, nil
}

// Get returns the current value of the named parameter.
func (g *Group) Get(name string) (unit.Value, error) {
	p, err := g.Param(name)
	if err != nil {
		return unit.Value{}, err
	}
	return p.Get()
}

// Set applies a value to the named parameter and does not return until the
// mutation, including any chained validation and state transition, has
// completed or failed.
func (g *Group) Set(name string, value unit.Value) error {
	p, err := g.Param(name)
	if err != nil {
		return err
	}
	return p.Set(value)
}

// SetAsync schedules the set on a background worker and returns its handle
// immediately. Errors, including unknown names, propagate through Wait.
func (g *Group) SetAsync(name string, value unit.Value) *task.Task {
	return task.Spawn(func() error {
		return g.Set(name, value)
	})
}

// Names returns the parameter names in sorted order.
func (g *Group) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.params))
	for name := range g.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
