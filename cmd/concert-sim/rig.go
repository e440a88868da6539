package main

import (
	"fmt"
	"sort"

	"github.com/concert-control/concert-go/internal/sim"
	"github.com/concert-control/concert-go/pkg/calib"
	"github.com/concert-control/concert-go/pkg/device"
	"github.com/concert-control/concert-go/pkg/focus"
	"github.com/concert-control/concert-go/pkg/log"
	"github.com/concert-control/concert-go/pkg/monochromator"
	"github.com/concert-control/concert-go/pkg/motor"
	"github.com/concert-control/concert-go/pkg/param"
	"github.com/concert-control/concert-go/pkg/shutter"
	"github.com/concert-control/concert-go/pkg/unit"
)

// Rig is the set of simulated devices built from the configuration.
type Rig struct {
	Motors         map[string]*motor.Motor
	Shutters       map[string]*shutter.Shutter
	Monochromators map[string]*monochromator.Monochromator

	Focuser    *focus.Focuser
	FocusMotor string
	Measure    *sim.GradientMeasure
}

// BuildRig creates the simulated devices. Every parameter of every
// device gets the given observers subscribed, on top of the event
// logger wired into the devices themselves.
func BuildRig(cfg *Config, logger log.Logger, observers ...param.Observer) (*Rig, error) {
	r := &Rig{
		Motors:         make(map[string]*motor.Motor),
		Shutters:       make(map[string]*shutter.Shutter),
		Monochromators: make(map[string]*monochromator.Monochromator),
	}

	for _, mc := range cfg.Motors {
		drv := sim.NewMotorDriver(mc.LowerSteps, mc.UpperSteps)
		cal := calib.NewLinear(mc.StepsPerMM*1e3, mc.OffsetMM*1e-3, unit.Length)

		var limiter param.Limiter
		if mc.SoftLowerMM != nil && mc.SoftUpperMM != nil {
			limiter = sim.RangeLimiter(
				unit.Millimeters(*mc.SoftLowerMM),
				unit.Millimeters(*mc.SoftUpperMM))
		}

		m, err := motor.New(mc.Name, drv, cal, limiter, logger)
		if err != nil {
			return nil, fmt.Errorf("motor %s: %w", mc.Name, err)
		}
		r.Motors[mc.Name] = m
	}

	for _, sc := range cfg.Shutters {
		r.Shutters[sc.Name] = shutter.New(sc.Name, sim.NewShutterDriver(), logger)
	}

	for _, mc := range cfg.Monochromators {
		drv := sim.NewMonochromatorDriver(mc.EnergyKeV * 1e3)
		m, err := monochromator.New(mc.Name, drv, calib.Identity{Dim: unit.Energy}, nil, logger)
		if err != nil {
			return nil, fmt.Errorf("monochromator %s: %w", mc.Name, err)
		}
		r.Monochromators[mc.Name] = m
	}

	if cfg.Focus != nil {
		m := r.Motors[cfg.Focus.Motor]
		position, err := m.Param("position")
		if err != nil {
			return nil, err
		}
		r.Measure = sim.NewGradientMeasure(position, unit.Millimeters(cfg.Focus.MaxMM))
		r.Focuser = focus.NewFocuser(m, unit.Millimeters(cfg.Focus.EpsilonMM), r.Measure.Measure)
		r.FocusMotor = cfg.Focus.Motor
	}

	for _, d := range r.devices() {
		for _, name := range d.Names() {
			p, err := d.Param(name)
			if err != nil {
				return nil, err
			}
			for _, obs := range observers {
				p.Subscribe(obs)
			}
		}
	}
	return r, nil
}

// Device looks a device up by name across all kinds.
func (r *Rig) Device(name string) (*device.Device, bool) {
	if m, ok := r.Motors[name]; ok {
		return m.Device, true
	}
	if s, ok := r.Shutters[name]; ok {
		return s.Device, true
	}
	if m, ok := r.Monochromators[name]; ok {
		return m.Device, true
	}
	return nil, false
}

// Names returns all device names, sorted.
func (r *Rig) Names() []string {
	var names []string
	for _, d := range r.devices() {
		names = append(names, d.Name())
	}
	sort.Strings(names)
	return names
}

func (r *Rig) devices() []*device.Device {
	var devs []*device.Device
	for _, m := range r.Motors {
		devs = append(devs, m.Device)
	}
	for _, s := range r.Shutters {
		devs = append(devs, s.Device)
	}
	for _, m := range r.Monochromators {
		devs = append(devs, m.Device)
	}
	return devs
}
