// Package monochromator provides a photon-energy selection device.
//
// The energy parameter drives the hardware through a calibration; the
// wavelength parameter is derived from it through E = hc/lambda, so
// setting either moves the same physical crystal.
package monochromator

import (
	"github.com/concert-control/concert-go/pkg/calib"
	"github.com/concert-control/concert-go/pkg/device"
	"github.com/concert-control/concert-go/pkg/log"
	"github.com/concert-control/concert-go/pkg/param"
	"github.com/concert-control/concert-go/pkg/unit"
)

// hc is the photon energy-wavelength product in eV*m.
const hc = 1.239841984e-6

// Driver is the capability a physical monochromator controller must
// provide. Energies are in the driver's raw units.
type Driver interface {
	Energy() (float64, error)
	SetEnergy(energy float64) error
}

// Monochromator selects the photon energy of the beam.
type Monochromator struct {
	*device.Device

	drv Driver
	cal calib.Calibration
}

// New creates a monochromator over the given driver. The limiter, if
// non-nil, bounds the user-space energy.
func New(name string, drv Driver, cal calib.Calibration, limiter param.Limiter, logger log.Logger) (*Monochromator, error) {
	m := &Monochromator{
		Device: device.New(name, logger),
		drv:    drv,
		cal:    cal,
	}

	energy := param.New(&param.Metadata{
		Name:        "energy",
		Dim:         unit.Energy,
		Get:         m.calibratedEnergy,
		Set:         m.setCalibratedEnergy,
		Limiter:     limiter,
		Description: "Photon energy",
	})
	if err := m.Add(energy); err != nil {
		return nil, err
	}

	wavelength := param.New(&param.Metadata{
		Name:        "wavelength",
		Dim:         unit.Length,
		Get:         m.wavelength,
		Set:         m.setWavelength,
		Description: "Photon wavelength",
	})
	if err := m.Add(wavelength); err != nil {
		return nil, err
	}
	return m, nil
}

// Energy returns the selected photon energy.
func (m *Monochromator) Energy() (unit.Value, error) {
	return m.Get("energy")
}

// SetEnergy selects a photon energy and blocks until applied.
func (m *Monochromator) SetEnergy(energy unit.Value) error {
	return m.Set("energy", energy)
}

// Wavelength returns the selected photon wavelength.
func (m *Monochromator) Wavelength() (unit.Value, error) {
	return m.Get("wavelength")
}

// SetWavelength selects a photon wavelength and blocks until applied.
func (m *Monochromator) SetWavelength(wavelength unit.Value) error {
	return m.Set("wavelength", wavelength)
}

func (m *Monochromator) calibratedEnergy() (unit.Value, error) {
	var raw float64
	err := m.WithLock(func() error {
		var err error
		raw, err = m.drv.Energy()
		return err
	})
	if err != nil {
		return unit.Value{}, err
	}
	return m.cal.ToUser(raw), nil
}

func (m *Monochromator) setCalibratedEnergy(energy unit.Value) error {
	return m.WithLock(func() error {
		return m.drv.SetEnergy(m.cal.ToSteps(energy))
	})
}

// wavelength composes over the energy accessors so the two parameters
// can never disagree about the crystal position.
func (m *Monochromator) wavelength() (unit.Value, error) {
	energy, err := m.calibratedEnergy()
	if err != nil {
		return unit.Value{}, err
	}
	return unit.Meters(hc / energy.Magnitude()), nil
}

func (m *Monochromator) setWavelength(wavelength unit.Value) error {
	return m.setCalibratedEnergy(unit.ElectronVolts(hc / wavelength.Magnitude()))
}
