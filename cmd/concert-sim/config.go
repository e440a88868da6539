package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes the simulated rig.
type Config struct {
	// Rig names the setup; it prefixes all telemetry topics.
	Rig string `yaml:"rig"`

	// Events is the path of the binary event log. Empty disables it.
	Events string `yaml:"events"`

	MQTT MQTTConfig `yaml:"mqtt"`

	Motors         []MotorConfig         `yaml:"motors"`
	Shutters       []ShutterConfig       `yaml:"shutters"`
	Monochromators []MonochromatorConfig `yaml:"monochromators"`

	Focus *FocusConfig `yaml:"focus"`
}

// MQTTConfig enables telemetry when a broker is set.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// MotorConfig describes one simulated linear axis.
type MotorConfig struct {
	Name string `yaml:"name"`

	// StepsPerMM is the calibration slope; OffsetMM how far the device
	// zero sits from the real-world zero.
	StepsPerMM float64 `yaml:"steps_per_mm"`
	OffsetMM   float64 `yaml:"offset_mm"`

	// Hard travel range in raw steps.
	LowerSteps float64 `yaml:"lower_steps"`
	UpperSteps float64 `yaml:"upper_steps"`

	// Optional soft limits in user millimetres.
	SoftLowerMM *float64 `yaml:"soft_lower_mm"`
	SoftUpperMM *float64 `yaml:"soft_upper_mm"`
}

// ShutterConfig describes one simulated shutter.
type ShutterConfig struct {
	Name string `yaml:"name"`
}

// MonochromatorConfig describes one simulated monochromator.
type MonochromatorConfig struct {
	Name      string  `yaml:"name"`
	EnergyKeV float64 `yaml:"energy_kev"`
}

// FocusConfig attaches a focuser to one of the configured motors.
type FocusConfig struct {
	Motor     string  `yaml:"motor"`
	MaxMM     float64 `yaml:"max_mm"`
	EpsilonMM float64 `yaml:"epsilon_mm"`
}

// DefaultConfig is the rig used when no config file is given: one axis,
// one shutter, one monochromator and a focuser with its sharpness
// maximum inside the travel range.
func DefaultConfig() *Config {
	return &Config{
		Rig: "sim",
		Motors: []MotorConfig{
			{Name: "axis-x", StepsPerMM: 1, LowerSteps: -100, UpperSteps: 100},
		},
		Shutters: []ShutterConfig{
			{Name: "shutter"},
		},
		Monochromators: []MonochromatorConfig{
			{Name: "mono", EnergyKeV: 10},
		},
		Focus: &FocusConfig{Motor: "axis-x", MaxMM: 18.75, EpsilonMM: 0.01},
	}
}

// LoadConfig reads and validates a rig description.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Rig == "" {
		c.Rig = "sim"
	}

	names := make(map[string]bool)
	claim := func(name string) error {
		if name == "" {
			return fmt.Errorf("device without a name")
		}
		if names[name] {
			return fmt.Errorf("duplicate device name %q", name)
		}
		names[name] = true
		return nil
	}

	for i := range c.Motors {
		m := &c.Motors[i]
		if err := claim(m.Name); err != nil {
			return err
		}
		if m.StepsPerMM == 0 {
			m.StepsPerMM = 1
		}
		if m.LowerSteps >= m.UpperSteps {
			return fmt.Errorf("motor %s: lower_steps must be below upper_steps", m.Name)
		}
	}
	for _, s := range c.Shutters {
		if err := claim(s.Name); err != nil {
			return err
		}
	}
	for i := range c.Monochromators {
		m := &c.Monochromators[i]
		if err := claim(m.Name); err != nil {
			return err
		}
		if m.EnergyKeV == 0 {
			m.EnergyKeV = 10
		}
	}

	if c.Focus != nil {
		if !names[c.Focus.Motor] {
			return fmt.Errorf("focus: unknown motor %q", c.Focus.Motor)
		}
		if c.Focus.EpsilonMM <= 0 {
			c.Focus.EpsilonMM = 0.01
		}
	}
	return nil
}
