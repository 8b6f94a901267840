// Package config holds the boot-time machine description: axis wiring and
// motion limits, the peripheral pin map, and the JSON loader used by hosts
// that carry an overriding config file. MCU builds ship Default().
package config

import (
	"encoding/json"
	"errors"

	"labact/core"
)

// AxisConfig describes one stepper axis.
type AxisConfig struct {
	StepPin    uint8 `json:"step_pin"`
	DirPin     uint8 `json:"dir_pin"`
	EnablePin  uint8 `json:"enable_pin"`
	EndstopPin uint8 `json:"endstop_pin"`

	StepsPerRev uint32 `json:"steps_per_rev"`

	MaxSpeed    float64 `json:"max_speed"`
	Accel       float64 `json:"accel"`
	HomingSpeed float64 `json:"homing_speed"`

	// Endstop polarity: "npn" pulls low when triggered, "pnp" drives high
	EndstopType string `json:"endstop_type"`

	// Power policy: "always_on" or "on_demand"
	Power string `json:"power"`
}

// MachineConfig is the full machine description.
type MachineConfig struct {
	Axes map[string]AxisConfig `json:"axes"`

	ClampSensorPin uint8 `json:"clamp_sensor_pin"`

	PumpPin   uint8    `json:"pump_pin"`
	ValvePins [3]uint8 `json:"valve_pins"`

	// Safety budget for pump and valves in the open state, 0 disables it
	OutputMaxOnMS uint32 `json:"output_max_on_ms"`

	ScaleClockPin uint8   `json:"scale_clock_pin"`
	ScaleDataPin  uint8   `json:"scale_data_pin"`
	ScaleFactor   float64 `json:"scale_factor"`

	WastePin  uint8    `json:"waste_pin"`
	RotorPins [4]uint8 `json:"rotor_pins"`
}

// Axis names used in config files, matching the wire command vocabulary.
var axisKeys = [core.NumAxes]string{"multi", "multizone", "rright", "clamp0", "clamp1"}

// Load parses a JSON machine description and fills in defaults for any
// field left at its zero value.
func Load(jsonData []byte) (*MachineConfig, error) {
	var cfg MachineConfig
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, err
	}
	for _, key := range axisKeys {
		if _, ok := cfg.Axes[key]; !ok {
			return nil, errors.New("config: missing axis " + key)
		}
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills in missing configuration values.
func applyDefaults(cfg *MachineConfig) {
	for name, axis := range cfg.Axes {
		if axis.StepsPerRev == 0 {
			axis.StepsPerRev = 200
		}
		if axis.MaxSpeed == 0 {
			axis.MaxSpeed = 1000.0
		}
		if axis.HomingSpeed == 0 {
			axis.HomingSpeed = axis.MaxSpeed / 2
		}
		if axis.EndstopType == "" {
			axis.EndstopType = "npn"
		}
		if axis.Power == "" {
			axis.Power = "always_on"
		}
		cfg.Axes[name] = axis
	}
	if cfg.ScaleFactor == 0 {
		cfg.ScaleFactor = 1.0
	}
}

// Default returns the shipped wiring of the controller board. Every
// peripheral sits on the RP2040 GPIO bank, pins GP0 through GP29.
func Default() *MachineConfig {
	return &MachineConfig{
		Axes: map[string]AxisConfig{
			"multi": {
				StepPin:     0,
				DirPin:      1,
				EnablePin:   2,
				EndstopPin:  3,
				StepsPerRev: 200,
				MaxSpeed:    6000.0,
				Accel:       5000.0,
				HomingSpeed: 6000.0,
				EndstopType: "pnp",
				Power:       "always_on",
			},
			"multizone": {
				StepPin:     4,
				DirPin:      5,
				EnablePin:   6,
				EndstopPin:  7,
				StepsPerRev: 200,
				MaxSpeed:    600.0,
				Accel:       800.0,
				HomingSpeed: 400.0,
				EndstopType: "npn",
				Power:       "always_on",
			},
			"rright": {
				StepPin:     8,
				DirPin:      9,
				EnablePin:   10,
				EndstopPin:  7,
				StepsPerRev: 200,
				MaxSpeed:    30000.0,
				Accel:       2000.0,
				HomingSpeed: 2000.0,
				EndstopType: "npn",
				Power:       "always_on",
			},
			"clamp0": {
				StepPin:     12,
				DirPin:      13,
				EnablePin:   14,
				EndstopPin:  15,
				StepsPerRev: 200,
				MaxSpeed:    2000.0,
				Accel:       2000.0,
				HomingSpeed: 1000.0,
				EndstopType: "npn",
				Power:       "on_demand",
			},
			"clamp1": {
				StepPin:     16,
				DirPin:      17,
				EnablePin:   18,
				EndstopPin:  15,
				StepsPerRev: 200,
				MaxSpeed:    2000.0,
				Accel:       2000.0,
				HomingSpeed: 1000.0,
				EndstopType: "npn",
				Power:       "on_demand",
			},
		},

		ClampSensorPin: 15,

		PumpPin:       19,
		ValvePins:     [3]uint8{20, 21, 22},
		OutputMaxOnMS: 0,

		ScaleClockPin: 28,
		ScaleDataPin:  29,
		ScaleFactor:   1.0,

		WastePin:  23,
		RotorPins: [4]uint8{24, 25, 26, 27},
	}
}

// AxisConfigs translates the machine description into the core axis table.
func (cfg *MachineConfig) AxisConfigs() ([core.NumAxes]core.AxisConfig, error) {
	var out [core.NumAxes]core.AxisConfig
	for id := core.AxisID(0); id < core.NumAxes; id++ {
		axis, ok := cfg.Axes[axisKeys[id]]
		if !ok {
			return out, errors.New("config: missing axis " + axisKeys[id])
		}

		polarity := core.ActiveLow
		switch axis.EndstopType {
		case "npn", "":
			polarity = core.ActiveLow
		case "pnp":
			polarity = core.ActiveHigh
		default:
			return out, errors.New("config: bad endstop_type for " + axisKeys[id])
		}

		power := core.PowerAlwaysOn
		switch axis.Power {
		case "always_on", "":
			power = core.PowerAlwaysOn
		case "on_demand":
			power = core.PowerOnDemand
		default:
			return out, errors.New("config: bad power for " + axisKeys[id])
		}

		out[id] = core.AxisConfig{
			StepPin:     core.GPIOPin(axis.StepPin),
			DirPin:      core.GPIOPin(axis.DirPin),
			EnablePin:   core.GPIOPin(axis.EnablePin),
			EndstopPin:  core.GPIOPin(axis.EndstopPin),
			StepsPerRev: axis.StepsPerRev,
			MaxSpeed:    axis.MaxSpeed,
			Accel:       axis.Accel,
			HomingSpeed: axis.HomingSpeed,
			Endstop:     polarity,
			Power:       power,
		}
	}
	return out, nil
}
