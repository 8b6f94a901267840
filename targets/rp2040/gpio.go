//go:build rp2040

package main

import (
	"errors"

	"machine"

	"labact/core"
)

// maxGPIOPin is the highest pad the RP2040 GPIO bank exposes.
const maxGPIOPin core.GPIOPin = 29

var errPinOutOfRange = errors.New("gpio: pin beyond GP29")

// RPGPIODriver implements core.GPIODriver on the RP2040.
type RPGPIODriver struct {
	// Track configured pins to prevent conflicts
	configuredPins map[core.GPIOPin]machine.Pin
}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{
		configuredPins: make(map[core.GPIOPin]machine.Pin),
	}
}

// ConfigureOutput configures a pin as a digital output
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	if pin > maxGPIOPin {
		return errPinOutOfRange
	}
	if _, exists := d.configuredPins[pin]; exists {
		// Already configured, this is OK
		return nil
	}

	machinePin := d.pinNumberToMachinePin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configuredPins[pin] = machinePin
	return nil
}

// ConfigureInputPullUp configures a pin as an input with pull-up. All
// endstops and binary sensors on this board are wired against a pull-up.
func (d *RPGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	if pin > maxGPIOPin {
		return errPinOutOfRange
	}
	if _, exists := d.configuredPins[pin]; exists {
		return nil
	}

	machinePin := d.pinNumberToMachinePin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	d.configuredPins[pin] = machinePin
	return nil
}

// SetPin sets the pin to high (true) or low (false)
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		// Pin isn't configured - configure it first
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
		machinePin = d.configuredPins[pin]
	}

	machinePin.Set(value)
	return nil
}

// GetPin reads the current pin state
func (d *RPGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		return false, nil
	}
	return machinePin.Get(), nil
}

// ReadPin is a convenience wrapper around GetPin
func (d *RPGPIODriver) ReadPin(pin core.GPIOPin) bool {
	value, _ := d.GetPin(pin)
	return value
}

// pinNumberToMachinePin converts a pin to a machine.Pin.
// On RP2040 pins map directly to GPIO numbers.
func (d *RPGPIODriver) pinNumberToMachinePin(pin core.GPIOPin) machine.Pin {
	return machine.Pin(pin)
}
