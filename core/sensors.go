// Binary auxiliary sensors: rotor position code and waste-level switch.
package core

// RotorSensor reads the 4-bit rotor position code. The state is reported as
// a string of '0'/'1' characters in pin order, matching the wire protocol.
type RotorSensor struct {
	pins [4]GPIOPin
}

func NewRotorSensor(pins [4]GPIOPin) *RotorSensor {
	return &RotorSensor{pins: pins}
}

func (r *RotorSensor) Configure() error {
	gpio := MustGPIO()
	for _, pin := range r.pins {
		if err := gpio.ConfigureInputPullUp(pin); err != nil {
			return err
		}
	}
	return nil
}

// State returns the raw 4-bit code, e.g. "0101".
func (r *RotorSensor) State() string {
	buf := make([]byte, 4)
	gpio := MustGPIO()
	for i, pin := range r.pins {
		if gpio.ReadPin(pin) {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}

// WasteSensor is the binary waste-container switch.
type WasteSensor struct {
	pin GPIOPin
}

func NewWasteSensor(pin GPIOPin) *WasteSensor {
	return &WasteSensor{pin: pin}
}

func (w *WasteSensor) Configure() error {
	return MustGPIO().ConfigureInputPullUp(w.pin)
}

// Raw returns the unfiltered pin level; the host owns the interpretation.
func (w *WasteSensor) Raw() bool {
	return MustGPIO().ReadPin(w.pin)
}
