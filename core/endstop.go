// Endstop handling for the binary limit sensors.
// Sensors are wired against a pull-up; NPN types pull the line low when
// triggered, PNP types drive it high.
package core

// EndstopTriggered interprets a raw pin level for the given sensor
// polarity. Pure function, no hardware access.
func EndstopTriggered(rawHigh bool, p Polarity) bool {
	if p == ActiveLow {
		return !rawHigh
	}
	return rawHigh
}

// Endstop reads one limit sensor through the GPIO HAL.
type Endstop struct {
	pin      GPIOPin
	polarity Polarity
}

func NewEndstop(pin GPIOPin, polarity Polarity) *Endstop {
	return &Endstop{pin: pin, polarity: polarity}
}

// Configure sets up the sensor input with its pull-up.
func (e *Endstop) Configure() error {
	return MustGPIO().ConfigureInputPullUp(e.pin)
}

// Triggered reads the sensor and reports whether the limit is reached.
func (e *Endstop) Triggered() bool {
	return EndstopTriggered(MustGPIO().ReadPin(e.pin), e.polarity)
}

// Pin returns the sensor's input pin.
func (e *Endstop) Pin() GPIOPin {
	return e.pin
}
