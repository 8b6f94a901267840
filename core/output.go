// Digital output helpers for the pump and the valves.
package core

// DigitalOutput is a configured GPIO output with an optional max-duration
// safety: if the pin stays in its non-default state longer than the budget,
// a scheduled timer returns it to the default. That keeps a valve or the
// pump from being left open when the host stops talking mid-sequence.
type DigitalOutput struct {
	pin         GPIOPin
	on          bool
	defaultOn   bool
	maxDuration uint32 // ms in non-default state, 0 = unlimited
	timer       Timer
	scheduled   bool
}

func NewDigitalOutput(pin GPIOPin, defaultOn bool, maxDurationMS uint32) *DigitalOutput {
	d := &DigitalOutput{
		pin:         pin,
		defaultOn:   defaultOn,
		maxDuration: maxDurationMS,
	}
	d.timer.Handler = d.expireEvent
	return d
}

// Configure claims the pin and drives it to the default state.
func (d *DigitalOutput) Configure() error {
	if err := MustGPIO().ConfigureOutput(d.pin); err != nil {
		return err
	}
	d.on = d.defaultOn
	return MustGPIO().SetPin(d.pin, d.defaultOn)
}

// Set drives the pin and arms or disarms the max-duration timer.
func (d *DigitalOutput) Set(on bool) error {
	if err := MustGPIO().SetPin(d.pin, on); err != nil {
		return err
	}
	d.on = on

	if d.scheduled {
		CancelTimer(&d.timer)
		d.scheduled = false
	}
	if d.maxDuration != 0 && on != d.defaultOn {
		d.timer.WakeTime = GetTime() + d.maxDuration
		ScheduleTimer(&d.timer)
		d.scheduled = true
	}
	return nil
}

// Toggle inverts the pin state.
func (d *DigitalOutput) Toggle() error {
	return d.Set(!d.on)
}

// On reports the commanded pin state.
func (d *DigitalOutput) On() bool {
	return d.on
}

// expireEvent returns the pin to its default state once the max-duration
// budget runs out.
func (d *DigitalOutput) expireEvent(t *Timer) uint8 {
	d.scheduled = false
	d.on = d.defaultOn
	_ = MustGPIO().SetPin(d.pin, d.defaultOn)
	DebugPrintln("output pin " + itoa(int64(d.pin)) + ": max duration expired")
	return SF_DONE
}
