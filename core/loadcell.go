// Load cell reading over the two-wire HX711 interface, bit-banged through
// the GPIO HAL.
package core

// hx711ReadyTimeout bounds the wait for the converter to signal a ready
// sample (data line low). A converter at the slow 10Hz rate produces a
// sample every 100ms; double that is a safe budget.
const hx711ReadyTimeout uint32 = 200 // ms

// LoadCell wraps one HX711-style weight sensor: tare offset, calibration
// factor and an optional periodic auto-report.
type LoadCell struct {
	clockPin GPIOPin
	dataPin  GPIOPin

	offset int64   // raw counts at zero load
	scale  float64 // raw counts per reported unit

	report    Timer
	reporting bool
	interval  uint32
	reportFn  func(units float64)
}

func NewLoadCell(clockPin, dataPin GPIOPin, scale float64) *LoadCell {
	lc := &LoadCell{
		clockPin: clockPin,
		dataPin:  dataPin,
		scale:    scale,
	}
	if lc.scale == 0 {
		lc.scale = 1
	}
	lc.report.Handler = lc.reportEvent
	return lc
}

// Configure claims the pins: clock output idle low, data input with
// pull-up.
func (lc *LoadCell) Configure() error {
	gpio := MustGPIO()
	if err := gpio.ConfigureOutput(lc.clockPin); err != nil {
		return err
	}
	if err := gpio.SetPin(lc.clockPin, false); err != nil {
		return err
	}
	return gpio.ConfigureInputPullUp(lc.dataPin)
}

// ReadRaw reads one signed 24-bit sample. Blocks until the converter is
// ready or the bounded wait expires.
func (lc *LoadCell) ReadRaw() (int64, error) {
	gpio := MustGPIO()

	start := GetTime()
	for gpio.ReadPin(lc.dataPin) {
		if GetTime()-start >= hx711ReadyTimeout {
			return 0, ErrTimeout
		}
	}

	var raw int64
	for i := 0; i < 24; i++ {
		gpio.SetPin(lc.clockPin, true)
		raw <<= 1
		if gpio.ReadPin(lc.dataPin) {
			raw |= 1
		}
		gpio.SetPin(lc.clockPin, false)
	}

	// One extra clock selects channel A, gain 128, for the next sample
	gpio.SetPin(lc.clockPin, true)
	gpio.SetPin(lc.clockPin, false)

	// Sign-extend the 24-bit two's complement value
	if raw&0x800000 != 0 {
		raw -= 0x1000000
	}
	return raw, nil
}

// ReadUnits averages samples and applies tare offset and scale factor.
func (lc *LoadCell) ReadUnits(samples int) (float64, error) {
	if samples < 1 {
		samples = 1
	}
	var sum int64
	for i := 0; i < samples; i++ {
		raw, err := lc.ReadRaw()
		if err != nil {
			return 0, err
		}
		sum += raw
	}
	avg := float64(sum) / float64(samples)
	return (avg - float64(lc.offset)) / lc.scale, nil
}

// Tare records the current average raw reading as the zero-load offset.
func (lc *LoadCell) Tare(samples int) error {
	if samples < 1 {
		samples = 1
	}
	var sum int64
	for i := 0; i < samples; i++ {
		raw, err := lc.ReadRaw()
		if err != nil {
			return err
		}
		sum += raw
	}
	lc.offset = sum / int64(samples)
	return nil
}

// SetScale replaces the calibration factor (raw counts per unit).
func (lc *LoadCell) SetScale(scale float64) {
	if scale == 0 {
		scale = 1
	}
	lc.scale = scale
}

func (lc *LoadCell) Scale() float64 { return lc.scale }
func (lc *LoadCell) Offset() int64  { return lc.offset }

// EnableAutoReport starts periodic weight reports through sink. The timer
// runs off the core scheduler, so reports keep flowing between commands
// and during blocking moves.
func (lc *LoadCell) EnableAutoReport(intervalMS uint32, sink func(units float64)) {
	if lc.reporting {
		CancelTimer(&lc.report)
	}
	lc.interval = intervalMS
	lc.reportFn = sink
	lc.reporting = true
	lc.report.WakeTime = GetTime() + intervalMS
	ScheduleTimer(&lc.report)
}

// DisableAutoReport stops the periodic reports.
func (lc *LoadCell) DisableAutoReport() {
	if lc.reporting {
		CancelTimer(&lc.report)
		lc.reporting = false
	}
}

func (lc *LoadCell) reportEvent(t *Timer) uint8 {
	if !lc.reporting {
		return SF_DONE
	}
	if units, err := lc.ReadUnits(1); err == nil && lc.reportFn != nil {
		lc.reportFn(units)
	}
	t.WakeTime = GetTime() + lc.interval
	return SF_RESCHEDULE
}
