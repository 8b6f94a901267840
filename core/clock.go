package core

import "time"

// TicksPerSecond is the resolution of the control clock. All motion
// timeouts, the timer scheduler and the axis ramp math run on millisecond
// ticks.
const TicksPerSecond = 1000

var nowFunc = defaultTimeSource()

// GetTime returns the current controller time in milliseconds since boot.
func GetTime() uint32 {
	return nowFunc()
}

// SetTimeSource replaces the time source. Target code may install a
// hardware tick counter here; tests install a simulated clock.
func SetTimeSource(f func() uint32) {
	nowFunc = f
}

// defaultTimeSource works under both regular Go and TinyGo.
func defaultTimeSource() func() uint32 {
	epoch := time.Now()
	return func() uint32 {
		return uint32(time.Since(epoch) / time.Millisecond)
	}
}
