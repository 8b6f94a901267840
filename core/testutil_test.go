package core

import "testing"

// mockGPIO is a test implementation of GPIODriver. Outputs are recorded,
// inputs come from per-pin provider functions or scripted read queues.
type mockGPIO struct {
	pins    map[GPIOPin]bool
	inputs  map[GPIOPin]func() bool
	scripts map[GPIOPin][]bool
	writes  map[GPIOPin]int
	rises   map[GPIOPin]int
}

func newMockGPIO() *mockGPIO {
	return &mockGPIO{
		pins:    make(map[GPIOPin]bool),
		inputs:  make(map[GPIOPin]func() bool),
		scripts: make(map[GPIOPin][]bool),
		writes:  make(map[GPIOPin]int),
		rises:   make(map[GPIOPin]int),
	}
}

func (m *mockGPIO) ConfigureOutput(pin GPIOPin) error {
	m.pins[pin] = false
	return nil
}

func (m *mockGPIO) ConfigureInputPullUp(pin GPIOPin) error {
	// Pull-up wiring reads high until a provider says otherwise
	m.pins[pin] = true
	return nil
}

func (m *mockGPIO) SetPin(pin GPIOPin, value bool) error {
	if value && !m.pins[pin] {
		m.rises[pin]++
	}
	m.pins[pin] = value
	m.writes[pin]++
	return nil
}

func (m *mockGPIO) GetPin(pin GPIOPin) (bool, error) {
	if script, ok := m.scripts[pin]; ok && len(script) > 0 {
		v := script[0]
		m.scripts[pin] = script[1:]
		return v, nil
	}
	if f, ok := m.inputs[pin]; ok {
		return f(), nil
	}
	return m.pins[pin], nil
}

func (m *mockGPIO) ReadPin(pin GPIOPin) bool {
	v, _ := m.GetPin(pin)
	return v
}

// useMockGPIO installs a fresh mock driver for one test.
func useMockGPIO(t *testing.T) *mockGPIO {
	t.Helper()
	m := newMockGPIO()
	SetGPIODriver(m)
	t.Cleanup(func() { SetGPIODriver(nil) })
	return m
}

// useSimClock installs a clock that advances one millisecond per reading,
// so busy-wait loops make deterministic progress. The optional hook runs on
// every reading and may poke at controller state mid-loop.
func useSimClock(t *testing.T, hook func(now uint32)) {
	t.Helper()
	var ticks uint32
	SetTimeSource(func() uint32 {
		ticks++
		if hook != nil {
			hook(ticks)
		}
		return ticks
	})
	t.Cleanup(func() { SetTimeSource(defaultTimeSource()) })
}

// useManualClock installs a clock the test sets explicitly.
func useManualClock(t *testing.T) *uint32 {
	t.Helper()
	var now uint32
	SetTimeSource(func() uint32 { return now })
	t.Cleanup(func() { SetTimeSource(defaultTimeSource()) })
	return &now
}

// Pin assignments for the test rig. Arbitrary but distinct.
const (
	testClampSensorPin GPIOPin = 15
	testWeightClockPin GPIOPin = 42
	testWeightDataPin  GPIOPin = 40
)

func testAxisConfigs() [NumAxes]AxisConfig {
	mk := func(step, dir, enable, endstop GPIOPin, pol Polarity, power PowerPolicy) AxisConfig {
		return AxisConfig{
			StepPin:     step,
			DirPin:      dir,
			EnablePin:   enable,
			EndstopPin:  endstop,
			StepsPerRev: 200,
			MaxSpeed:    2000,
			Accel:       2000,
			HomingSpeed: 1000,
			Endstop:     pol,
			Power:       power,
		}
	}
	var cfgs [NumAxes]AxisConfig
	cfgs[AxisMulti] = mk(10, 11, 12, 13, ActiveHigh, PowerAlwaysOn)
	cfgs[AxisMultizone] = mk(20, 21, 22, 23, ActiveLow, PowerAlwaysOn)
	cfgs[AxisRRight] = mk(30, 31, 32, 33, ActiveLow, PowerAlwaysOn)
	cfgs[AxisClamp0] = mk(40, 41, 44, testClampSensorPin, ActiveLow, PowerOnDemand)
	cfgs[AxisClamp1] = mk(50, 51, 52, testClampSensorPin, ActiveLow, PowerOnDemand)
	return cfgs
}

// newTestController wires a controller against the mock GPIO with the
// standard test rig config.
func newTestController(t *testing.T, m *mockGPIO) *Controller {
	t.Helper()
	ctl := NewController(testAxisConfigs(), testClampSensorPin)
	if err := ctl.Configure(); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	return ctl
}
