package core

// StepBackend generates the physical step and direction signals for one
// axis. The default backend toggles GPIO directly; MCU targets may install
// a hardware-assisted backend (e.g. PIO on RP2040) via the factory.
type StepBackend interface {
	// Init claims and configures the step and direction pins
	Init(stepPin, dirPin GPIOPin) error

	// Step emits a single step pulse
	Step()

	// SetDirection sets the direction output (true = toward increasing
	// position)
	SetDirection(forward bool)

	// Stop returns the step line to its idle state
	Stop()
}

// Backend factory function (set by platform-specific code)
var stepBackendFactory func() StepBackend

// SetStepBackendFactory is called by target initialization code to replace
// the default GPIO backend for newly created axes.
func SetStepBackendFactory(factory func() StepBackend) {
	stepBackendFactory = factory
}

func newStepBackend() StepBackend {
	if stepBackendFactory != nil {
		if b := stepBackendFactory(); b != nil {
			return b
		}
	}
	return &gpioStepBackend{}
}

// gpioStepBackend drives step/dir through the GPIO HAL.
type gpioStepBackend struct {
	stepPin GPIOPin
	dirPin  GPIOPin
}

func (b *gpioStepBackend) Init(stepPin, dirPin GPIOPin) error {
	b.stepPin = stepPin
	b.dirPin = dirPin

	gpio := MustGPIO()
	if err := gpio.ConfigureOutput(stepPin); err != nil {
		return err
	}
	if err := gpio.ConfigureOutput(dirPin); err != nil {
		return err
	}
	// Idle low, direction forward
	if err := gpio.SetPin(stepPin, false); err != nil {
		return err
	}
	return gpio.SetPin(dirPin, true)
}

func (b *gpioStepBackend) Step() {
	gpio := MustGPIO()
	gpio.SetPin(b.stepPin, true)
	gpio.SetPin(b.stepPin, false)
}

func (b *gpioStepBackend) SetDirection(forward bool) {
	MustGPIO().SetPin(b.dirPin, forward)
}

func (b *gpioStepBackend) Stop() {
	MustGPIO().SetPin(b.stepPin, false)
}
