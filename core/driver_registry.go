package core

import "errors"

// Registry for auxiliary sensor drivers (level probes and the like). The
// motion core does not depend on any of these; they are optional add-ons
// queried through the diagnostic commands or polled on a scheduler timer.

// DriverType identifies the bus type for a driver
type DriverType uint8

const (
	DriverTypeI2C DriverType = iota
	DriverTypeGPIO
	DriverTypeCustom
)

// DriverConfig holds configuration for registering a driver
type DriverConfig struct {
	Name string
	Type DriverType

	// I2C configuration
	I2CBus  I2CBusID
	I2CAddr I2CAddress

	// GPIO configuration
	GPIOPins []GPIOPin

	// Custom attributes for driver-specific configuration
	Attributes map[string]interface{}

	// Lifecycle callbacks
	InitFunc  DriverInitFunc  // Called during registration
	ReadFunc  DriverReadFunc  // Called to read data from the device
	CloseFunc DriverCloseFunc // Called when the driver is unregistered

	// Optional polling support for sensors
	PollFunc DriverPollFunc
	PollRate uint32 // polling interval in ms (0 = disabled)
}

// Driver lifecycle function types
type (
	DriverInitFunc  func(cfg *DriverConfig) (interface{}, error)
	DriverReadFunc  func(device interface{}, params []byte) ([]byte, error)
	DriverCloseFunc func(device interface{}) error
	DriverPollFunc  func(device interface{}) ([]byte, error)
)

// DriverInstance represents a registered driver instance
type DriverInstance struct {
	Name   string
	Type   DriverType
	Device interface{}
	Config *DriverConfig

	timer    Timer
	polling  bool
	pollSink func(name string, data []byte)
}

// NewI2CDriverConfig builds a config for an I2C-attached device.
func NewI2CDriverConfig(name string, bus I2CBusID, addr I2CAddress) *DriverConfig {
	return &DriverConfig{
		Name:       name,
		Type:       DriverTypeI2C,
		I2CBus:     bus,
		I2CAddr:    addr,
		Attributes: make(map[string]interface{}),
	}
}

var driversByName = make(map[string]*DriverInstance)

// RegisterDriver initializes and registers a driver instance.
func RegisterDriver(config *DriverConfig) error {
	if config == nil {
		return errors.New("driver config is nil")
	}
	if config.Name == "" {
		return errors.New("driver name is required")
	}
	if _, exists := driversByName[config.Name]; exists {
		return errors.New("driver name already registered")
	}

	instance := &DriverInstance{
		Name:   config.Name,
		Type:   config.Type,
		Config: config,
	}

	if config.InitFunc != nil {
		device, err := config.InitFunc(config)
		if err != nil {
			return err
		}
		instance.Device = device
	}

	instance.timer.Handler = instance.pollEvent
	driversByName[config.Name] = instance
	return nil
}

// UnregisterDriver closes and removes a driver.
func UnregisterDriver(name string) error {
	instance, ok := driversByName[name]
	if !ok {
		return errors.New("driver not registered: " + name)
	}
	instance.StopPoll()
	if instance.Config.CloseFunc != nil {
		if err := instance.Config.CloseFunc(instance.Device); err != nil {
			return err
		}
	}
	delete(driversByName, name)
	return nil
}

// GetDriver looks up a registered driver by name.
func GetDriver(name string) (*DriverInstance, bool) {
	d, ok := driversByName[name]
	return d, ok
}

// DriverNames lists the registered drivers.
func DriverNames() []string {
	names := make([]string, 0, len(driversByName))
	for name := range driversByName {
		names = append(names, name)
	}
	return names
}

// Read performs a one-shot read on the device.
func (d *DriverInstance) Read(params []byte) ([]byte, error) {
	if d.Config.ReadFunc == nil {
		return nil, errors.New("driver has no read support: " + d.Name)
	}
	return d.Config.ReadFunc(d.Device, params)
}

// StartPoll begins periodic sampling on the scheduler, delivering each
// sample to sink.
func (d *DriverInstance) StartPoll(sink func(name string, data []byte)) error {
	if d.Config.PollFunc == nil || d.Config.PollRate == 0 {
		return errors.New("driver has no poll support: " + d.Name)
	}
	if d.polling {
		CancelTimer(&d.timer)
	}
	d.pollSink = sink
	d.polling = true
	d.timer.WakeTime = GetTime() + d.Config.PollRate
	ScheduleTimer(&d.timer)
	return nil
}

// StopPoll stops periodic sampling.
func (d *DriverInstance) StopPoll() {
	if d.polling {
		CancelTimer(&d.timer)
		d.polling = false
	}
}

func (d *DriverInstance) pollEvent(t *Timer) uint8 {
	if !d.polling {
		return SF_DONE
	}
	if data, err := d.Config.PollFunc(d.Device); err == nil && data != nil && d.pollSink != nil {
		d.pollSink(d.Name, data)
	}
	t.WakeTime = GetTime() + d.Config.PollRate
	return SF_RESCHEDULE
}
