package core

// I2CBusID identifies a specific I2C bus (e.g., I2C0, I2C1).
type I2CBusID uint8

// I2CAddress is a 7-bit I2C device address.
type I2CAddress uint8

// I2CDriver is the abstract I2C interface used by auxiliary sensor
// drivers. The motion core itself never touches I2C; this exists for
// add-on probes registered through the driver registry.
type I2CDriver interface {
	// ConfigureBus initializes a specific I2C bus with the given frequency.
	ConfigureBus(bus I2CBusID, frequencyHz uint32) error

	// Write transmits data to a device at the given address.
	Write(bus I2CBusID, addr I2CAddress, data []byte) error

	// Read reads data from a device, optionally writing a register address
	// first (restart in between).
	Read(bus I2CBusID, addr I2CAddress, regData []byte, readLen uint8) ([]byte, error)

	// GetMachineBus returns the underlying machine.I2C instance for a bus,
	// allowing direct use of TinyGo drivers that expect machine.I2C.
	// Returns nil if the bus does not support that.
	GetMachineBus(bus I2CBusID) (interface{}, error)
}

// Global singleton used by driver code.
var i2cDriver I2CDriver

// SetI2CDriver is called by target-specific code to register its driver.
func SetI2CDriver(d I2CDriver) {
	i2cDriver = d
}

// MustI2C returns the configured driver or panics if missing.
func MustI2C() I2CDriver {
	if i2cDriver == nil {
		panic("I2C driver not configured")
	}
	return i2cDriver
}

// GetMachineI2C is a convenience wrapper for TinyGo driver integration.
func GetMachineI2C(bus I2CBusID) (interface{}, error) {
	return MustI2C().GetMachineBus(bus)
}
