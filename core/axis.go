package core

// AxisID identifies one physical axis. Identity comparisons against stepper
// instances are never used; everything is keyed by this enum.
type AxisID uint8

const (
	AxisMulti AxisID = iota
	AxisMultizone
	AxisRRight
	AxisClamp0
	AxisClamp1

	NumAxes
)

var axisNames = [NumAxes]string{"multi", "multizone", "rright", "clamp0", "clamp1"}

func (id AxisID) String() string {
	if id >= NumAxes {
		return "axis" + itoa(int64(id))
	}
	return axisNames[id]
}

// IsClamp reports whether the axis is one of the paired clamp motors, which
// are guarded by the shared busy flag.
func (id AxisID) IsClamp() bool {
	return id == AxisClamp0 || id == AxisClamp1
}

// Polarity describes how an endstop sensor signals "triggered".
type Polarity uint8

const (
	// ActiveLow: NPN sensor, pulls the line low when the limit is reached.
	ActiveLow Polarity = iota
	// ActiveHigh: PNP sensor, drives the line high when the limit is reached.
	ActiveHigh
)

// PowerPolicy controls when an axis driver's output stage is energized.
type PowerPolicy uint8

const (
	// PowerAlwaysOn keeps the driver energized between commands so the
	// motor holds static torque.
	PowerAlwaysOn PowerPolicy = iota
	// PowerOnDemand energizes the driver only for the duration of a move.
	PowerOnDemand
)

// AxisConfig is the immutable boot-time configuration of one axis.
type AxisConfig struct {
	StepPin    GPIOPin
	DirPin     GPIOPin
	EnablePin  GPIOPin
	EndstopPin GPIOPin

	StepsPerRev uint32

	MaxSpeed    float64 // steps/s
	Accel       float64 // steps/s^2, 0 means jump straight to MaxSpeed
	HomingSpeed float64 // steps/s, seek speed toward the endstop

	Endstop Polarity
	Power   PowerPolicy
}
