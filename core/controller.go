package core

// Controller assembles the axis drivers, the single-axis motion controller
// and the clamp coordinator from the boot configuration. This is the object
// the command dispatcher talks to.
type Controller struct {
	axes   [NumAxes]*Axis
	motion *MotionController
	clamp  *ClampCoordinator
	guard  ClampGuard
	stop   StopFlag
}

// NewController builds the full motion subsystem from a per-axis config
// table and the shared clamp sensor. The clamp sensor is one physical
// switch serving both clamp motors; the per-axis endstop pins of the clamp
// axes are expected to name the same pin.
func NewController(cfgs [NumAxes]AxisConfig, clampSensorPin GPIOPin) *Controller {
	c := &Controller{}
	for id := AxisID(0); id < NumAxes; id++ {
		c.axes[id] = NewAxis(id, cfgs[id])
	}
	c.motion = NewMotionController(c.axes, &c.guard, &c.stop)

	shared := NewEndstop(clampSensorPin, cfgs[AxisClamp0].Endstop)
	c.clamp = NewClampCoordinator(c.axes[AxisClamp0], c.axes[AxisClamp1], shared, &c.guard, &c.stop)
	return c
}

// Configure sets up all output and input pins and energizes the axes whose
// policy keeps them powered between commands.
func (c *Controller) Configure() error {
	for _, a := range c.axes {
		if err := a.Configure(); err != nil {
			return err
		}
	}
	if err := c.clamp.endstop.Configure(); err != nil {
		return err
	}
	for _, a := range c.axes {
		if a.Config().Power == PowerAlwaysOn {
			a.Enable()
		}
	}
	return nil
}

// MoveTo runs a blocking absolute move on one axis.
func (c *Controller) MoveTo(id AxisID, pos int64) error {
	return c.motion.MoveTo(id, pos)
}

// Home runs the single-axis homing procedure.
func (c *Controller) Home(id AxisID) error {
	return c.motion.Home(id)
}

// ClampMove runs a synchronized move of the clamp pair.
func (c *Controller) ClampMove(target int64) error {
	return c.clamp.Move(target)
}

// ClampHome zeroes the clamp pair against the shared sensor.
func (c *Controller) ClampHome() error {
	return c.clamp.Home()
}

// EmergencyStop halts the clamp pair and clears the busy flag. Always
// succeeds, even mid-operation.
func (c *Controller) EmergencyStop() {
	c.clamp.EmergencyStop()
}

// Position reports the current step position of one axis.
func (c *Controller) Position(id AxisID) int64 {
	return c.axes[id].Position()
}

// IsBusy reports whether a clamp operation is in flight.
func (c *Controller) IsBusy() bool {
	return c.guard.Busy()
}

// EndstopTriggered reads one axis's limit sensor.
func (c *Controller) EndstopTriggered(id AxisID) bool {
	return c.axes[id].Endstop().Triggered()
}

// ClampSensorTriggered reads the shared clamp sensor.
func (c *Controller) ClampSensorTriggered() bool {
	return c.clamp.endstop.Triggered()
}

// EnablePinState reads back the physical enable line of one axis. The line
// is active low: false means energized.
func (c *Controller) EnablePinState(id AxisID) (bool, error) {
	return MustGPIO().GetPin(c.axes[id].Config().EnablePin)
}

// Axis exposes one axis driver for diagnostics and tests.
func (c *Controller) Axis(id AxisID) *Axis {
	return c.axes[id]
}
