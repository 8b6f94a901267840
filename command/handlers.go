package command

import (
	"errors"
	"strconv"

	"labact/core"
)

// Device bundles everything the wire commands can touch.
type Device struct {
	Motion *core.Controller

	Pump   *core.DigitalOutput
	Valve1 *core.DigitalOutput
	Valve2 *core.DigitalOutput
	Valve3 *core.DigitalOutput

	Rotor *core.RotorSensor
	Waste *core.WasteSensor
	Scale *core.LoadCell
}

var (
	errHoming  = errors.New(errHomingTimeout)
	errMissing = errors.New(errMissingParam)
	errInvalid = errors.New(errInvalidValue)
)

// InitCommands registers the full command set against dev.
func InitCommands(reg *Registry, dev *Device) {
	// Motion
	reg.Register("move_multi", dev.moveHandler(core.AxisMulti))
	reg.Register("move_multizone", dev.moveHandler(core.AxisMultizone))
	reg.Register("move_rright", dev.moveHandler(core.AxisRRight))
	reg.Register("zero_multi", dev.homeHandler(core.AxisMulti))
	reg.Register("zero_multizone", dev.homeHandler(core.AxisMultizone))
	reg.Register("zero_rright", dev.homeHandler(core.AxisRRight))

	// Clamp pair
	reg.Register("clamp", dev.handleClampMove)
	reg.Register("clamp_zero", dev.handleClampZero)
	reg.Register("clamp_stop", dev.handleClampStop)

	// Pump and valves
	reg.Register("pump_on", onOffHandler(dev.Pump, true))
	reg.Register("pump_off", onOffHandler(dev.Pump, false))
	reg.Register("kl1_on", onOffHandler(dev.Valve1, true))
	reg.Register("kl1_off", onOffHandler(dev.Valve1, false))
	reg.Register("kl2_on", onOffHandler(dev.Valve2, true))
	reg.Register("kl2_off", onOffHandler(dev.Valve2, false))
	reg.Register("kl3_on", onOffHandler(dev.Valve3, true))
	reg.Register("kl3_off", onOffHandler(dev.Valve3, false))

	// Weight
	reg.Register("weight", dev.handleWeight)
	reg.Register("raw_weight", dev.handleRawWeight)
	reg.Register("calibrate_weight", dev.handleCalibrateWeight)
	reg.Register("calibrate_weight_factor", dev.handleCalibrateFactor)
	reg.Register("weight_report_on", dev.handleWeightReportOn)
	reg.Register("weight_report_off", dev.handleWeightReportOff)

	// Auxiliary sensors
	reg.Register("staterotor", dev.handleRotorState)
	reg.Register("waste", dev.handleWaste)

	// Diagnostics
	reg.Register("check_multi_endstop", dev.endstopHandler(core.AxisMulti))
	reg.Register("check_multizone_endstop", dev.endstopHandler(core.AxisMultizone))
	reg.Register("check_rright_endstop", dev.endstopHandler(core.AxisRRight))
	reg.Register("check_clamp_endstop", dev.handleClampEndstop)
	reg.Register("check_all_endstops", dev.handleAllEndstops)
	reg.Register("check_enable_pins", dev.handleEnablePins)
	reg.Register("test", handleTest)
}

// parsePosition reads the target argument. A missing argument parses as
// zero, which the motion layer rejects as NO POSITION; that keeps "move
// with no target" and "move to 0" on the same error path.
func parsePosition(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, nil
	}
	pos, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, errInvalid
	}
	return pos, nil
}

func (dev *Device) moveHandler(id core.AxisID) Handler {
	return func(args []string, out func(string)) error {
		pos, err := parsePosition(args)
		if err != nil {
			return err
		}
		return dev.Motion.MoveTo(id, pos)
	}
}

func (dev *Device) homeHandler(id core.AxisID) Handler {
	return func(args []string, out func(string)) error {
		if err := dev.Motion.Home(id); err != nil {
			if errors.Is(err, core.ErrTimeout) {
				return errHoming
			}
			return err
		}
		return nil
	}
}

func (dev *Device) handleClampMove(args []string, out func(string)) error {
	pos, err := parsePosition(args)
	if err != nil {
		return err
	}
	if pos == 0 {
		return core.ErrInvalidPosition
	}
	return dev.Motion.ClampMove(pos)
}

// handleClampZero homes the clamp pair. A position mismatch after the
// backoff is a warning, not a failure: the coordinator has already forced
// both axes onto the reference and the clamp is usable.
func (dev *Device) handleClampZero(args []string, out func(string)) error {
	err := dev.Motion.ClampHome()
	var mismatch *core.HardwareMismatchError
	if errors.As(err, &mismatch) {
		out(MsgWarnPrefix + mismatch.Error())
		return nil
	}
	if errors.Is(err, core.ErrTimeout) {
		return errHoming
	}
	return err
}

func (dev *Device) handleClampStop(args []string, out func(string)) error {
	dev.Motion.EmergencyStop()
	return nil
}

func onOffHandler(o *core.DigitalOutput, on bool) Handler {
	return func(args []string, out func(string)) error {
		return o.Set(on)
	}
}

// parseSamples reads an optional sample-count argument, defaulting to 3.
func parseSamples(args []string) (int, error) {
	if len(args) == 0 {
		return 3, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, errInvalid
	}
	return n, nil
}

func (dev *Device) handleWeight(args []string, out func(string)) error {
	samples, err := parseSamples(args)
	if err != nil {
		return err
	}
	units, err := dev.Scale.ReadUnits(samples)
	if err != nil {
		return err
	}
	out("WEIGHT: " + strconv.FormatFloat(units, 'f', 2, 64))
	return nil
}

func (dev *Device) handleRawWeight(args []string, out func(string)) error {
	raw, err := dev.Scale.ReadRaw()
	if err != nil {
		return err
	}
	out("RAW_WEIGHT: " + strconv.FormatInt(raw, 10))
	return nil
}

func (dev *Device) handleCalibrateWeight(args []string, out func(string)) error {
	samples, err := parseSamples(args)
	if err != nil {
		return err
	}
	return dev.Scale.Tare(samples)
}

func (dev *Device) handleCalibrateFactor(args []string, out func(string)) error {
	if len(args) == 0 {
		return errMissing
	}
	factor, err := strconv.ParseFloat(args[0], 64)
	if err != nil || factor == 0 {
		return errInvalid
	}
	dev.Scale.SetScale(factor)
	return nil
}

func (dev *Device) handleWeightReportOn(args []string, out func(string)) error {
	interval := uint32(1000)
	if len(args) > 0 {
		n, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil || n == 0 {
			return errInvalid
		}
		interval = uint32(n)
	}
	dev.Scale.EnableAutoReport(interval, func(units float64) {
		out("WEIGHT: " + strconv.FormatFloat(units, 'f', 2, 64))
	})
	return nil
}

func (dev *Device) handleWeightReportOff(args []string, out func(string)) error {
	dev.Scale.DisableAutoReport()
	return nil
}

func (dev *Device) handleRotorState(args []string, out func(string)) error {
	out("ROTOR: " + dev.Rotor.State())
	return nil
}

func (dev *Device) handleWaste(args []string, out func(string)) error {
	if dev.Waste.Raw() {
		out("WASTE: 1")
	} else {
		out("WASTE: 0")
	}
	return nil
}

func boolTo01(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func (dev *Device) endstopHandler(id core.AxisID) Handler {
	return func(args []string, out func(string)) error {
		out("ENDSTOP " + id.String() + ": " + boolTo01(dev.Motion.EndstopTriggered(id)))
		return nil
	}
}

func (dev *Device) handleClampEndstop(args []string, out func(string)) error {
	out("ENDSTOP clamp: " + boolTo01(dev.Motion.ClampSensorTriggered()))
	return nil
}

func (dev *Device) handleAllEndstops(args []string, out func(string)) error {
	for id := core.AxisID(0); id < core.NumAxes; id++ {
		if id.IsClamp() {
			continue
		}
		out("ENDSTOP " + id.String() + ": " + boolTo01(dev.Motion.EndstopTriggered(id)))
	}
	out("ENDSTOP clamp: " + boolTo01(dev.Motion.ClampSensorTriggered()))
	return nil
}

// handleEnablePins reads back the physical driver enable lines. The lines
// are active low, so an energized axis reports 0.
func (dev *Device) handleEnablePins(args []string, out func(string)) error {
	for id := core.AxisID(0); id < core.NumAxes; id++ {
		state, err := dev.Motion.EnablePinState(id)
		if err != nil {
			return err
		}
		out("ENABLE " + id.String() + ": " + boolTo01(state))
	}
	return nil
}

func handleTest(args []string, out func(string)) error {
	out("OK")
	return nil
}
