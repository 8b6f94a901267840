//go:build rp2040

package main

import (
	"machine"

	"labact/command"
	"labact/config"
	"labact/core"
)

const maxLineLen = 128

func main() {
	// Disable the watchdog on boot to clear any state persisting across
	// resets
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	InitUSB()
	InitClock()

	core.SetGPIODriver(NewRPGPIODriver())
	core.SetI2CDriver(NewRPI2CDriver())
	core.SetDebugWriter(USBWriteLine)
	InstallPIOStepBackends()

	cfg := config.Default()
	axes, err := cfg.AxisConfigs()
	if err != nil {
		fatal("bad axis config: " + err.Error())
	}

	ctl := core.NewController(axes, core.GPIOPin(cfg.ClampSensorPin))
	if err := ctl.Configure(); err != nil {
		fatal("controller init failed: " + err.Error())
	}

	dev := &command.Device{
		Motion: ctl,
		Pump:   core.NewDigitalOutput(core.GPIOPin(cfg.PumpPin), false, cfg.OutputMaxOnMS),
		Valve1: core.NewDigitalOutput(core.GPIOPin(cfg.ValvePins[0]), false, cfg.OutputMaxOnMS),
		Valve2: core.NewDigitalOutput(core.GPIOPin(cfg.ValvePins[1]), false, cfg.OutputMaxOnMS),
		Valve3: core.NewDigitalOutput(core.GPIOPin(cfg.ValvePins[2]), false, cfg.OutputMaxOnMS),
		Rotor: core.NewRotorSensor([4]core.GPIOPin{
			core.GPIOPin(cfg.RotorPins[0]),
			core.GPIOPin(cfg.RotorPins[1]),
			core.GPIOPin(cfg.RotorPins[2]),
			core.GPIOPin(cfg.RotorPins[3]),
		}),
		Waste: core.NewWasteSensor(core.GPIOPin(cfg.WastePin)),
		Scale: core.NewLoadCell(core.GPIOPin(cfg.ScaleClockPin), core.GPIOPin(cfg.ScaleDataPin), cfg.ScaleFactor),
	}
	for _, o := range []*core.DigitalOutput{dev.Pump, dev.Valve1, dev.Valve2, dev.Valve3} {
		if err := o.Configure(); err != nil {
			fatal("output init failed: " + err.Error())
		}
	}
	if err := dev.Rotor.Configure(); err != nil {
		fatal("rotor init failed: " + err.Error())
	}
	if err := dev.Waste.Configure(); err != nil {
		fatal("waste init failed: " + err.Error())
	}
	if err := dev.Scale.Configure(); err != nil {
		fatal("scale init failed: " + err.Error())
	}

	reg := command.NewRegistry()
	command.InitCommands(reg, dev)
	dispatcher := command.NewDispatcher(reg, USBWriteLine)

	// Main loop: assemble command lines from USB and keep scheduler timers
	// running while the line is idle. Commands block inside Process until
	// their motion finishes; timers keep running there too because every
	// wait loop calls ProcessTimers.
	line := make([]byte, 0, maxLineLen)
	for {
		for USBAvailable() > 0 {
			c, err := USBRead()
			if err != nil {
				break
			}
			switch c {
			case '\n', '\r':
				if len(line) > 0 {
					dispatcher.Process(string(line))
					line = line[:0]
				}
			default:
				if len(line) < maxLineLen {
					line = append(line, c)
				}
			}
		}
		core.ProcessTimers()
	}
}

// fatal reports an unrecoverable boot error forever so the host can see
// what went wrong over the console.
func fatal(msg string) {
	for {
		USBWriteLine("FATAL: " + msg)
		for i := 0; i < 50000000; i++ {
		}
	}
}
