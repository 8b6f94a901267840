//go:build rp2040

package main

// Hardware checkout: jogs the multi axis back and forth through the PIO
// step backend. Watch the step pin on a scope or put a motor on the driver
// and listen. Not part of the firmware build.

import (
	"machine"
	"time"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

const (
	stepPin = machine.Pin(0)
	dirPin  = machine.Pin(1)

	jogSteps = 400 // two revolutions at 200 steps/rev
)

func main() {
	time.Sleep(3 * time.Second)

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	// Flash LED to indicate start
	for i := 0; i < 3; i++ {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}

	println("=== axis jog checkout ===")
	println("step: GP0, dir: GP1")

	sm := rp2pio.PIO0.StateMachine(0)
	if !sm.TryClaim() {
		blinkForever(led)
	}

	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	program := []uint16{
		asm.Pull(false, true).Encode(),
		asm.Out(rp2pio.OutDestX, 16).Encode(),
		asm.Out(rp2pio.OutDestY, 8).Encode(),
		asm.Out(rp2pio.OutDestPins, 1).Encode(),
		asm.Set(rp2pio.SetDestPins, 1).Delay(7).Encode(),
		asm.Set(rp2pio.SetDestPins, 0).Encode(),
		asm.Jmp(6, rp2pio.JmpYNZeroDec).Encode(),
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Encode(),
	}
	offset, err := rp2pio.PIO0.AddProgram(program, 0)
	if err != nil {
		println("program load error:", err.Error())
		blinkForever(led)
	}

	stepPin.Configure(machine.PinConfig{Mode: rp2pio.PIO0.PinMode()})
	dirPin.Configure(machine.PinConfig{Mode: rp2pio.PIO0.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(stepPin, 1)
	cfg.SetOutPins(dirPin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(1000, 0)

	sm.Init(offset, cfg)
	sm.SetPindirsConsecutive(stepPin, 1, true)
	sm.SetPindirsConsecutive(dirPin, 1, true)
	sm.SetEnabled(true)

	println("jogging...")
	forward := false
	for {
		forward = !forward

		cmd := uint32(jogSteps) | (200 << 16)
		if !forward {
			cmd |= 1 << 31
		}
		for sm.IsTxFIFOFull() {
		}
		sm.TxPut(cmd)

		led.High()
		time.Sleep(500 * time.Millisecond)
		led.Low()
		time.Sleep(500 * time.Millisecond)
	}
}

func blinkForever(led machine.Pin) {
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
