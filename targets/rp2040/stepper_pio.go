//go:build rp2040

package main

// PIO step backend using the tinygo-org/pio package. Step pulses come out
// of a PIO state machine instead of bit-banged GPIO, so pulse width and
// spacing are hardware-timed regardless of what the control loop is doing.

import (
	"errors"

	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"labact/core"
)

// PIO program for step pulse generation
// Command word format:
//
//	Bits 0-15:  pulse count (number of steps to generate)
//	Bits 16-23: delay cycles (inter-pulse spacing)
//	Bit 31:     direction (0=forward, 1=reverse)
//
// Program flow:
//  1. Pull 32-bit command from FIFO
//  2. Extract pulse count into X register
//  3. Extract delay cycles into Y register
//  4. Set direction pin
//  5. Generate X pulses with Y cycle delays between them
func buildStepperProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestX, 16).Encode(),   // 1: out x, 16 (pulse count)
		asm.Out(rp2pio.OutDestY, 8).Encode(),    // 2: out y, 8 (delay cycles)
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 3: out pins, 1 (direction)
		// step_loop:
		asm.Set(rp2pio.SetDestPins, 1).Delay(7).Encode(), // 4: set pins, 1 [7]
		asm.Set(rp2pio.SetDestPins, 0).Encode(),          // 5: set pins, 0
		// delay_loop:
		asm.Jmp(6, rp2pio.JmpYNZeroDec).Encode(), // 6: jmp y--, 6
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Encode(), // 7: jmp x--, 4
		// .wrap
	}
}

const stepperPIOOrigin = 0 // Load at offset 0 for correct jump addresses

// PIOStepBackend implements core.StepBackend on one PIO state machine.
type PIOStepBackend struct {
	pio       *rp2pio.PIO
	sm        rp2pio.StateMachine
	stepPin   machine.Pin
	dirPin    machine.Pin
	direction bool
	offset    uint8
}

// nextSM hands out state machines for new axes: PIO0 SM0-3 first, then
// PIO1. Five axes fit with three SMs to spare.
var nextSM uint8

// NewPIOStepBackend allocates the next free state machine.
func NewPIOStepBackend() *PIOStepBackend {
	var pioHW *rp2pio.PIO
	smNum := nextSM
	nextSM++

	if smNum < 4 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
		smNum -= 4
	}

	return &PIOStepBackend{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
	}
}

// InstallPIOStepBackends routes all new axes through PIO state machines.
func InstallPIOStepBackends() {
	core.SetStepBackendFactory(func() core.StepBackend {
		return NewPIOStepBackend()
	})
}

// Init loads the step program and claims the pins for PIO use.
func (b *PIOStepBackend) Init(stepPin, dirPin core.GPIOPin) error {
	b.stepPin = machine.Pin(stepPin)
	b.dirPin = machine.Pin(dirPin)

	if !b.sm.TryClaim() {
		return errors.New("PIO state machine already claimed")
	}

	program := buildStepperProgram()
	offset, err := b.pio.AddProgram(program, stepperPIOOrigin)
	if err != nil {
		return err
	}
	b.offset = offset

	b.stepPin.Configure(machine.PinConfig{Mode: b.pio.PinMode()})
	b.dirPin.Configure(machine.PinConfig{Mode: b.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()

	// SET pins generate the step pulse, OUT pins carry direction
	cfg.SetSetPins(b.stepPin, 1)
	cfg.SetOutPins(b.dirPin, 1)

	// Shift right, autopull disabled (the program has an explicit PULL)
	cfg.SetOutShift(true, false, 32)

	// Program is 8 instructions: 0-7
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	cfg.SetClkDivIntFrac(1000, 0)

	b.sm.Init(offset, cfg)

	// Pin directions must be set after Init
	b.sm.SetPindirsConsecutive(b.stepPin, 1, true)
	b.sm.SetPindirsConsecutive(b.dirPin, 1, true)

	b.sm.SetPinsConsecutive(b.stepPin, 1, false)
	b.sm.SetPinsConsecutive(b.dirPin, 1, false)

	b.sm.SetEnabled(true)
	return nil
}

// Step queues a single step pulse with the current direction.
func (b *PIOStepBackend) Step() {
	cmd := uint32(1) | (1 << 16) // count=1, delay=1
	if b.direction {
		cmd |= 1 << 31 // reverse
	}

	for b.sm.IsTxFIFOFull() {
		// FIFO drains at hardware speed, this is brief
	}
	b.sm.TxPut(cmd)
}

// SetDirection latches the direction for subsequent pulses.
func (b *PIOStepBackend) SetDirection(forward bool) {
	b.direction = !forward
}

// Stop drops any queued pulses and restarts the state machine.
func (b *PIOStepBackend) Stop() {
	b.sm.SetEnabled(false)
	b.sm.ClearFIFOs()
	b.sm.Restart()
	b.sm.SetEnabled(true)
}
