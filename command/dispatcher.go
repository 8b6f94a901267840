// Package command implements the line-oriented wire protocol: one command
// per line, acknowledged with RECEIVED on acceptance and COMPLETED or an
// ERR line once execution finishes. Commands block until the motion they
// start is done; the protocol has no pipelining.
package command

import (
	"strings"

	"github.com/google/shlex"

	"labact/core"
)

// Wire acknowledgement and error payloads. These are a device contract:
// host-side sequencers key on the exact strings.
const (
	MsgReceived   = "RECEIVED"
	MsgCompleted  = "COMPLETED"
	MsgErrPrefix  = "ERR: "
	MsgWarnPrefix = "WARN: "

	errNoPosition    = "NO POSITION"
	errHomingTimeout = "HOMING TIMEOUT"
	errTimeout       = "TIMEOUT"
	errBusy          = "BUSY"
	errStopped       = "STOPPED"
	errInvalidValue  = "INVALID VALUE"
	errMissingParam  = "MISSING PARAMETER"
)

// Dispatcher parses command lines and runs handlers against the device.
type Dispatcher struct {
	reg *Registry
	out func(string)
}

// NewDispatcher builds a dispatcher emitting response lines through out.
func NewDispatcher(reg *Registry, out func(string)) *Dispatcher {
	return &Dispatcher{reg: reg, out: out}
}

// Registry exposes the underlying command table.
func (d *Dispatcher) Registry() *Registry {
	return d.reg
}

// Process executes one command line. Empty lines are ignored. Unknown
// commands are answered without a RECEIVED ack so the host can tell a
// rejected command from a failed one.
func (d *Dispatcher) Process(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	args, err := shlex.Split(line)
	if err != nil || len(args) == 0 {
		d.out(MsgErrPrefix + errInvalidValue)
		return
	}

	cmd, ok := d.reg.Lookup(args[0])
	if !ok {
		d.out("Unknown command: " + args[0])
		return
	}

	d.out(MsgReceived)
	if err := cmd.Handler(args[1:], d.out); err != nil {
		d.out(MsgErrPrefix + wireMessage(err))
	} else {
		d.out(MsgCompleted)
	}
}

// wireMessage flattens an execution error onto the wire vocabulary.
func wireMessage(err error) string {
	switch err {
	case core.ErrInvalidPosition:
		return errNoPosition
	case core.ErrTimeout:
		return errTimeout
	case core.ErrBusy:
		return errBusy
	case core.ErrStopped:
		return errStopped
	}
	return err.Error()
}
