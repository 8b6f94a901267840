// Package console speaks the controller's line protocol from the host
// side: send one command, then collect response lines until the device
// acknowledges completion or reports an error.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Ack vocabulary of the device. Must match the firmware's command package.
const (
	ackReceived   = "RECEIVED"
	ackCompleted  = "COMPLETED"
	errPrefix     = "ERR: "
	warnPrefix    = "WARN: "
	unknownPrefix = "Unknown command:"
)

// Result is the device's full answer to one command.
type Result struct {
	// Payload lines (sensor readings, endstop states, warnings), in order
	Lines []string

	// Err is the device-reported failure, empty on success
	Err string
}

// Ok reports whether the command completed without a device error.
func (r *Result) Ok() bool {
	return r.Err == ""
}

// Session is one synchronous conversation with the device.
type Session struct {
	w io.Writer
	r *bufio.Scanner
}

func NewSession(rw io.ReadWriter) *Session {
	return &Session{
		w: rw,
		r: bufio.NewScanner(rw),
	}
}

// Do sends one command and reads until the device completes or fails it.
// Payload lines arriving before the final ack (including asynchronous
// weight reports) are collected into the result.
func (s *Session) Do(cmd string) (*Result, error) {
	if _, err := fmt.Fprintln(s.w, cmd); err != nil {
		return nil, err
	}

	res := &Result{}
	for s.r.Scan() {
		line := strings.TrimSpace(s.r.Text())
		switch {
		case line == "":
			continue
		case line == ackReceived:
			continue
		case line == ackCompleted:
			return res, nil
		case strings.HasPrefix(line, errPrefix):
			res.Err = strings.TrimPrefix(line, errPrefix)
			return res, nil
		case strings.HasPrefix(line, unknownPrefix):
			res.Err = line
			return res, nil
		default:
			res.Lines = append(res.Lines, line)
		}
	}
	if err := s.r.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}
