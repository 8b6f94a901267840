package console

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// fakePort replays a canned device transcript and records what was sent.
type fakePort struct {
	sent    bytes.Buffer
	replies io.Reader
}

func (f *fakePort) Read(b []byte) (int, error)  { return f.replies.Read(b) }
func (f *fakePort) Write(b []byte) (int, error) { return f.sent.Write(b) }

func TestDoCompletes(t *testing.T) {
	port := &fakePort{replies: strings.NewReader("RECEIVED\nCOMPLETED\n")}
	s := NewSession(port)

	res, err := s.Do("move_multi 500")
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if !res.Ok() {
		t.Errorf("result not ok: %q", res.Err)
	}
	if got := port.sent.String(); got != "move_multi 500\n" {
		t.Errorf("sent %q", got)
	}
}

func TestDoCollectsPayload(t *testing.T) {
	port := &fakePort{replies: strings.NewReader(
		"RECEIVED\nWEIGHT: 12.50\nCOMPLETED\n")}
	s := NewSession(port)

	res, err := s.Do("weight")
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if len(res.Lines) != 1 || res.Lines[0] != "WEIGHT: 12.50" {
		t.Errorf("payload = %q", res.Lines)
	}
}

func TestDoReportsDeviceError(t *testing.T) {
	port := &fakePort{replies: strings.NewReader("RECEIVED\nERR: NO POSITION\n")}
	s := NewSession(port)

	res, err := s.Do("move_multi")
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if res.Ok() || res.Err != "NO POSITION" {
		t.Errorf("err = %q, want NO POSITION", res.Err)
	}
}

func TestDoUnknownCommand(t *testing.T) {
	port := &fakePort{replies: strings.NewReader("Unknown command: frob\n")}
	s := NewSession(port)

	res, err := s.Do("frob")
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if res.Ok() {
		t.Error("unknown command reported ok")
	}
}

func TestDoPortClosed(t *testing.T) {
	port := &fakePort{replies: strings.NewReader("RECEIVED\n")}
	s := NewSession(port)

	if _, err := s.Do("test"); err != io.ErrUnexpectedEOF {
		t.Errorf("Do = %v, want ErrUnexpectedEOF", err)
	}
}

func TestWarningKeptAsPayload(t *testing.T) {
	port := &fakePort{replies: strings.NewReader(
		"RECEIVED\nWARN: clamp1 landed at 97 after backoff, expected 100 (corrected)\nCOMPLETED\n")}
	s := NewSession(port)

	res, err := s.Do("clamp_zero")
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if !res.Ok() {
		t.Errorf("corrected homing reported as error: %q", res.Err)
	}
	if len(res.Lines) != 1 || !strings.HasPrefix(res.Lines[0], warnPrefix) {
		t.Errorf("payload = %q", res.Lines)
	}
}
