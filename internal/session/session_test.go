package session

import (
	"bytes"
	"testing"

	"github.com/stlalpha/tn5250r/internal/display"
	"github.com/stlalpha/tn5250r/internal/field"
	"github.com/stlalpha/tn5250r/internal/logging"
	"github.com/stlalpha/tn5250r/internal/telnet"
	"github.com/stlalpha/tn5250r/internal/tn5250"
)

// negotiateFull drives a session through the minimal essential-option
// handshake so its negotiator reaches IsComplete (spec.md §4.2).
func negotiateFull(t *testing.T, s *Session) {
	t.Helper()
	for _, opt := range []byte{telnet.OptBinary, telnet.OptEOR, telnet.OptSGA} {
		if _, err := s.Feed([]byte{telnet.IAC, telnet.WILL, opt}); err != nil {
			t.Fatalf("Feed WILL: %v", err)
		}
		if _, err := s.Feed([]byte{telnet.IAC, telnet.DO, opt}); err != nil {
			t.Fatalf("Feed DO: %v", err)
		}
	}
	// Terminal type completes negotiation immediately per spec.md §4.2.
	if _, err := s.Feed([]byte{telnet.IAC, telnet.SB, telnet.OptTermType, telnet.TermTypeSend, telnet.IAC, telnet.SE}); err != nil {
		t.Fatalf("Feed termtype SB: %v", err)
	}
	if !s.NegotiationComplete() {
		t.Fatal("negotiation should be complete after essentials + terminal-type")
	}
}

func TestSessionFeedAppliesWriteToDisplay(t *testing.T) {
	s := New(Mode5250, display.Size5250, logging.NopSink{})
	negotiateFull(t, s)

	record := []byte{
		tn5250.CmdWriteToDisplay, 0x00,
		tn5250.OrderSBA, 0x00, 0x00,
		tn5250.OrderSF, 0x20,
		0xC8, 0xC5, 0xD3, 0xD3, 0xD6, // "HELLO" in CP037
	}
	feed, err := s.Feed(record)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if !feed.DisplayDirty {
		t.Error("DisplayDirty should be true after a Write-to-Display")
	}

	cells := s.SnapshotDisplay()
	want := "HELLO"
	for i, wc := range want {
		if cells[1+i].Char != wc {
			t.Errorf("cell %d = %q, want %q", 1+i, cells[1+i].Char, wc)
		}
	}
}

func TestSessionKeyAndAIDRoundTrip(t *testing.T) {
	s := New(Mode5250, display.Size5250, logging.NopSink{})
	negotiateFull(t, s)

	// Open an unprotected field at address 4, cursor lands at 5.
	record := []byte{
		tn5250.CmdWriteToDisplay, 0x00,
		tn5250.OrderSBA, 0x00, 0x05,
		tn5250.OrderSF, 0x00,
	}
	if _, err := s.Feed(record); err != nil {
		t.Fatalf("Feed: %v", err)
	}

	if err := s.Key('A'); err != nil {
		t.Fatalf("Key A: %v", err)
	}
	if err := s.Key('B'); err != nil {
		t.Fatalf("Key B: %v", err)
	}

	resp, err := s.AID(tn5250.AIDEnter)
	if err != nil {
		t.Fatalf("AID: %v", err)
	}

	if resp[0] != tn5250.AIDEnter {
		t.Fatalf("response AID = %#x, want %#x", resp[0], tn5250.AIDEnter)
	}
	if !bytes.Contains(resp, []byte{0xC1, 0xC2}) {
		t.Errorf("response should contain EBCDIC \"AB\" (C1 C2), got % X", resp)
	}
}

func TestSessionKeyNumericFieldRejectsNonDigit(t *testing.T) {
	s := New(Mode5250, display.Size5250, logging.NopSink{})
	negotiateFull(t, s)

	// Numeric, unprotected field at address 4; cursor lands at 5.
	record := []byte{
		tn5250.CmdWriteToDisplay, 0x00,
		tn5250.OrderSBA, 0x00, 0x05,
		tn5250.OrderSF, 0x10,
	}
	if _, err := s.Feed(record); err != nil {
		t.Fatalf("Feed: %v", err)
	}

	if err := s.Key('A'); err != nil {
		t.Fatalf("Key A: %v", err)
	}
	if s.FieldError() != field.ErrValidation {
		t.Errorf("FieldError = %v, want ErrValidation after non-digit", s.FieldError())
	}
	cells := s.SnapshotDisplay()
	if cells[5].Char != ' ' {
		t.Errorf("cell 5 = %q, want untouched space", cells[5].Char)
	}

	if err := s.Key('1'); err != nil {
		t.Fatalf("Key 1: %v", err)
	}
	cells = s.SnapshotDisplay()
	if cells[5].Char != '1' {
		t.Errorf("cell 5 = %q, want 1", cells[5].Char)
	}
}

func TestSessionCloseIsTotalNoOp(t *testing.T) {
	s := New(Mode5250, display.Size5250, logging.NopSink{})
	s.Close()

	if _, err := s.Feed([]byte{'x'}); err != ErrSessionClosed {
		t.Errorf("Feed after close = %v, want ErrSessionClosed", err)
	}
	if err := s.Key('a'); err != ErrSessionClosed {
		t.Errorf("Key after close = %v, want ErrSessionClosed", err)
	}
	if _, err := s.AID(tn5250.AIDEnter); err != ErrSessionClosed {
		t.Errorf("AID after close = %v, want ErrSessionClosed", err)
	}
}

func TestSessionPendingApplicationBytesBufferBeforeNegotiationCompletes(t *testing.T) {
	s := New(Mode5250, display.Size5250, logging.NopSink{})

	// An ambiguous, non-command byte arriving before negotiation completes
	// is buffered rather than processed (spec.md §4.6 step 2).
	if _, err := s.Feed([]byte{0x00}); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if !bytes.Equal(s.pendingApp, []byte{0x00}) {
		t.Errorf("pendingApp = % X, want 00 held back", s.pendingApp)
	}
	if s.NegotiationComplete() {
		t.Fatal("negotiation should not be complete yet")
	}
}
