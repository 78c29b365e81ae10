// Package session is the façade of spec.md §4.6: it owns the telnet
// negotiator, the protocol processor, the display buffer, and the field
// manager, and routes opaque byte slices between them. Grounded on the
// teacher's internal/session/session.go BbsSession struct-as-owner
// pattern, generalized from "owns SSH channel + user" to "owns telnet
// negotiator + protocol processor + display + field manager"; the
// snapshot-copy locking mirrors the teacher's TelnetConn.sizeMu guard on
// cross-goroutine reads of mutable session state.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/stlalpha/tn5250r/internal/display"
	"github.com/stlalpha/tn5250r/internal/ebcdic"
	"github.com/stlalpha/tn5250r/internal/field"
	"github.com/stlalpha/tn5250r/internal/logging"
	"github.com/stlalpha/tn5250r/internal/telnet"
	"github.com/stlalpha/tn5250r/internal/tn3270"
	"github.com/stlalpha/tn5250r/internal/tn5250"
)

// Mode selects the block-mode protocol a session speaks.
type Mode int

const (
	Mode5250 Mode = iota
	Mode3270
)

// protocolProcessor is the common shape of tn5250.Processor and
// tn3270.Processor (spec.md §4.3/§4.4): both dispatch command records and
// assemble the three Read-* response forms. A fixed interface, not open
// inheritance, per spec.md §9 "avoid open-ended inheritance".
type protocolProcessor interface {
	Process(data []byte) ([]byte, error)
	NoteAID(aid byte)
	KeyboardLocked() bool
	AssembleReadModified(aid byte) []byte
	AssembleReadModifiedAll(aid byte) []byte
	AssembleReadBuffer() []byte
	SaveScreen()
	RestoreScreen()
}

// Feed is the result of routing inbound bytes through the pipeline
// (spec.md §6 Boundary API "feed(bytes) -> {response_bytes,
// state_snapshot_dirty_flag}").
type Feed struct {
	Response     []byte
	DisplayDirty bool
}

// Session owns one connection's worth of state end to end. It is not
// safe to share across goroutines except through the locked snapshot
// accessors (spec.md §5 "Shared-resource policy").
type Session struct {
	ID uuid.UUID

	mode   Mode
	sink   logging.Sink
	framer *telnet.Framer
	neg    *telnet.Negotiator

	mu     sync.RWMutex
	screen *display.Screen
	fields *field.Manager
	proc   protocolProcessor

	pendingApp []byte // application bytes held back until negotiation completes
	closed     bool
}

// New constructs a Session for the given protocol mode and screen size.
// sink may be nil (becomes logging.NopSink).
func New(mode Mode, size display.Size, sink logging.Sink) *Session {
	if sink == nil {
		sink = logging.NopSink{}
	}
	screen := display.NewScreen(size)
	fields := field.NewManager(size.Rows * size.Cols)

	var proc protocolProcessor
	var negMode telnet.Mode
	if mode == Mode3270 {
		negMode = telnet.Mode3270
		proc = tn3270.NewProcessor(screen, fields, sink)
	} else {
		negMode = telnet.Mode5250
		proc = tn5250.NewProcessor(screen, fields, sink)
	}

	return &Session{
		ID:     uuid.New(),
		mode:   mode,
		sink:   sink,
		framer: telnet.NewFramer(),
		neg:    telnet.NewNegotiator(negMode, sink),
		screen: screen,
		fields: fields,
		proc:   proc,
	}
}

// Start returns the initial telnet offer set to send on connect (spec.md
// §4.2 "Initial offer set sent on connect").
func (s *Session) Start() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.neg.Start()
}

// recognizedCommandByte reports whether b could begin a 5250/3270
// protocol command, the heuristic spec.md §4.6 step 2 allows pre-
// completion application bytes to pass through on.
func (s *Session) recognizedCommandByte(b byte) bool {
	if s.mode == Mode3270 {
		switch b {
		case tn3270.CmdWrite, tn3270.CmdEraseWrite, tn3270.CmdEraseWriteAlternate,
			tn3270.CmdReadBuffer, tn3270.CmdReadModified, tn3270.CmdReadModifiedAll,
			tn3270.CmdEraseAllUnprotected, tn3270.CmdWriteStructuredField:
			return true
		}
		return false
	}
	switch b {
	case tn5250.CmdWriteToDisplay, tn5250.CmdWriteStructuredField, tn5250.CmdReadBuffer,
		tn5250.CmdReadModified, tn5250.CmdReadModifiedAll, tn5250.CmdEraseUnprotected,
		tn5250.CmdSaveScreen, tn5250.CmdRestoreScreen, tn5250.CmdClearUnit,
		tn5250.CmdDeviceIDExchange:
		return true
	}
	return false
}

// Feed is the inbound half of spec.md §4.6: raw bytes -> telnet framer ->
// (negotiation | application) -> protocol processor -> display/fields.
func (s *Session) Feed(raw []byte) (Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Feed{}, ErrSessionClosed
	}

	var response []byte
	events := s.framer.Feed(raw)
	var app []byte
	for _, ev := range events {
		switch ev.Kind {
		case telnet.EventData:
			app = append(app, ev.Data...)
		default:
			response = append(response, s.neg.HandleEvent(ev)...)
			if start := s.neg.PendingTN3270EStart(); start != nil {
				response = append(response, start...)
			}
		}
	}

	if len(app) == 0 {
		return Feed{Response: response}, nil
	}

	if !s.neg.IsComplete() {
		if len(s.pendingApp) > 0 || !s.recognizedCommandByte(app[0]) {
			s.pendingApp = append(s.pendingApp, app...)
			return Feed{Response: response}, nil
		}
		// Unambiguous command byte: fall through and process immediately
		// even though negotiation hasn't finished (spec.md §4.6 step 2).
	} else if len(s.pendingApp) > 0 {
		app = append(s.pendingApp, app...)
		s.pendingApp = nil
	}

	out, err := s.proc.Process(app)
	if err != nil {
		s.sink.Log(logging.LevelWarn, "session.feed.protocolError", map[string]any{"error": err.Error(), "session": s.ID})
	}
	// Only the protocol's application bytes are IAC-escaped; the
	// negotiation replies above are telnet commands and go out as built.
	response = append(response, telnet.Escape(out)...)
	dirty := s.screen.Modified()
	s.screen.ClearModified()
	return Feed{Response: response, DisplayDirty: dirty}, nil
}

// SetTermTypes overrides the negotiator's terminal-type cycle list before
// Start (profile override; spec.md §4.2's configured list).
func (s *Session) SetTermTypes(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.neg.SetTermTypes(names)
}

// SetEnvVar seeds a NEW-ENVIRON VAR value (e.g. USER).
func (s *Session) SetEnvVar(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.neg.Environment().Set(name, value)
}

// SetEnvUserVar seeds a NEW-ENVIRON USERVAR value (e.g. DEVNAME).
func (s *Session) SetEnvUserVar(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.neg.Environment().SetUserVar(name, value)
}

// ForceNegotiationTimeout marks pending options Failed and allows
// negotiation to proceed if essentials are settled (spec.md §4.2
// "Completion predicate", §7 NegotiationFailed).
func (s *Session) ForceNegotiationTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.neg.ForceTimeout()
}

// Key writes ebcdic(ch) at the cursor, field-validated (spec.md §4.6
// "key(ch) -- writes ebcdic(ch) at cursor, field-validated").
func (s *Session) Key(ch rune) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	addr := s.screen.Cursor()
	f, ok := s.fields.WriteAllowed(addr)
	if !ok {
		// Protected: silently dropped per spec.md §4.3 edge policy, with
		// the violation retrievable through the field manager.
		s.fields.NoteViolation(field.ErrProtected)
		return nil
	}
	if f != nil && f.Numeric() {
		if b := ebcdic.ToEBCDIC(ch); b != 0x40 && (b < 0xF0 || b > 0xF9) {
			s.fields.NoteViolation(field.ErrValidation)
			return nil
		}
	}
	if err := s.screen.WriteChar(addr, ch, 0); err != nil {
		return err
	}
	if f != nil {
		s.fields.SetModified(addr)
	}
	s.screen.SetCursor(s.screen.Advance(addr))
	return nil
}

// AID assembles a Read Modified response for the given Attention
// Identifier and returns its bytes (spec.md §4.6 "aid(code)").
func (s *Session) AID(code byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	s.proc.NoteAID(code)
	return s.proc.AssembleReadModified(code), nil
}

// AIDAll is the Read-Modified-All counterpart of AID, emitting every
// unprotected field regardless of MDT.
func (s *Session) AIDAll(code byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	s.proc.NoteAID(code)
	return s.proc.AssembleReadModifiedAll(code), nil
}

// FunctionKey presses PF key n (1-24), mapping it to the protocol's AID
// byte and assembling a Read Modified response (spec.md §4.6
// "function_key(n)").
func (s *Session) FunctionKey(n int) ([]byte, error) {
	var aid byte
	if s.mode == Mode3270 {
		aid = tn3270.PFKeyAID(n)
	} else {
		aid = tn5250.PFKeyAID(n)
	}
	return s.AID(aid)
}

// Enter presses the protocol's Enter AID (spec.md §4.6 "aid(code)"),
// sparing callers from picking tn3270.AIDEnter vs tn5250.AIDEnter by mode.
func (s *Session) Enter() ([]byte, error) {
	if s.mode == Mode3270 {
		return s.AID(tn3270.AIDEnter)
	}
	return s.AID(tn5250.AIDEnter)
}

// Clear presses the protocol's Clear AID, the mirror of Enter.
func (s *Session) Clear() ([]byte, error) {
	if s.mode == Mode3270 {
		return s.AID(tn3270.AIDClear)
	}
	return s.AID(tn5250.AIDClear)
}

// Cursor moves the cursor to the given 0-based (row, col) (spec.md §4.6
// "cursor(row,col)").
func (s *Session) Cursor(row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return s.screen.SetCursor(s.screen.Addr(row, col))
}

// Tab advances the cursor to the next navigable field (spec.md §4.6
// "tab()", §4.5 TabNext).
func (s *Session) Tab() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	next, err := s.fields.TabNext(s.screen.Cursor())
	if err != nil {
		return nil // no unprotected fields: cursor stays, per spec.md §4.5
	}
	return s.screen.SetCursor(next)
}

// Backtab is the mirror of Tab (spec.md §4.6 "backtab()").
func (s *Session) Backtab() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	prev, err := s.fields.TabPrev(s.screen.Cursor())
	if err != nil {
		return nil
	}
	return s.screen.SetCursor(prev)
}

// SnapshotDisplay returns a read-only copy of the display buffer (spec.md
// §6 Boundary API "snapshot_display()", §5 "GUI layer obtains a snapshot
// ... by copying cells under a session-held lock").
func (s *Session) SnapshotDisplay() []display.Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.screen.Snapshot()
}

// SnapshotFields returns a read-only copy of the field table (spec.md §6
// "snapshot_fields()").
func (s *Session) SnapshotFields() []field.Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.fields.All()
	out := make([]field.Field, len(all))
	for i, f := range all {
		out[i] = *f
	}
	return out
}

// FieldError returns the field manager's last recorded violation, the
// snapshot-visible signal of spec.md §7 FieldViolation.
func (s *Session) FieldError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields.Err()
}

// ScreenSize returns the session's current display dimensions.
func (s *Session) ScreenSize() display.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.screen.Size()
}

// NegotiationComplete reports whether telnet negotiation has reached the
// completion predicate of spec.md §4.2.
func (s *Session) NegotiationComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.neg.IsComplete()
}

// TN3270EState exposes the underlying negotiator's TN3270E binding state.
func (s *Session) TN3270EState() telnet.TN3270EState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.neg.TN3270EState()
}

// EncodeKey converts a local keystroke to its EBCDIC byte, exposed so a
// host transport can build raw outbound frames without reaching into
// internal/ebcdic directly.
func EncodeKey(ch rune) byte { return ebcdic.ToEBCDIC(ch) }

// Close marks the session closed; every subsequent operation becomes a
// total no-op returning ErrSessionClosed (spec.md §7 SessionClosed).
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
