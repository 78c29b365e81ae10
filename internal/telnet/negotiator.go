package telnet

import (
	"time"

	"github.com/stlalpha/tn5250r/internal/logging"
)

// OptionState is the per-option negotiation state (spec.md §3
// NegotiationOptionState).
type OptionState int

const (
	StateInitial OptionState = iota
	StateRequestedDo
	StateRequestedWill
	StateActive
	StateRefused
	StateFailed
)

func (s OptionState) String() string {
	switch s {
	case StateInitial:
		return "Initial"
	case StateRequestedDo:
		return "RequestedDo"
	case StateRequestedWill:
		return "RequestedWill"
	case StateActive:
		return "Active"
	case StateRefused:
		return "Refused"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

func terminal(s OptionState) bool {
	return s == StateActive || s == StateRefused || s == StateFailed
}

// Mode selects which protocol's initial offer set and terminal-type list
// the negotiator uses (spec.md §4.2).
type Mode int

const (
	Mode5250 Mode = iota
	Mode3270
)

// optionRecord tracks the two independent negotiation roles an option can
// have: "local" (WILL/WONT — our own use of the option, driven by peer DO)
// and "remote" (DO/DONT — the peer's use of the option, which we requested).
// spec.md §3 describes a single NegotiationOptionState per option; both
// roles share that same enum here, one instance per direction, since the
// "both sides" initial offer (spec.md §4.2) genuinely negotiates both.
type optionRecord struct {
	local  OptionState
	remote OptionState
}

// Negotiator drives the per-option telnet negotiation state machine plus
// TERMINAL-TYPE cycling, NEW-ENVIRON, and TN3270E subnegotiation.
type Negotiator struct {
	mode Mode
	sink logging.Sink

	opts map[byte]*optionRecord

	termTypes []string
	termIdx   int

	env *Environment

	tn3270e tn3270eState

	startedAt           time.Time
	essentialDeadline   time.Duration
	essentialsSettledAt time.Time
	forcedComplete      bool
	termTypeSent        bool
}

// essentialOptions are the options that must reach a terminal state in
// both directions before negotiation can complete (spec.md §4.2).
var essentialOptions = []byte{OptBinary, OptEOR, OptSGA}

// DefaultEssentialDeadline is how long the negotiator waits, after the
// essential options settle, for TERMINAL-TYPE before force-completing.
const DefaultEssentialDeadline = 2 * time.Second

// NewNegotiator constructs a Negotiator for the given protocol mode.
func NewNegotiator(mode Mode, sink logging.Sink) *Negotiator {
	if sink == nil {
		sink = logging.NopSink{}
	}
	n := &Negotiator{
		mode:              mode,
		sink:              sink,
		opts:              make(map[byte]*optionRecord),
		env:               newEnvironment(),
		startedAt:         time.Now(),
		essentialDeadline: DefaultEssentialDeadline,
	}
	if mode == Mode3270 {
		n.termTypes = []string{"IBM-3278-2", "IBM-3279-2", "IBM-3278-2-E", "IBM-3279-2-E"}
	} else {
		n.termTypes = []string{"IBM-3179-2", "IBM-3180-2", "IBM-5555-C01"}
	}
	return n
}

func (n *Negotiator) record(opt byte) *optionRecord {
	r, ok := n.opts[opt]
	if !ok {
		r = &optionRecord{}
		n.opts[opt] = r
	}
	return r
}

// LocalState returns the state of our own WILL/WONT commitment for opt.
func (n *Negotiator) LocalState(opt byte) OptionState { return n.record(opt).local }

// RemoteState returns the state of the peer's DO/DONT commitment for opt.
func (n *Negotiator) RemoteState(opt byte) OptionState { return n.record(opt).remote }

// willing reports whether we agree to perform opt ourselves when the peer
// asks via DO.
func (n *Negotiator) willing(opt byte) bool {
	switch opt {
	case OptBinary, OptEOR, OptSGA, OptTermType, OptNewEnviron:
		return true
	case OptTN3270E:
		return n.mode == Mode3270
	case OptEcho:
		return false
	default:
		return false
	}
}

// wanted reports whether we want the peer to perform opt when it offers
// via WILL. Only the "both sides" essential options (spec.md §4.2) have a
// remote role here: TERMINAL-TYPE/NEW-ENVIRON/TN3270E are client-offered
// (WILL only) and have no corresponding DO we issue.
func (n *Negotiator) wanted(opt byte) bool {
	switch opt {
	case OptBinary, OptEOR, OptSGA:
		return true
	default:
		return false
	}
}

// Start returns the initial offer set to send on connect (spec.md §4.2):
// BINARY/EOR/SGA both sides, WILL TERMINAL-TYPE, WILL NEW-ENVIRON, and in
// 3270 mode WILL TN3270E.
func (n *Negotiator) Start() []byte {
	var out []byte
	for _, opt := range essentialOptions {
		r := n.record(opt)
		out = append(out, Command(WILL, opt)...)
		r.local = StateRequestedWill
		out = append(out, Command(DO, opt)...)
		r.remote = StateRequestedDo
	}
	out = append(out, Command(WILL, OptTermType)...)
	n.record(OptTermType).local = StateRequestedWill

	out = append(out, Command(WILL, OptNewEnviron)...)
	n.record(OptNewEnviron).local = StateRequestedWill

	if n.mode == Mode3270 {
		out = append(out, Command(WILL, OptTN3270E)...)
		n.record(OptTN3270E).local = StateRequestedWill
	}
	return out
}

// HandleEvent processes one telnet.Event and returns any outbound bytes
// the negotiator wants sent in response.
func (n *Negotiator) HandleEvent(ev Event) []byte {
	switch ev.Kind {
	case EventCommand:
		return n.handleCommand(ev.Command, ev.Option)
	case EventSubnegotiation:
		return n.handleSubnegotiation(ev.SubOption, ev.SubData)
	default:
		return nil
	}
}

// handleSubnegotiation dispatches a completed SB ... IAC SE payload by
// option value, the teacher's handleSubnegotiation shape (switch on
// tc.sbOption in internal/telnetserver/telnet.go) generalized to the
// options this client understands.
func (n *Negotiator) handleSubnegotiation(opt byte, data []byte) []byte {
	switch opt {
	case OptTermType:
		return n.handleTermType(data)
	case OptNewEnviron:
		return n.handleNewEnviron(data)
	case OptTN3270E:
		return n.handleTN3270E(data)
	default:
		return nil
	}
}

// handleTermType answers SB TERMINAL-TYPE SEND SE with the next name in
// the configured cycle, wrapping at the end (spec.md §4.2, §8 scenario 4).
func (n *Negotiator) handleTermType(data []byte) []byte {
	if len(data) == 0 || data[0] != TermTypeSend {
		return nil
	}
	name := n.termTypes[n.termIdx%len(n.termTypes)]
	n.termIdx = (n.termIdx + 1) % len(n.termTypes)
	n.termTypeSent = true
	payload := append([]byte{TermTypeIs}, []byte(name)...)
	return Subnegotiation(OptTermType, payload)
}

func (n *Negotiator) handleCommand(cmd, opt byte) []byte {
	r := n.record(opt)
	switch cmd {
	case WILL:
		return n.onWill(opt, r)
	case WONT:
		return n.onWont(opt, r)
	case DO:
		return n.onDo(opt, r)
	case DONT:
		return n.onDont(opt, r)
	default:
		return nil
	}
}

// onDo handles the peer asking us to perform opt (drives r.local).
func (n *Negotiator) onDo(opt byte, r *optionRecord) []byte {
	switch r.local {
	case StateInitial:
		if n.willing(opt) {
			r.local = StateActive
			n.noteEssentialIfSettled()
			n.maybeStartTN3270E(opt)
			return Command(WILL, opt)
		}
		r.local = StateRefused
		return Command(WONT, opt)
	case StateRequestedWill:
		r.local = StateActive
		n.noteEssentialIfSettled()
		n.maybeStartTN3270E(opt)
		return nil
	case StateActive:
		return nil // idempotent: no resend, loop-free
	default:
		return nil
	}
}

func (n *Negotiator) onDont(opt byte, r *optionRecord) []byte {
	var out []byte
	switch r.local {
	case StateRequestedWill, StateInitial:
		r.local = StateRefused
	case StateActive:
		r.local = StateRefused
		out = Command(WONT, opt)
	}
	if opt == OptTN3270E {
		// Any DONT on TN3270E at any stage resets session binding
		// (spec.md §3 TN3270EState, §4.2 step "Any DONT... drops back
		// to NotConnected").
		n.tn3270e = tn3270eState{}
	}
	n.noteEssentialIfSettled()
	return out
}

// onWill handles the peer announcing it will perform opt (drives r.remote).
func (n *Negotiator) onWill(opt byte, r *optionRecord) []byte {
	switch r.remote {
	case StateInitial:
		if n.wanted(opt) {
			r.remote = StateActive
			n.noteEssentialIfSettled()
			return Command(DO, opt)
		}
		r.remote = StateRefused
		return Command(DONT, opt)
	case StateRequestedDo:
		r.remote = StateActive
		n.noteEssentialIfSettled()
		return nil
	case StateActive:
		return nil // idempotent
	default:
		return nil
	}
}

func (n *Negotiator) onWont(opt byte, r *optionRecord) []byte {
	switch r.remote {
	case StateRequestedDo, StateInitial:
		r.remote = StateRefused
	}
	n.noteEssentialIfSettled()
	return nil
}

func (n *Negotiator) noteEssentialIfSettled() {
	if !n.essentialsSettledAt.IsZero() {
		return
	}
	for _, opt := range essentialOptions {
		r := n.record(opt)
		if !terminal(r.local) || !terminal(r.remote) {
			return
		}
	}
	n.essentialsSettledAt = time.Now()
}

// maybeStartTN3270E kicks off the TN3270E device-type exchange once the
// TN3270E option itself reaches Active (spec.md §4.2 step 1).
func (n *Negotiator) maybeStartTN3270E(opt byte) {
	if opt != OptTN3270E || n.mode != Mode3270 {
		return
	}
	n.tn3270e.state = TN3270ENegotiated
}

// PendingTN3270EStart returns the SEND DEVICE-TYPE subnegotiation to send
// immediately after TN3270E becomes active, if one is due.
func (n *Negotiator) PendingTN3270EStart() []byte {
	if n.tn3270e.state != TN3270ENegotiated || n.tn3270e.sentSendDeviceType {
		return nil
	}
	n.tn3270e.sentSendDeviceType = true
	return Subnegotiation(OptTN3270E, []byte{TN3270ESend, TN3270EDeviceType})
}

// IsComplete implements the completion predicate of spec.md §4.2: every
// essential option terminal in both directions, AND either TERMINAL-TYPE
// has returned a name or the post-essentials timeout has elapsed.
func (n *Negotiator) IsComplete() bool {
	for _, opt := range essentialOptions {
		r := n.record(opt)
		if !terminal(r.local) || !terminal(r.remote) {
			return false
		}
	}
	if n.termTypeSent {
		return true
	}
	if n.essentialsSettledAt.IsZero() {
		return false
	}
	return n.forcedComplete || time.Since(n.essentialsSettledAt) >= n.essentialDeadline
}

// ForceTimeout marks any option still short of a terminal state Failed,
// and allows IsComplete to proceed if essentials are settled (spec.md §7:
// NegotiationFailed policy — surface, proceed if BINARY/EOR/SGA Active).
func (n *Negotiator) ForceTimeout() {
	for opt, r := range n.opts {
		if !terminal(r.local) {
			r.local = StateFailed
			n.sink.Log(logging.LevelWarn, "telnet.negotiation.timeout", map[string]any{"option": opt, "direction": "local"})
		}
		if !terminal(r.remote) {
			r.remote = StateFailed
			n.sink.Log(logging.LevelWarn, "telnet.negotiation.timeout", map[string]any{"option": opt, "direction": "remote"})
		}
	}
	n.forcedComplete = true
}

// TN3270EState returns the current TN3270E session state.
func (n *Negotiator) TN3270EState() TN3270EState { return n.tn3270e.state }

// TN3270EDeviceType returns the negotiated device type, if any.
func (n *Negotiator) TN3270EDeviceType() (deviceType, lu string, ok bool) {
	if n.tn3270e.deviceType == "" {
		return "", "", false
	}
	return n.tn3270e.deviceType, n.tn3270e.logicalUnit, true
}

// ResetTermType returns the terminal-type cycle to index 0.
func (n *Negotiator) ResetTermType() { n.termIdx = 0 }

// SetTermTypes replaces the terminal-type cycle list (profile override of
// the per-mode defaults). An empty list keeps the current one.
func (n *Negotiator) SetTermTypes(names []string) {
	if len(names) == 0 {
		return
	}
	n.termTypes = append([]string(nil), names...)
	n.termIdx = 0
}

// Environment exposes the NEW-ENVIRON variable map for host configuration.
func (n *Negotiator) Environment() *Environment { return n.env }
