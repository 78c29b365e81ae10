package telnet

// TN3270EState is the linear session-binding progression of spec.md §3.
type TN3270EState int

const (
	NotConnected TN3270EState = iota
	TN3270ENegotiated
	DeviceNegotiated
	Bound
)

func (s TN3270EState) String() string {
	switch s {
	case NotConnected:
		return "NotConnected"
	case TN3270ENegotiated:
		return "TN3270ENegotiated"
	case DeviceNegotiated:
		return "DeviceNegotiated"
	case Bound:
		return "Bound"
	default:
		return "Unknown"
	}
}

// supportedFunctions is the minimum TN3270E function set this client
// accepts (spec.md §4.2 step 3).
var supportedFunctions = []byte{TN3270EFuncBindImage, TN3270EFuncResponses}

type tn3270eState struct {
	state                TN3270EState
	deviceType           string
	logicalUnit          string
	sentSendDeviceType   bool
	sentFunctionsRequest bool
	negotiatedFunctions  []byte
}

// handleTN3270E dispatches a TN3270E subnegotiation message by its first
// byte (the RFC 2355 message type).
func (n *Negotiator) handleTN3270E(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case TN3270EDeviceType:
		return n.handleDeviceType(data[1:])
	case TN3270EFunctions:
		return n.handleFunctions(data[1:])
	default:
		return nil
	}
}

// handleDeviceType parses "DEVICE-TYPE IS <type> [CONNECT <lu>]" and
// transitions to DeviceNegotiated, then kicks off the FUNCTIONS exchange
// (spec.md §4.2 steps 1-3).
func (n *Negotiator) handleDeviceType(data []byte) []byte {
	if len(data) == 0 || data[0] != TN3270EIs {
		return nil
	}
	rest := data[1:]
	devType := rest
	var lu string
	if idx := indexOf(rest, TN3270EConnect); idx >= 0 {
		devType = rest[:idx]
		lu = string(rest[idx+1:])
	}
	n.tn3270e.deviceType = string(devType)
	n.tn3270e.logicalUnit = lu
	n.tn3270e.state = DeviceNegotiated

	n.tn3270e.sentFunctionsRequest = true
	payload := append([]byte{TN3270EFunctions, TN3270ERequest}, supportedFunctions...)
	return Subnegotiation(OptTN3270E, payload)
}

// handleFunctions accepts the intersection of our supportedFunctions and
// the peer's IS/REQUEST list (spec.md §4.2 step 3).
func (n *Negotiator) handleFunctions(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case TN3270EIs:
		n.tn3270e.negotiatedFunctions = intersectFunctions(supportedFunctions, data[1:])
		return nil
	case TN3270ERequest:
		accepted := intersectFunctions(supportedFunctions, data[1:])
		n.tn3270e.negotiatedFunctions = accepted
		payload := append([]byte{TN3270EFunctions, TN3270EIs}, accepted...)
		return Subnegotiation(OptTN3270E, payload)
	default:
		return nil
	}
}

// NotifyBindImage records receipt of a BIND-IMAGE structured field (or
// protocol equivalent) from the in-band 3270 data stream, completing the
// TN3270E progression (spec.md §3, §4.2 step 4).
func (n *Negotiator) NotifyBindImage() {
	if n.tn3270e.state == DeviceNegotiated {
		n.tn3270e.state = Bound
	}
}

func indexOf(b []byte, target byte) int {
	for i, c := range b {
		if c == target {
			return i
		}
	}
	return -1
}

func intersectFunctions(ours, theirs []byte) []byte {
	set := make(map[byte]bool, len(theirs))
	for _, f := range theirs {
		set[f] = true
	}
	var out []byte
	for _, f := range ours {
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}
