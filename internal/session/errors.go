package session

import "errors"

// ErrSessionClosed is returned by every operation once Close has been
// called (spec.md §7 SessionClosed: "total no-op returning the error").
var ErrSessionClosed = errors.New("session: closed")

// ErrNotNegotiated reports that telnet negotiation has not completed. No
// Session method returns it: the protocol processor is chosen in New, and
// Key, AID and the other key operations run whether or not negotiation is
// complete.
var ErrNotNegotiated = errors.New("session: telnet negotiation not complete")
