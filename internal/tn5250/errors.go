package tn5250

import "fmt"

// ParseError reports a malformed command or order, carrying enough to let
// the caller log and resync at the next command byte (spec.md §7
// ProtocolParse).
type ParseError struct {
	Command byte
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tn5250: command 0x%02X: %s", e.Command, e.Reason)
}

func parseErrorf(cmd byte, format string, args ...any) error {
	return &ParseError{Command: cmd, Reason: fmt.Sprintf(format, args...)}
}
