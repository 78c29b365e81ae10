// Package telnet implements the telnet transport layer the core runs over:
// IAC framing with 0xFF escaping, a per-option negotiation state machine,
// NEW-ENVIRON (RFC 1572), and TN3270E device-type/LU binding.
//
// The frame-layer state machine is adapted from the teacher BBS's
// internal/telnetserver/telnet.go TelnetConn IAC scanner, generalized from
// a single fixed option set (ECHO/SGA/NAWS/TERMTYPE) tied to a blocking
// net.Conn into a pure Feed(data)->events scanner with no I/O of its own,
// so it can drive both negotiation and steady-state 5250/3270 data
// splitting from the same code path.
package telnet

// Telnet command bytes (RFC 854).
const (
	SE   byte = 240 // Subnegotiation End
	GA   byte = 249 // Go Ahead
	SB   byte = 250 // Subnegotiation Begin
	WILL byte = 251
	WONT byte = 252
	DO   byte = 253
	DONT byte = 254
	IAC  byte = 255 // Interpret As Command
)

// Telnet options used by this client (spec.md §6).
const (
	OptBinary     byte = 0
	OptEcho       byte = 1
	OptSGA        byte = 3
	OptTermType   byte = 24
	OptEOR        byte = 25
	OptNAWS       byte = 31
	OptNewEnviron byte = 39
	OptTN3270E    byte = 40
)

// TERMINAL-TYPE subnegotiation subcommands (RFC 1091).
const (
	TermTypeIs   byte = 0
	TermTypeSend byte = 1
)

// NEW-ENVIRON subnegotiation subcommands and type tags (RFC 1572).
const (
	EnvIS      byte = 0
	EnvSend    byte = 1
	EnvInfo    byte = 2
	EnvVar     byte = 0
	EnvValue   byte = 1
	EnvEsc     byte = 2
	EnvUserVar byte = 3
)

// TN3270E subnegotiation message types and subcommands (RFC 2355 §4).
const (
	TN3270EAssociate  byte = 0x00
	TN3270EConnect    byte = 0x01
	TN3270EDeviceType byte = 0x02
	TN3270EFunctions  byte = 0x03
	TN3270EIs         byte = 0x04
	TN3270EReason     byte = 0x05
	TN3270ERequest    byte = 0x07
	TN3270ESend       byte = 0x08
)

// TN3270E FUNCTIONS values this client negotiates (spec.md §4.2 step 3:
// "minimum: BIND-IMAGE, RESPONSES").
const (
	TN3270EFuncBindImage byte = 0x00
	TN3270EFuncResponses byte = 0x02
)
