// Package tn5250 implements the 5250 data-stream processor: command
// dispatch, order decoding, WCC semantics, and Read-Modified/Read-Buffer
// assembly (spec.md §4.3). Order dispatch follows the teacher's
// executeCSISequence shape in internal/terminal/parser.go — a switch on a
// single dispatch byte, each case consuming its own operand bytes off the
// stream — generalized from ANSI CSI final bytes to 5250 order codes.
package tn5250

// Command bytes recognized in the first byte of a cleaned 5250 record
// (spec.md §4.3). Codes not given a literal value by the source
// specification (ReadModifiedAll, SaveScreen, RestoreScreen, ClearUnit,
// the device-identification exchange) are implementer-assigned, chosen to
// avoid collision with the specified codes; see DESIGN.md.
const (
	CmdWriteToDisplay       byte = 0xF1
	CmdWriteStructuredField byte = 0xF3
	CmdReadBuffer           byte = 0xF2
	CmdReadModified         byte = 0xF6
	CmdReadModifiedAll      byte = 0xF7
	CmdEraseUnprotected     byte = 0x12
	CmdSaveScreen           byte = 0x04
	CmdRestoreScreen        byte = 0x05
	CmdClearUnit            byte = 0x40
	CmdDeviceIDExchange     byte = 0x70
)

// Order codes within a Write-to-Display order stream (spec.md §4.3). TD
// carries length-prefixed transparent data; GUI is the GUI-escape order,
// whose construct byte this display-only client logs and skips.
const (
	OrderSBA byte = 0x11
	OrderIC  byte = 0x13
	OrderRA  byte = 0x02
	OrderEA  byte = 0x03
	OrderSF  byte = 0x1D
	OrderSFE byte = 0x29
	OrderSOH byte = 0x01
	OrderGUI byte = 0x0F
	OrderTD  byte = 0x10
)

// WCC bit flags (spec.md §4.3 "WCC bits control").
const (
	WCCResetKeyboardLock byte = 0x40
	WCCClearMDT          byte = 0x20
	WCCSoundAlarm        byte = 0x04
	WCCStartPrinter      byte = 0x08
)

// Extended-attribute pair type codes used within an SFE order. Chosen to
// avoid collision and documented as implementer-assigned, matching the
// teacher's own CSI-parameter-byte convention of a small closed set of
// recognized tags (internal/terminal/parser.go's SGR parameter switch).
const (
	SFETypeBasic        byte = 0xC0 // value is the base 5250 attribute byte
	SFETypeHighlighting byte = 0x41
	SFETypeColor        byte = 0x42
	SFETypeValidation   byte = 0x43
)

// 5250 attribute-byte bit layout this processor assigns to incoming SF/SFE
// base attribute bytes. spec.md names the flags (protected, numeric,
// display-class, MDT) but not their bit positions; this is this module's
// own scheme, read by decode5250Attr. This package never encodes a 5250
// attribute byte, and decode5250Attr does not read attrMDT.
const (
	attrProtected   byte = 0x20
	attrNumeric     byte = 0x10
	attrNonDisplay  byte = 0x0C
	attrIntensified byte = 0x08
	attrMDT         byte = 0x01
)

// AID (Attention Identifier) codes (spec.md §6, §8 scenario 3). PF1/PF3
// follow the real 5250 AID assignment (PF n is 0x30+n for PF1-PF12); the
// full PF1-24 table below continues that same scheme since spec.md does
// not enumerate it.
const (
	AIDEnter byte = 0x7D
	AIDClear byte = 0x6D
	AIDPF1   byte = 0x31
	AIDPF3   byte = 0x33
	AIDNone  byte = 0x60
)

// aidPF maps PF1-PF24 to their 5250 AID byte, stepping by 0x01 from
// AIDPF1 (0x31-0x3C for PF1-PF12) and restarting at 0xB1 (0xB1-0xBC for
// PF13-PF24), the same layout real 5250 emulators use.
var aidPF = [24]byte{
	0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39, 0x3A, 0x3B, 0x3C,
	0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7, 0xB8, 0xB9, 0xBA, 0xBB, 0xBC,
}

// PFKeyAID returns the AID byte for PF key n (1-24), or AIDNone if n is
// out of range.
func PFKeyAID(n int) byte {
	if n < 1 || n > len(aidPF) {
		return AIDNone
	}
	return aidPF[n-1]
}
