// Package tn3270 implements the 3270 data-stream processor: 12/14-bit
// buffer addressing, Write/Erase-Write order dispatch, WCC semantics, and
// Read Modified assembly (spec.md §4.4). The order-dispatch shape mirrors
// internal/tn5250 (itself grounded on the teacher's executeCSISequence
// switch in internal/terminal/parser.go); the 12-bit addressing code table
// is grounded on other_examples/racingmars-go3270's screen.go (`getpos`,
// the 64-entry `codes` table of 3270 I/O characters).
package tn3270

// Command bytes (spec.md §4.4).
const (
	CmdWrite                byte = 0xF1
	CmdEraseWrite           byte = 0xF5
	CmdEraseWriteAlternate  byte = 0x7E
	CmdReadBuffer           byte = 0xF2
	CmdReadModified         byte = 0xF6
	CmdReadModifiedAll      byte = 0x6E
	CmdEraseAllUnprotected  byte = 0x6F
	CmdWriteStructuredField byte = 0xF3
)

// Order codes within a Write/Erase-Write order stream (spec.md §4.4).
const (
	OrderSBA byte = 0x11
	OrderSF  byte = 0x1D
	OrderSFE byte = 0x29
	OrderSA  byte = 0x28
	OrderIC  byte = 0x13
	OrderPT  byte = 0x05
	OrderRA  byte = 0x3C
	OrderEUA byte = 0x12
	OrderMF  byte = 0x2C
)

// WCC bit flags (spec.md §4.4 "WCC bits (3270)").
const (
	WCCReset           byte = 0x40
	WCCStartPrinter    byte = 0x08
	WCCSoundAlarm      byte = 0x04
	WCCKeyboardRestore byte = 0x02
	WCCResetMDT        byte = 0x01
)

// SA/SFE attribute-type bytes this processor recognizes (spec.md §4.4
// "(type,value) pair"). 0xC0 is the IBM-assigned basic-attribute type in
// real 3270 streams; the others are this module's own consistent scheme
// for the extended types spec.md names without assigning bit layout.
const (
	AttrTypeBasic        byte = 0xC0
	AttrTypeHighlighting byte = 0x41
	AttrTypeColor        byte = 0x42
	AttrTypeValidation   byte = 0xC1
)

// Basic 3270 attribute-byte bit layout, this module's own consistent
// scheme (spec.md names the flags, not their bit positions).
const (
	attrProtected   byte = 0x20
	attrNumeric     byte = 0x10
	attrNonDisplay  byte = 0x0C
	attrIntensified byte = 0x08
)

// AID codes (spec.md §6). The PF1-PF24 table is the standard IBM 3270
// AID assignment (not given literally by spec.md beyond PF1/PF3, which
// match here).
const (
	AIDEnter byte = 0x7D
	AIDClear byte = 0x6D
	AIDPA1   byte = 0x6C
	AIDPA2   byte = 0x6E
	AIDPA3   byte = 0x6B
	AIDPF1   byte = 0xF1
	AIDPF3   byte = 0xF3
	AIDNoAID byte = 0x60
)

// aidPF maps PF1-PF24 to their standard IBM 3270 AID byte.
var aidPF = [24]byte{
	0xF1, 0xF2, 0xF3, 0xF4, 0xF5, 0xF6, 0xF7, 0xF8, 0xF9, 0x7A, 0x7B, 0x7C,
	0xC1, 0xC2, 0xC3, 0xC4, 0xC5, 0xC6, 0xC7, 0xC8, 0xC9, 0x4A, 0x4B, 0x4C,
}

// PFKeyAID returns the AID byte for PF key n (1-24), or AIDNoAID if n is
// out of range.
func PFKeyAID(n int) byte {
	if n < 1 || n > len(aidPF) {
		return AIDNoAID
	}
	return aidPF[n-1]
}

// addressThreshold is the cell count above which 14-bit addressing is
// required on output (spec.md §4.4, DESIGN.md Open Question (a)).
const addressThreshold = 4096
