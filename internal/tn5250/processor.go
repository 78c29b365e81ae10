package tn5250

import (
	"github.com/stlalpha/tn5250r/internal/display"
	"github.com/stlalpha/tn5250r/internal/ebcdic"
	"github.com/stlalpha/tn5250r/internal/field"
	"github.com/stlalpha/tn5250r/internal/logging"
)

// Processor consumes cleaned (post-telnet) 5250 records and drives a
// Screen and a field.Manager (spec.md §4.3). It holds no transport state;
// Process is pure with respect to its two collaborators.
type Processor struct {
	screen *display.Screen
	fields *field.Manager
	sink   logging.Sink

	keyboardLocked bool
	lastAID        byte

	savedCells  []display.Cell
	savedFields []field.Field
}

// NewProcessor returns a processor driving screen and fields, logging
// through sink (nil becomes a NopSink).
func NewProcessor(screen *display.Screen, fields *field.Manager, sink logging.Sink) *Processor {
	if sink == nil {
		sink = logging.NopSink{}
	}
	return &Processor{screen: screen, fields: fields, sink: sink}
}

// KeyboardLocked reports whether the last WCC left the keyboard locked.
func (p *Processor) KeyboardLocked() bool { return p.keyboardLocked }

// Process dispatches one cleaned 5250 command record, returning any
// response bytes (Read-* commands, Query-Reply) the host expects back.
func (p *Processor) Process(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, parseErrorf(0, "empty command record")
	}
	cmd := data[0]
	rest := data[1:]
	switch cmd {
	case CmdWriteToDisplay:
		return nil, p.writeToDisplay(cmd, rest)
	case CmdWriteStructuredField:
		return p.writeStructuredField(rest)
	case CmdReadBuffer:
		return p.AssembleReadBuffer(), nil
	case CmdReadModified:
		return p.AssembleReadModified(p.lastAID), nil
	case CmdReadModifiedAll:
		return p.AssembleReadModifiedAll(p.lastAID), nil
	case CmdEraseUnprotected:
		p.eraseUnprotected()
		return nil, nil
	case CmdSaveScreen:
		p.SaveScreen()
		return nil, nil
	case CmdRestoreScreen:
		p.RestoreScreen()
		return nil, nil
	case CmdClearUnit:
		p.clearUnit()
		return nil, nil
	case CmdDeviceIDExchange:
		return p.deviceIDReply(), nil
	default:
		return nil, parseErrorf(cmd, "unrecognized command")
	}
}

// writeToDisplay applies the WCC then the order stream (spec.md §4.3).
func (p *Processor) writeToDisplay(cmd byte, data []byte) error {
	if len(data) == 0 {
		return parseErrorf(cmd, "missing WCC byte")
	}
	p.applyWCC(data[0])
	return p.runOrders(cmd, data[1:])
}

func (p *Processor) applyWCC(wcc byte) {
	if wcc&WCCResetKeyboardLock != 0 {
		p.keyboardLocked = false
	}
	if wcc&WCCClearMDT != 0 {
		p.fields.ResetMDT()
	}
	if wcc&WCCSoundAlarm != 0 {
		p.sink.Log(logging.LevelInfo, "tn5250.wcc.alarm", nil)
	}
	if wcc&WCCStartPrinter != 0 {
		p.sink.Log(logging.LevelInfo, "tn5250.wcc.startPrinter", nil)
	}
}

// runOrders walks an order stream, dispatching recognized order codes and
// treating any other byte as an EBCDIC character written at the cursor
// (spec.md §4.3 "Order codes" / "Edge policies").
func (p *Processor) runOrders(cmd byte, data []byte) error {
	currentAttr := byte(0)
	i := 0
	for i < len(data) {
		b := data[i]
		switch b {
		case OrderSBA:
			if i+2 >= len(data) {
				return parseErrorf(cmd, "truncated SBA operand")
			}
			row := decodeCoord(data[i+1])
			col := decodeCoord(data[i+2])
			addr := p.screen.Addr(row, col)
			if err := p.screen.SetCursor(addr); err != nil {
				return parseErrorf(cmd, "SBA address out of range")
			}
			i += 3

		case OrderIC:
			i++

		case OrderRA:
			if i+3 >= len(data) {
				return parseErrorf(cmd, "truncated RA operand")
			}
			row := decodeCoord(data[i+1])
			col := decodeCoord(data[i+2])
			to := p.screen.Addr(row, col)
			ch := ebcdic.ToASCII(data[i+3])
			if err := p.screen.FillChar(p.screen.Cursor(), to, ch); err != nil {
				return parseErrorf(cmd, "RA address out of range")
			}
			p.screen.SetCursor(p.screen.Advance(to))
			i += 4

		case OrderEA:
			if i+3 >= len(data) {
				return parseErrorf(cmd, "truncated EA operand")
			}
			row := decodeCoord(data[i+1])
			col := decodeCoord(data[i+2])
			to := p.screen.Addr(row, col)
			if err := p.screen.FillAttr(p.screen.Cursor(), to, data[i+3]); err != nil {
				return parseErrorf(cmd, "EA address out of range")
			}
			p.screen.SetCursor(p.screen.Advance(to))
			i += 4

		case OrderSF:
			if i+1 >= len(data) {
				return parseErrorf(cmd, "truncated SF operand")
			}
			p.openField(data[i+1])
			i += 2

		case OrderSFE:
			n, consumed, err := p.openExtendedField(data[i+1:])
			if err != nil {
				return parseErrorf(cmd, "truncated SFE operand")
			}
			_ = n
			i += 1 + consumed

		case OrderTD:
			if i+2 >= len(data) {
				return parseErrorf(cmd, "truncated TD length")
			}
			n := int(data[i+1])<<8 | int(data[i+2])
			if i+3+n > len(data) {
				return parseErrorf(cmd, "truncated TD payload")
			}
			// Transparent data bypasses EBCDIC translation.
			for _, raw := range data[i+3 : i+3+n] {
				addr := p.screen.Cursor()
				p.screen.WriteChar(addr, rune(raw), currentAttr)
				p.screen.SetCursor(p.screen.Advance(addr))
			}
			i += 3 + n

		case OrderGUI:
			if i+1 >= len(data) {
				return parseErrorf(cmd, "truncated GUI escape")
			}
			p.sink.Log(logging.LevelDebug, "tn5250.order.guiEscape", map[string]any{"construct": data[i+1]})
			i += 2

		case OrderSOH:
			if i+1 >= len(data) {
				return parseErrorf(cmd, "truncated SOH length")
			}
			n := int(data[i+1])
			if i+2+n > len(data) {
				return parseErrorf(cmd, "truncated SOH payload")
			}
			if n > 0 {
				p.keyboardLocked = data[i+2]&0x80 != 0
			}
			i += 2 + n

		default:
			ch := ebcdic.ToASCII(b)
			addr := p.screen.Cursor()
			p.screen.WriteChar(addr, ch, currentAttr)
			p.screen.SetCursor(p.screen.Advance(addr))
			i++
		}
	}
	return nil
}

// decodeCoord maps a 5250 SBA coordinate byte to a 0-based row/col: 0
// stays 0 (the spec.md §8 scenario-2 literal bytes address the origin
// this way), any other value is treated as 1-based per spec.md §4.3.
func decodeCoord(b byte) int {
	if b == 0 {
		return 0
	}
	return int(b) - 1
}

func decode5250Attr(b byte) (field.DisplayClass, field.Flag) {
	var flags field.Flag
	if b&attrProtected != 0 {
		flags |= field.Protected
	}
	if b&attrNumeric != 0 {
		flags |= field.Numeric
	}
	class := field.DisplayNormal
	if b&attrNonDisplay == attrNonDisplay {
		class = field.DisplayNonDisplay
	} else if b&attrIntensified != 0 {
		class = field.DisplayIntensified
	}
	return class, flags
}

func (p *Processor) openField(attr byte) {
	class, flags := decode5250Attr(attr)
	addr := p.screen.Cursor()
	p.fields.RemoveAt(addr) // MF-in-place-via-SF: replacing an already-open field at this address
	p.fields.ClearErr()
	p.fields.AddField(addr, class, flags, field.ExtAttr{})
	p.fields.RecomputeLengths(p.screen.Len())
	p.screen.SetCursor(p.screen.Advance(addr))
}

// openExtendedField parses an SFE operand: a count byte, that many
// (type,value) pairs, returning bytes consumed after the order code.
func (p *Processor) openExtendedField(data []byte) (int, int, error) {
	if len(data) == 0 {
		return 0, 0, parseErrorf(OrderSFE, "missing SFE count")
	}
	n := int(data[0])
	need := 1 + n*2
	if len(data) < need {
		return n, 0, parseErrorf(OrderSFE, "short SFE pair list")
	}
	var base byte
	ext := field.ExtAttr{}
	for i := 0; i < n; i++ {
		typ := data[1+i*2]
		val := data[1+i*2+1]
		switch typ {
		case SFETypeBasic:
			base = val
		case SFETypeHighlighting:
			ext.Highlighting = val
		case SFETypeColor:
			ext.Color = val
		case SFETypeValidation:
			ext.Validation = field.ValidationKind(val)
		}
	}
	class, flags := decode5250Attr(base)
	addr := p.screen.Cursor()
	p.fields.RemoveAt(addr)
	p.fields.ClearErr()
	p.fields.AddField(addr, class, flags, ext)
	p.fields.RecomputeLengths(p.screen.Len())
	p.screen.SetCursor(p.screen.Advance(addr))
	return n, need, nil
}

func (p *Processor) eraseUnprotected() {
	for _, f := range p.fields.UnprotectedFields() {
		for addr := f.DataStart(); addr <= f.StartAddr+f.Length; addr++ {
			p.screen.WriteChar(addr, ' ', 0)
		}
	}
	p.fields.ResetMDT()
	p.keyboardLocked = false
}

func (p *Processor) clearUnit() {
	p.screen.Resize(p.screen.Size())
	p.fields.Reset()
	p.keyboardLocked = false
}

// SaveScreen snapshots the display and field table (Open Question (b) in
// DESIGN.md: extended attributes persist across save/restore).
func (p *Processor) SaveScreen() {
	p.savedCells = p.screen.Snapshot()
	p.savedFields = p.savedFields[:0]
	for _, f := range p.fields.All() {
		p.savedFields = append(p.savedFields, *f)
	}
}

// RestoreScreen reinstates the last SaveScreen snapshot, a no-op if none
// was taken.
func (p *Processor) RestoreScreen() {
	if p.savedCells == nil {
		return
	}
	for addr, cell := range p.savedCells {
		p.screen.WriteChar(addr, cell.Char, cell.Attr)
	}
	p.fields.Reset()
	for _, f := range p.savedFields {
		p.fields.AddField(f.StartAddr, f.Class, f.Flags, f.Ext)
	}
	p.fields.RecomputeLengths(p.screen.Len())
}

func (p *Processor) deviceIDReply() []byte {
	return []byte("IBM-3179-2")
}

// NoteAID records the AID of the most recent key press, used by a
// subsequent host-initiated Read-Modified/Read-Modified-All command.
func (p *Processor) NoteAID(aid byte) { p.lastAID = aid }
