package tn3270

import (
	"github.com/stlalpha/tn5250r/internal/display"
	"github.com/stlalpha/tn5250r/internal/ebcdic"
	"github.com/stlalpha/tn5250r/internal/field"
	"github.com/stlalpha/tn5250r/internal/logging"
)

// Processor consumes cleaned 3270 records and drives a Screen and a
// field.Manager (spec.md §4.4).
type Processor struct {
	screen *display.Screen
	fields *field.Manager
	sink   logging.Sink

	keyboardLocked bool
	lastAID        byte

	savedCells  []display.Cell
	savedFields []field.Field
}

// NewProcessor returns a processor driving screen and fields.
func NewProcessor(screen *display.Screen, fields *field.Manager, sink logging.Sink) *Processor {
	if sink == nil {
		sink = logging.NopSink{}
	}
	return &Processor{screen: screen, fields: fields, sink: sink}
}

// KeyboardLocked reports whether the last WCC left the keyboard locked.
func (p *Processor) KeyboardLocked() bool { return p.keyboardLocked }

// NoteAID records the AID of the most recent key press.
func (p *Processor) NoteAID(aid byte) { p.lastAID = aid }

// Process dispatches one cleaned 3270 command record.
func (p *Processor) Process(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, parseErrorf(0, "empty command record")
	}
	cmd := data[0]
	rest := data[1:]
	switch cmd {
	case CmdWrite:
		return nil, p.writeCommand(cmd, rest)
	case CmdEraseWrite, CmdEraseWriteAlternate:
		p.screen.Resize(p.screen.Size())
		p.fields.Reset()
		return nil, p.writeCommand(cmd, rest)
	case CmdReadBuffer:
		return p.AssembleReadBuffer(), nil
	case CmdReadModified:
		return p.AssembleReadModified(p.lastAID), nil
	case CmdReadModifiedAll:
		return p.AssembleReadModifiedAll(p.lastAID), nil
	case CmdEraseAllUnprotected:
		p.eraseAllUnprotected()
		return nil, nil
	case CmdWriteStructuredField:
		return p.writeStructuredField(rest)
	default:
		return nil, parseErrorf(cmd, "unrecognized command")
	}
}

func (p *Processor) writeCommand(cmd byte, data []byte) error {
	if len(data) == 0 {
		return parseErrorf(cmd, "missing WCC byte")
	}
	p.applyWCC(data[0])
	return p.runOrders(cmd, data[1:])
}

func (p *Processor) applyWCC(wcc byte) {
	if wcc&WCCReset != 0 {
		p.keyboardLocked = false
	}
	if wcc&WCCKeyboardRestore != 0 {
		p.keyboardLocked = false
	}
	if wcc&WCCResetMDT != 0 {
		p.fields.ResetMDT()
	}
	if wcc&WCCSoundAlarm != 0 {
		p.sink.Log(logging.LevelInfo, "tn3270.wcc.alarm", nil)
	}
	if wcc&WCCStartPrinter != 0 {
		p.sink.Log(logging.LevelInfo, "tn3270.wcc.startPrinter", nil)
	}
}

func (p *Processor) bufSize() int { return p.screen.Len() }

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
			addr, ok := decodeAddr(data[i+1], data[i+2], p.bufSize())
			if !ok {
				return parseErrorf(cmd, "malformed SBA address")
			}
			if err := p.screen.SetCursor(addr); err != nil {
				return parseErrorf(cmd, "SBA address out of range")
			}
			i += 3

		case OrderIC:
			i++

		case OrderPT:
			next, err := p.fields.TabNext(p.screen.Cursor())
			if err == nil {
				p.screen.SetCursor(next)
			}
			i++

		case OrderRA:
			if i+3 >= len(data) {
				return parseErrorf(cmd, "truncated RA operand")
			}
			to, ok := decodeAddr(data[i+1], data[i+2], p.bufSize())
			if !ok {
				return parseErrorf(cmd, "malformed RA address")
			}
			ch := ebcdic.ToASCII(data[i+3])
			if err := p.screen.FillChar(p.screen.Cursor(), to, ch); err != nil {
				return parseErrorf(cmd, "RA address out of range")
			}
			p.screen.SetCursor(p.screen.Advance(to))
			i += 4

		case OrderEUA:
			if i+2 >= len(data) {
				return parseErrorf(cmd, "truncated EUA operand")
			}
			to, ok := decodeAddr(data[i+1], data[i+2], p.bufSize())
			if !ok {
				return parseErrorf(cmd, "malformed EUA address")
			}
			p.eraseUnprotectedRange(p.screen.Cursor(), to)
			p.screen.SetCursor(p.screen.Advance(to))
			i += 3

		case OrderSF:
			if i+1 >= len(data) {
				return parseErrorf(cmd, "truncated SF operand")
			}
			p.openField(data[i+1], field.ExtAttr{})
			i += 2

		case OrderSFE:
			consumed, err := p.openExtendedField(data[i+1:], false)
			if err != nil {
				return parseErrorf(cmd, "truncated SFE operand")
			}
			i += 1 + consumed

		case OrderMF:
			consumed, err := p.openExtendedField(data[i+1:], true)
			if err != nil {
				return parseErrorf(cmd, "truncated MF operand")
			}
			i += 1 + consumed

		case OrderSA:
			if i+2 >= len(data) {
				return parseErrorf(cmd, "truncated SA operand")
			}
			if data[i+1] == AttrTypeBasic {
				currentAttr = data[i+2]
			}
			i += 3

		default:
			// Host data lands regardless of field protection; protection
			// only gates operator input (session key handling).
			ch := ebcdic.ToASCII(b)
			addr := p.screen.Cursor()
			p.screen.WriteChar(addr, ch, currentAttr)
			p.screen.SetCursor(p.screen.Advance(addr))
			i++
		}
	}
	return nil
}

func decode3270Attr(b byte) (field.DisplayClass, field.Flag) {
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

func (p *Processor) openField(attr byte, ext field.ExtAttr) {
	class, flags := decode3270Attr(attr)
	addr := p.screen.Cursor()
	p.fields.RemoveAt(addr)
	p.fields.ClearErr()
	p.fields.AddField(addr, class, flags, ext)
	p.fields.RecomputeLengths(p.bufSize())
	p.screen.SetCursor(p.screen.Advance(addr))
}

// openExtendedField parses an SFE/MF operand: a count byte, that many
// (type,value) pairs. For MF, the field must already exist at the cursor
// address (ModifyAt); for SFE, a new field is opened.
func (p *Processor) openExtendedField(data []byte, modify bool) (int, error) {
	if len(data) == 0 {
		return 0, parseErrorf(OrderSFE, "missing count")
	}
	n := int(data[0])
	need := 1 + n*2
	if len(data) < need {
		return 0, parseErrorf(OrderSFE, "short pair list")
	}
	var base byte
	ext := field.ExtAttr{}
	for i := 0; i < n; i++ {
		typ := data[1+i*2]
		val := data[1+i*2+1]
		switch typ {
		case AttrTypeBasic:
			base = val
		case AttrTypeHighlighting:
			ext.Highlighting = val
		case AttrTypeColor:
			ext.Color = val
		case AttrTypeValidation:
			ext.Validation = field.ValidationKind(val)
		}
	}
	class, flags := decode3270Attr(base)
	addr := p.screen.Cursor()
	if modify {
		p.fields.ModifyAt(addr, class, flags, ext)
	} else {
		p.fields.RemoveAt(addr)
		p.fields.ClearErr()
		p.fields.AddField(addr, class, flags, ext)
		p.fields.RecomputeLengths(p.bufSize())
	}
	p.screen.SetCursor(p.screen.Advance(addr))
	return need, nil
}

func (p *Processor) eraseUnprotectedRange(from, to int) {
	addr := from
	for {
		if f, ok := p.fields.WriteAllowed(addr); ok && f != nil {
			p.screen.WriteChar(addr, ' ', 0)
		}
		if addr == to {
			return
		}
		addr = p.screen.Advance(addr)
	}
}

func (p *Processor) eraseAllUnprotected() {
	for _, f := range p.fields.UnprotectedFields() {
		for addr := f.DataStart(); addr <= f.StartAddr+f.Length; addr++ {
			p.screen.WriteChar(addr, ' ', 0)
		}
	}
	p.fields.ResetMDT()
}

// SaveScreen snapshots the display and field table.
func (p *Processor) SaveScreen() {
	p.savedCells = p.screen.Snapshot()
	p.savedFields = p.savedFields[:0]
	for _, f := range p.fields.All() {
		p.savedFields = append(p.savedFields, *f)
	}
}

// RestoreScreen reinstates the last SaveScreen snapshot.
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
	p.fields.RecomputeLengths(p.bufSize())
}
