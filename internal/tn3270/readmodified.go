package tn3270

import (
	"github.com/stlalpha/tn5250r/internal/ebcdic"
	"github.com/stlalpha/tn5250r/internal/field"
)

func (p *Processor) encodeAddrBytes(addr int) []byte {
	b0, b1 := encodeAddr(addr, p.bufSize())
	return []byte{b0, b1}
}

func (p *Processor) fieldContent(f *field.Field) []byte {
	start := f.DataStart()
	buf := make([]byte, 0, f.Length)
	for addr := start; addr < start+f.Length; addr++ {
		cell, err := p.screen.At(addr)
		if err != nil {
			break
		}
		buf = append(buf, ebcdic.ToEBCDIC(cell.Char))
	}
	return ebcdic.TrimTrailing(buf)
}

// AssembleReadModified builds `AID(1) + cursor_addr(2) + [SBA(addr) +
// ebcdic(content)]*` for every unprotected field with MDT set, ascending
// by address (spec.md §4.4).
func (p *Processor) AssembleReadModified(aid byte) []byte {
	out := []byte{aid}
	out = append(out, p.encodeAddrBytes(p.screen.Cursor())...)
	for _, f := range p.fields.ModifiedFields() {
		if f.Protected() {
			continue
		}
		out = append(out, OrderSBA)
		out = append(out, p.encodeAddrBytes(f.DataStart())...)
		out = append(out, p.fieldContent(f)...)
	}
	return out
}

// AssembleReadModifiedAll emits every unprotected field regardless of MDT
// (spec.md §4.4).
func (p *Processor) AssembleReadModifiedAll(aid byte) []byte {
	out := []byte{aid}
	out = append(out, p.encodeAddrBytes(p.screen.Cursor())...)
	for _, f := range p.fields.UnprotectedFields() {
		out = append(out, OrderSBA)
		out = append(out, p.encodeAddrBytes(f.DataStart())...)
		out = append(out, p.fieldContent(f)...)
	}
	return out
}

// AssembleReadBuffer emits the entire buffer verbatim; each field's
// attribute cell is emitted as a pair: an SF order followed by the
// attribute byte's graphic form from the codes12 table.
func (p *Processor) AssembleReadBuffer() []byte {
	out := make([]byte, 0, p.screen.Len())
	attrAddrs := make(map[int]byte)
	for _, f := range p.fields.All() {
		attrAddrs[f.StartAddr] = encodeFieldAttrByte(f)
	}
	for addr := 0; addr < p.screen.Len(); addr++ {
		if attr, ok := attrAddrs[addr]; ok {
			out = append(out, OrderSF, codes12[attr&0x3F])
			continue
		}
		cell, _ := p.screen.At(addr)
		out = append(out, ebcdic.ToEBCDIC(cell.Char))
	}
	return out
}

func encodeFieldAttrByte(f *field.Field) byte {
	var b byte
	if f.Protected() {
		b |= attrProtected
	}
	if f.Numeric() {
		b |= attrNumeric
	}
	switch f.Class {
	case field.DisplayNonDisplay:
		b |= attrNonDisplay
	case field.DisplayIntensified:
		b |= attrIntensified
	}
	return b
}
