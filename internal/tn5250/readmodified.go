package tn5250

import (
	"github.com/stlalpha/tn5250r/internal/ebcdic"
	"github.com/stlalpha/tn5250r/internal/field"
)

// encodeCoord is the inverse of decodeCoord: 1-based wire value for a
// 0-based row/col.
func encodeCoord(v int) byte { return byte(v + 1) }

func (p *Processor) encodeAddr(addr int) []byte {
	row, col := p.screen.RowCol(addr)
	return []byte{encodeCoord(row), encodeCoord(col)}
}

// fieldContent reads a field's data region off the screen and encodes it
// to EBCDIC, trimming trailing spaces (spec.md §4.3 "ebcdic(content_trimmed)").
func (p *Processor) fieldContent(f *field.Field, length int) []byte {
	start := f.DataStart()
	buf := make([]byte, 0, length)
	for addr := start; addr < start+length; addr++ {
		cell, err := p.screen.At(addr)
		if err != nil {
			break
		}
		buf = append(buf, ebcdic.ToEBCDIC(cell.Char))
	}
	return ebcdic.TrimTrailing(buf)
}

// AssembleReadModified builds `AID + cursor_addr(2) + [SBA(addr) +
// ebcdic(content)]*` for every unprotected field with MDT set, ascending
// by address (spec.md §4.3, §8 scenario 3). The per-field SBA addresses
// the field's data start (its "field_start" in the scenario's own
// terms), one past the attribute byte, since that is where the host
// writes the field's content back on the next Write-to-Display.
func (p *Processor) AssembleReadModified(aid byte) []byte {
	out := []byte{aid}
	out = append(out, p.encodeAddr(p.screen.Cursor())...)
	for _, f := range p.fields.ModifiedFields() {
		if f.Protected() {
			continue
		}
		out = append(out, OrderSBA)
		out = append(out, p.encodeAddr(f.DataStart())...)
		out = append(out, p.fieldContent(f, f.Length)...)
	}
	return out
}

// AssembleReadModifiedAll emits every unprotected field regardless of MDT
// (spec.md §4.3).
func (p *Processor) AssembleReadModifiedAll(aid byte) []byte {
	out := []byte{aid}
	out = append(out, p.encodeAddr(p.screen.Cursor())...)
	for _, f := range p.fields.UnprotectedFields() {
		out = append(out, OrderSBA)
		out = append(out, p.encodeAddr(f.DataStart())...)
		out = append(out, p.fieldContent(f, f.Length)...)
	}
	return out
}

// AssembleReadBuffer emits the entire screen buffer, EBCDIC-encoded,
// verbatim cell by cell (spec.md §4.3).
func (p *Processor) AssembleReadBuffer() []byte {
	out := make([]byte, 0, p.screen.Len())
	for addr := 0; addr < p.screen.Len(); addr++ {
		cell, _ := p.screen.At(addr)
		out = append(out, ebcdic.ToEBCDIC(cell.Char))
	}
	return out
}
