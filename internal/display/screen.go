// Package display owns the fixed-grid screen buffer: cells, cursor, and
// modified-region tracking (spec.md §3 Cell/Screen, §4.6 "display buffer").
// There is no teacher analogue for a character grid; the copy-on-snapshot
// shape mirrors the teacher's TelnetConn.sizeMu pattern (internal/
// telnetserver/telnet.go) for guarding a small piece of state read from a
// different goroutine than the one that mutates it.
package display

import "errors"

// ErrOutOfRange is returned by operations addressing a cell outside the
// current grid (spec.md §7 AddressingOutOfRange).
var ErrOutOfRange = errors.New("display: address out of range")

// Cell is one grid position's current value.
type Cell struct {
	Char  rune
	Attr  byte
	Dirty bool
}

// Size is a screen's row/column dimensions. Valid 3270 sizes are
// {24x80, 32x80, 43x80, 27x132}; 5250 is fixed at 24x80 (spec.md §3).
type Size struct {
	Rows int
	Cols int
}

func (s Size) cells() int { return s.Rows * s.Cols }

// Standard screen sizes (spec.md §3).
var (
	Size5250       = Size{Rows: 24, Cols: 80}
	Size3270Model2 = Size{Rows: 24, Cols: 80}
	Size3270Model3 = Size{Rows: 32, Cols: 80}
	Size3270Model4 = Size{Rows: 43, Cols: 80}
	Size3270Model5 = Size{Rows: 27, Cols: 132}
)

// Screen is the ordered 2D grid of Cells plus cursor and modified-region
// tracking. Invariant: len(cells) == rows*cols; cursor in [0, rows*cols).
type Screen struct {
	size     Size
	cells    []Cell
	cursor   int
	modified bool
}

// NewScreen returns a Screen of the given size, all cells blank (space,
// attr 0), cursor at address 0.
func NewScreen(size Size) *Screen {
	s := &Screen{}
	s.Resize(size)
	return s
}

// Resize replaces the grid with a fresh one of the given size, discarding
// all cell content and resetting the cursor (spec.md §3 "reset on Erase/
// Write commands").
func (s *Screen) Resize(size Size) {
	s.size = size
	s.cells = make([]Cell, size.cells())
	for i := range s.cells {
		s.cells[i] = Cell{Char: ' '}
	}
	s.cursor = 0
	s.modified = false
}

// Size returns the screen's current dimensions.
func (s *Screen) Size() Size { return s.size }

// Len returns the total number of addressable cells.
func (s *Screen) Len() int { return len(s.cells) }

// Cursor returns the current linear cursor address.
func (s *Screen) Cursor() int { return s.cursor }

// RowCol converts a linear address to 0-based (row, col).
func (s *Screen) RowCol(addr int) (row, col int) {
	return addr / s.size.Cols, addr % s.size.Cols
}

// Addr converts a 0-based (row, col) to a linear address.
func (s *Screen) Addr(row, col int) int {
	return row*s.size.Cols + col
}

// SetCursor moves the cursor to addr, which must be in range.
func (s *Screen) SetCursor(addr int) error {
	if addr < 0 || addr >= len(s.cells) {
		return ErrOutOfRange
	}
	s.cursor = addr
	return nil
}

// Advance returns the next address after addr, wrapping past the last
// cell back to 0 (spec.md §4.3 "Cursor wraps at row end to next row; past
// last row wraps to (0,0)" generalizes to linear wraparound).
func (s *Screen) Advance(addr int) int {
	next := addr + 1
	if next >= len(s.cells) {
		return 0
	}
	return next
}

// At returns the cell at addr.
func (s *Screen) At(addr int) (Cell, error) {
	if addr < 0 || addr >= len(s.cells) {
		return Cell{}, ErrOutOfRange
	}
	return s.cells[addr], nil
}

// WriteChar sets the character and attribute at addr and marks it dirty.
func (s *Screen) WriteChar(addr int, ch rune, attr byte) error {
	if addr < 0 || addr >= len(s.cells) {
		return ErrOutOfRange
	}
	s.cells[addr] = Cell{Char: ch, Attr: attr, Dirty: true}
	s.modified = true
	return nil
}

// FillChar repeats ch (RA order) from `from` through `to` inclusive,
// wrapping past the end of the grid back to address 0.
func (s *Screen) FillChar(from, to int, ch rune) error {
	return s.fillRange(from, to, func(addr int) error {
		s.cells[addr].Char = ch
		s.cells[addr].Dirty = true
		return nil
	})
}

// FillAttr sets attr (EA order) from `from` through `to` inclusive,
// wrapping past the end of the grid.
func (s *Screen) FillAttr(from, to int, attr byte) error {
	return s.fillRange(from, to, func(addr int) error {
		s.cells[addr].Attr = attr
		s.cells[addr].Dirty = true
		return nil
	})
}

func (s *Screen) fillRange(from, to int, apply func(int) error) error {
	if from < 0 || from >= len(s.cells) || to < 0 || to >= len(s.cells) {
		return ErrOutOfRange
	}
	s.modified = true
	addr := from
	for {
		if err := apply(addr); err != nil {
			return err
		}
		if addr == to {
			return nil
		}
		addr = s.Advance(addr)
	}
}

// Modified reports whether any cell has changed since the last
// ClearModified call.
func (s *Screen) Modified() bool { return s.modified }

// ClearModified resets the modified-regions flag and every cell's Dirty
// bit, typically after a snapshot has been taken.
func (s *Screen) ClearModified() {
	s.modified = false
	for i := range s.cells {
		s.cells[i].Dirty = false
	}
}

// Snapshot returns a read-only copy of every cell, for external GUI
// consumption (spec.md §3 Ownership: "External GUI obtains read-only
// views ... via copy").
func (s *Screen) Snapshot() []Cell {
	out := make([]Cell, len(s.cells))
	copy(out, s.cells)
	return out
}
