package display

import "testing"

func TestNewScreenGridLengthMatchesDimensions(t *testing.T) {
	s := NewScreen(Size5250)
	if s.Len() != 24*80 {
		t.Errorf("Len = %d, want %d", s.Len(), 24*80)
	}
	if s.Cursor() != 0 {
		t.Errorf("Cursor = %d, want 0", s.Cursor())
	}
}

func TestRowColRoundTrip(t *testing.T) {
	s := NewScreen(Size3270Model2)
	row, col := s.RowCol(85)
	if row != 1 || col != 5 {
		t.Fatalf("RowCol(85) = (%d,%d), want (1,5)", row, col)
	}
	if addr := s.Addr(row, col); addr != 85 {
		t.Errorf("Addr(%d,%d) = %d, want 85", row, col, addr)
	}
}

func TestSetCursorOutOfRange(t *testing.T) {
	s := NewScreen(Size5250)
	if err := s.SetCursor(s.Len()); err != ErrOutOfRange {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
	if err := s.SetCursor(-1); err != ErrOutOfRange {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
}

func TestAdvanceWrapsPastLastCell(t *testing.T) {
	s := NewScreen(Size5250)
	last := s.Len() - 1
	if next := s.Advance(last); next != 0 {
		t.Errorf("Advance(last) = %d, want 0", next)
	}
}

func TestWriteCharMarksDirtyAndModified(t *testing.T) {
	s := NewScreen(Size5250)
	if err := s.WriteChar(5, 'H', 0x20); err != nil {
		t.Fatal(err)
	}
	cell, _ := s.At(5)
	if cell.Char != 'H' || cell.Attr != 0x20 || !cell.Dirty {
		t.Errorf("cell = %+v, want H/0x20/dirty", cell)
	}
	if !s.Modified() {
		t.Error("screen should be modified")
	}
	s.ClearModified()
	if s.Modified() {
		t.Error("Modified should be false after ClearModified")
	}
	cell, _ = s.At(5)
	if cell.Dirty {
		t.Error("cell Dirty should be cleared")
	}
}

func TestFillCharWrapsAroundGrid(t *testing.T) {
	s := NewScreen(Size{Rows: 1, Cols: 10})
	if err := s.FillChar(8, 2, 'X'); err != nil {
		t.Fatal(err)
	}
	want := "XXX     XX"[:10]
	for i := 0; i < 10; i++ {
		cell, _ := s.At(i)
		if byte(cell.Char) != want[i] {
			t.Errorf("cell %d = %q, want %q", i, cell.Char, want[i])
		}
	}
}

func TestFillAttrRange(t *testing.T) {
	s := NewScreen(Size{Rows: 1, Cols: 5})
	if err := s.FillAttr(1, 3, 0x3c); err != nil {
		t.Fatal(err)
	}
	for addr := 1; addr <= 3; addr++ {
		cell, _ := s.At(addr)
		if cell.Attr != 0x3c {
			t.Errorf("cell %d attr = %x, want 0x3c", addr, cell.Attr)
		}
	}
	cell0, _ := s.At(0)
	if cell0.Attr != 0 {
		t.Errorf("cell 0 attr = %x, want untouched 0", cell0.Attr)
	}
}

func TestResizeDiscardsContentAndResetsCursor(t *testing.T) {
	s := NewScreen(Size5250)
	s.WriteChar(0, 'A', 0)
	s.SetCursor(10)
	s.Resize(Size3270Model3)
	if s.Len() != 32*80 {
		t.Errorf("Len after resize = %d, want %d", s.Len(), 32*80)
	}
	if s.Cursor() != 0 {
		t.Errorf("Cursor after resize = %d, want 0", s.Cursor())
	}
	cell, _ := s.At(0)
	if cell.Char != ' ' {
		t.Errorf("cell 0 = %q, want blank after resize", cell.Char)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewScreen(Size5250)
	s.WriteChar(0, 'A', 0)
	snap := s.Snapshot()
	s.WriteChar(0, 'B', 0)
	if snap[0].Char != 'A' {
		t.Errorf("snapshot mutated: got %q, want A", snap[0].Char)
	}
}
