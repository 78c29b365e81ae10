package field

import "testing"

const testBufSize = 24 * 80

func TestAddFieldAndRecomputeLengthsAscending(t *testing.T) {
	m := NewManager(testBufSize)
	if _, err := m.AddField(10, DisplayNormal, Protected, ExtAttr{}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddField(5, DisplayNormal, 0, ExtAttr{}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddField(100, DisplayNormal, 0, ExtAttr{}); err != nil {
		t.Fatal(err)
	}
	if err := m.RecomputeLengths(testBufSize); err != nil {
		t.Fatal(err)
	}

	fields := m.All()
	if len(fields) != 3 {
		t.Fatalf("len = %d, want 3", len(fields))
	}
	prev := -1
	for i, f := range fields {
		if f.StartAddr <= prev {
			t.Fatalf("field starts not strictly increasing: %v", fields)
		}
		// The last field wraps to the first attribute byte, so only the
		// earlier fields are bounded by the buffer edge.
		if i < len(fields)-1 && f.StartAddr+f.Length > testBufSize {
			t.Fatalf("field %+v exceeds buffer size", f)
		}
		prev = f.StartAddr
	}
	if fields[0].StartAddr != 5 || fields[0].Length != 4 {
		t.Errorf("field 0 = %+v, want start 5 length 4", fields[0])
	}
	if fields[2].StartAddr != 100 {
		t.Errorf("field 2 start = %d, want 100", fields[2].StartAddr)
	}
	wantWrapLen := testBufSize - 100 - 1 + 5
	if fields[2].Length != wantWrapLen {
		t.Errorf("wrap field length = %d, want %d", fields[2].Length, wantWrapLen)
	}
}

func TestAddFieldOutOfRange(t *testing.T) {
	m := NewManager(100)
	if _, err := m.AddField(100, DisplayNormal, 0, ExtAttr{}); err != ErrOutOfRange {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
	if _, err := m.AddField(-1, DisplayNormal, 0, ExtAttr{}); err != ErrOutOfRange {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
}

func TestFindAtRespectsWritableRegion(t *testing.T) {
	m := NewManager(testBufSize)
	m.AddField(10, DisplayNormal, 0, ExtAttr{})
	m.AddField(20, DisplayNormal, Protected, ExtAttr{})
	m.RecomputeLengths(testBufSize)

	if _, ok := m.FindAt(10); ok {
		t.Error("attribute byte address should not be found by FindAt")
	}
	f, ok := m.FindAt(11)
	if !ok || f.StartAddr != 10 {
		t.Fatalf("FindAt(11) = %+v, %v", f, ok)
	}
	f2, ok := m.FindAt(19)
	if !ok || f2.StartAddr != 10 {
		t.Fatalf("FindAt(19) = %+v, %v, want start 10", f2, ok)
	}
	f3, ok := m.FindAt(21)
	if !ok || f3.StartAddr != 20 {
		t.Fatalf("FindAt(21) = %+v, %v, want start 20", f3, ok)
	}
}

func TestFindAtWraparound(t *testing.T) {
	m := NewManager(100)
	m.AddField(5, DisplayNormal, 0, ExtAttr{})
	m.AddField(95, DisplayNormal, 0, ExtAttr{})
	m.RecomputeLengths(100)

	f, ok := m.FindAt(2)
	if !ok || f.StartAddr != 95 {
		t.Fatalf("FindAt(2) = %+v, %v, want wraparound field at 95", f, ok)
	}
}

func TestSetModifiedRejectsProtected(t *testing.T) {
	m := NewManager(100)
	m.AddField(0, DisplayNormal, Protected, ExtAttr{})
	m.AddField(10, DisplayNormal, 0, ExtAttr{})
	m.RecomputeLengths(100)

	if err := m.SetModified(5); err != ErrProtected {
		t.Fatalf("err = %v, want ErrProtected", err)
	}
	if err := m.SetModified(12); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	f, _ := m.FindAt(12)
	if !f.Modified() {
		t.Error("field should be marked modified")
	}
}

func TestResetMDTClearsAllFields(t *testing.T) {
	m := NewManager(100)
	m.AddField(0, DisplayNormal, 0, ExtAttr{})
	m.RecomputeLengths(100)
	m.SetModified(1)
	m.ResetMDT()
	if len(m.ModifiedFields()) != 0 {
		t.Error("expected no modified fields after ResetMDT")
	}
}

func TestModifiedFieldsAscendingOrder(t *testing.T) {
	m := NewManager(100)
	m.AddField(50, DisplayNormal, 0, ExtAttr{})
	m.AddField(0, DisplayNormal, 0, ExtAttr{})
	m.AddField(25, DisplayNormal, 0, ExtAttr{})
	m.RecomputeLengths(100)

	m.SetModified(51)
	m.SetModified(1)
	m.SetModified(26)

	mod := m.ModifiedFields()
	if len(mod) != 3 {
		t.Fatalf("len = %d, want 3", len(mod))
	}
	for i := 1; i < len(mod); i++ {
		if mod[i].StartAddr <= mod[i-1].StartAddr {
			t.Fatalf("ModifiedFields not ascending: %v", mod)
		}
	}
}

func TestTabNextSkipsProtectedAndBypassWraps(t *testing.T) {
	m := NewManager(200)
	m.AddField(10, DisplayNormal, Protected, ExtAttr{})
	m.AddField(50, DisplayNormal, Bypass, ExtAttr{})
	m.AddField(100, DisplayNormal, 0, ExtAttr{})
	m.RecomputeLengths(200)

	addr, err := m.TabNext(0)
	if err != nil || addr != 101 {
		t.Fatalf("TabNext(0) = %d, %v, want 101", addr, err)
	}
	addr2, err := m.TabNext(101)
	if err != nil || addr2 != 101 {
		t.Fatalf("TabNext(101) should wrap to same only field, got %d, %v", addr2, err)
	}
}

func TestTabNextNoUnprotectedFieldsFailsWithoutMoving(t *testing.T) {
	m := NewManager(200)
	m.AddField(10, DisplayNormal, Protected, ExtAttr{})
	m.RecomputeLengths(200)

	addr, err := m.TabNext(5)
	if err != ErrNoUnprotectedFields {
		t.Fatalf("err = %v, want ErrNoUnprotectedFields", err)
	}
	if addr != 5 {
		t.Errorf("addr = %d, want unchanged 5", addr)
	}
}

func TestTabPrevWraps(t *testing.T) {
	m := NewManager(200)
	m.AddField(10, DisplayNormal, 0, ExtAttr{})
	m.AddField(100, DisplayNormal, 0, ExtAttr{})
	m.RecomputeLengths(200)

	addr, err := m.TabPrev(5)
	if err != nil || addr != 101 {
		t.Fatalf("TabPrev(5) = %d, %v, want wrap to 101", addr, err)
	}
}

func TestModifyAtPreservesIDAndPosition(t *testing.T) {
	m := NewManager(100)
	id, _ := m.AddField(10, DisplayNormal, Protected, ExtAttr{})
	m.RecomputeLengths(100)

	newID, err := m.ModifyAt(10, DisplayNormal, 0, ExtAttr{})
	if err != nil {
		t.Fatal(err)
	}
	if newID != id {
		t.Errorf("ModifyAt changed id: got %d, want %d", newID, id)
	}
	f, _ := m.AttributeAt(10)
	if f.Protected() {
		t.Error("field should no longer be protected after ModifyAt")
	}
}

func TestRemoveAtDropsFieldAndGroupMembership(t *testing.T) {
	m := NewManager(100)
	id, _ := m.AddField(10, DisplayNormal, 0, ExtAttr{})
	m.RecomputeLengths(100)
	m.AddToGroup(id, 7)

	if err := m.RemoveAt(10); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
	if len(m.Group(7)) != 0 {
		t.Errorf("group 7 should be empty after remove, got %v", m.Group(7))
	}
}

func TestGroupMembershipMovesBetweenGroups(t *testing.T) {
	m := NewManager(100)
	id, _ := m.AddField(10, DisplayNormal, 0, ExtAttr{})
	m.RecomputeLengths(100)

	m.AddToGroup(id, 1)
	m.AddToGroup(id, 2)

	if len(m.Group(1)) != 0 {
		t.Errorf("group 1 should be empty after reassignment, got %v", m.Group(1))
	}
	if g := m.Group(2); len(g) != 1 || g[0] != id {
		t.Errorf("group 2 = %v, want [%d]", g, id)
	}
}

func TestValidateMandatoryFill(t *testing.T) {
	f := &Field{Length: 3, Ext: ExtAttr{Validation: ValidationMandatoryFill}}
	if err := Validate(f, []byte{0xC1, 0xC2, 0xC3}); err != nil {
		t.Errorf("unexpected err: %v", err)
	}
	if err := Validate(f, []byte{0xC1, 0x40, 0xC3}); err != ErrValidation {
		t.Errorf("err = %v, want ErrValidation for embedded space", err)
	}
	if err := Validate(f, []byte{0xC1, 0xC2}); err != ErrValidation {
		t.Errorf("err = %v, want ErrValidation for short content", err)
	}
}

func TestValidateMandatoryEntry(t *testing.T) {
	f := &Field{Length: 3, Ext: ExtAttr{Validation: ValidationMandatoryEntry}}
	if err := Validate(f, []byte{0x40, 0x40, 0x40}); err != ErrValidation {
		t.Errorf("err = %v, want ErrValidation for all-space", err)
	}
	if err := Validate(f, []byte{0x40, 0xC1, 0x40}); err != nil {
		t.Errorf("unexpected err: %v", err)
	}
}

func TestValidateNumericRejectsNonDigits(t *testing.T) {
	f := &Field{Length: 2, Flags: Numeric}
	if err := Validate(f, []byte{0xF1, 0xF2}); err != nil {
		t.Errorf("unexpected err: %v", err)
	}
	if err := Validate(f, []byte{0xC1, 0xF2}); err != ErrValidation {
		t.Errorf("err = %v, want ErrValidation for non-digit", err)
	}
	if err := Validate(f, []byte{0x40, 0xF2}); err != nil {
		t.Errorf("unexpected err for embedded space in numeric field: %v", err)
	}
}
