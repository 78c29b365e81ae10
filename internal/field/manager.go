package field

import "sort"

// Manager is the FieldManager of spec.md §3/§4.5: a sorted field table plus
// a continued-group side index, with O(log n) address lookup via
// sort.Search over the sorted slice.
type Manager struct {
	bufSize int
	fields  []*Field // always sorted ascending by StartAddr
	byID    map[ID]*Field
	groups  map[int][]ID
	nextID  ID
	err     error
}

// NewManager returns an empty field table sized for a buffer of bufSize
// cells (e.g. 24*80 for a 5250 screen).
func NewManager(bufSize int) *Manager {
	return &Manager{
		bufSize: bufSize,
		byID:    make(map[ID]*Field),
		groups:  make(map[int][]ID),
	}
}

// Reset discards all fields, as on a Write/Erase-Write that starts a fresh
// formatted screen.
func (m *Manager) Reset() {
	m.fields = nil
	m.byID = make(map[ID]*Field)
	m.groups = make(map[int][]ID)
	m.err = nil
}

// Err returns the last recorded field violation, if any (spec.md §7
// FieldViolation / AddressingOutOfRange "set field-manager error").
func (m *Manager) Err() error { return m.err }

// ClearErr clears the recorded error state.
func (m *Manager) ClearErr() { m.err = nil }

func (m *Manager) setErr(err error) error {
	m.err = err
	return err
}

// indexOfStart returns the insertion/lookup index for startAddr: the first
// index whose field's StartAddr is >= startAddr.
func (m *Manager) indexOfStart(startAddr int) int {
	return sort.Search(len(m.fields), func(i int) bool {
		return m.fields[i].StartAddr >= startAddr
	})
}

// AddField opens a field at startAddr (the SF/SFE attribute-byte address).
// startAddr must be within [0, bufSize); a field already open at that
// address is an error (use ModifyAt for MF).
func (m *Manager) AddField(startAddr int, class DisplayClass, flags Flag, ext ExtAttr) (ID, error) {
	if startAddr < 0 || startAddr >= m.bufSize {
		return 0, m.setErr(ErrOutOfRange)
	}
	idx := m.indexOfStart(startAddr)
	if idx < len(m.fields) && m.fields[idx].StartAddr == startAddr {
		return 0, m.setErr(ErrOutOfRange)
	}
	m.nextID++
	f := &Field{ID: m.nextID, StartAddr: startAddr, Class: class, Flags: flags, Ext: ext}
	m.fields = append(m.fields, nil)
	copy(m.fields[idx+1:], m.fields[idx:])
	m.fields[idx] = f
	m.byID[f.ID] = f
	return f.ID, nil
}

// ModifyAt updates the attribute properties of the field whose attribute
// byte is at addr in place (3270 MF order), preserving its ID and position.
func (m *Manager) ModifyAt(addr int, class DisplayClass, flags Flag, ext ExtAttr) (ID, error) {
	f, ok := m.AttributeAt(addr)
	if !ok {
		return 0, m.setErr(ErrNotFound)
	}
	f.Class = class
	f.Flags = flags
	f.Ext = ext
	return f.ID, nil
}

// RemoveAt removes the field whose attribute byte is at addr.
func (m *Manager) RemoveAt(addr int) error {
	idx := m.indexOfStart(addr)
	if idx >= len(m.fields) || m.fields[idx].StartAddr != addr {
		return m.setErr(ErrNotFound)
	}
	f := m.fields[idx]
	m.fields = append(m.fields[:idx], m.fields[idx+1:]...)
	delete(m.byID, f.ID)
	if f.GroupID != 0 {
		m.removeFromGroupSlice(f.GroupID, f.ID)
	}
	return nil
}

// AttributeAt returns the field whose attribute byte sits exactly at addr.
func (m *Manager) AttributeAt(addr int) (*Field, bool) {
	idx := m.indexOfStart(addr)
	if idx < len(m.fields) && m.fields[idx].StartAddr == addr {
		return m.fields[idx], true
	}
	return nil, false
}

// FindAt returns the field covering addr's writable region, in O(log n).
// The attribute byte's own address is not "covered" by its field (spec.md
// §3 invariant). The last field's region may wrap past the buffer edge
// back to address 0 (RecomputeLengths' wrap rule), so a miss against the
// binary-search candidate falls back to checking the last field's wrap.
func (m *Manager) FindAt(addr int) (*Field, bool) {
	if len(m.fields) == 0 {
		return nil, false
	}
	idx := m.indexOfStart(addr + 1)
	if idx > 0 {
		f := m.fields[idx-1]
		if addr > f.StartAddr && addr <= f.StartAddr+f.Length {
			return f, true
		}
	}
	last := m.fields[len(m.fields)-1]
	end := last.StartAddr + last.Length
	if end >= m.bufSize {
		if wrapped := end - m.bufSize; addr <= wrapped {
			return last, true
		}
	}
	return nil, false
}

// RecomputeLengths sets bufSize and recomputes every field's Length as the
// gap to the next field's attribute byte, the last field wrapping to the
// first (spec.md §4.4 "Field lengths"). Returns ErrOutOfRange if any start
// address is out of range for the new size.
func (m *Manager) RecomputeLengths(bufSize int) error {
	m.bufSize = bufSize
	n := len(m.fields)
	if n == 0 {
		return nil
	}
	for i, f := range m.fields {
		if f.StartAddr < 0 || f.StartAddr >= bufSize {
			return m.setErr(ErrOutOfRange)
		}
		var gap int
		if i+1 < n {
			gap = m.fields[i+1].StartAddr - f.StartAddr
		} else {
			gap = bufSize - f.StartAddr + m.fields[0].StartAddr
		}
		f.Length = gap - 1
	}
	return nil
}

// navigable returns indexes, in ascending StartAddr order, of
// fields that navigation may land on (not Protected, not Bypass).
func (m *Manager) navigable() []int {
	var out []int
	for i, f := range m.fields {
		if !f.Protected() && !f.Bypass() {
			out = append(out, i)
		}
	}
	return out
}

// TabNext advances from address `from` to the data start of the next
// navigable field, wrapping past the end; if none exist the call fails
// without moving (spec.md §4.5 navigation invariants).
func (m *Manager) TabNext(from int) (int, error) {
	nav := m.navigable()
	if len(nav) == 0 {
		return from, m.setErr(ErrNoUnprotectedFields)
	}
	for _, idx := range nav {
		if m.fields[idx].StartAddr > from {
			return m.fields[idx].DataStart(), nil
		}
	}
	return m.fields[nav[0]].DataStart(), nil
}

// TabPrev is the mirror of TabNext, scanning backward and wrapping to the
// last navigable field.
func (m *Manager) TabPrev(from int) (int, error) {
	nav := m.navigable()
	if len(nav) == 0 {
		return from, m.setErr(ErrNoUnprotectedFields)
	}
	for i := len(nav) - 1; i >= 0; i-- {
		idx := nav[i]
		if m.fields[idx].StartAddr < from {
			return m.fields[idx].DataStart(), nil
		}
	}
	last := nav[len(nav)-1]
	return m.fields[last].DataStart(), nil
}

// SetModified marks the MDT bit of the field containing addr, iff that
// field is unprotected. Returns ErrNotFound if addr is in no field, or
// ErrProtected if the field rejects writes (spec.md §4.5).
func (m *Manager) SetModified(addr int) error {
	f, ok := m.FindAt(addr)
	if !ok {
		return m.setErr(ErrNotFound)
	}
	if f.Protected() {
		return m.setErr(ErrProtected)
	}
	f.Flags |= MDT
	return nil
}

// NoteViolation records a field violation detected by a caller-side write
// path (protected-write attempt, numeric-only rejection), making it
// retrievable via Err (spec.md §7 FieldViolation).
func (m *Manager) NoteViolation(err error) { m.err = err }

// WriteAllowed reports whether addr may be written: true with a nil field
// when addr belongs to no field (unformatted screen), true with the field
// when it is unprotected, or false when the field is protected.
func (m *Manager) WriteAllowed(addr int) (*Field, bool) {
	f, ok := m.FindAt(addr)
	if !ok {
		return nil, true
	}
	return f, !f.Protected()
}

// ResetMDT clears the MDT bit on every field (WCC reset-MDT).
func (m *Manager) ResetMDT() {
	for _, f := range m.fields {
		f.Flags &^= MDT
	}
}

// ModifiedFields returns every field with MDT set, ascending by StartAddr.
// Content bytes are the caller's responsibility (the display buffer owns
// cell storage); this returns which fields and their (DataStart, Length)
// extents to read.
func (m *Manager) ModifiedFields() []*Field {
	var out []*Field
	for _, f := range m.fields {
		if f.Modified() {
			out = append(out, f)
		}
	}
	return out
}

// UnprotectedFields returns every unprotected field, ascending by
// StartAddr, regardless of MDT (Read-Modified-All / Read Modified All).
func (m *Manager) UnprotectedFields() []*Field {
	var out []*Field
	for _, f := range m.fields {
		if !f.Protected() {
			out = append(out, f)
		}
	}
	return out
}

// All returns every field in ascending StartAddr order (Read-Buffer).
func (m *Manager) All() []*Field {
	out := make([]*Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// Validate checks a field's extended-attribute validation rule against its
// content bytes (EBCDIC), per spec.md §4.4. Space is EBCDIC 0x40.
func Validate(f *Field, content []byte) error {
	switch f.Ext.Validation {
	case ValidationMandatoryFill:
		if len(content) != f.Length {
			return ErrValidation
		}
		for _, b := range content {
			if b == 0x40 {
				return ErrValidation
			}
		}
	case ValidationMandatoryEntry:
		entered := false
		for _, b := range content {
			if b != 0x40 {
				entered = true
				break
			}
		}
		if !entered {
			return ErrValidation
		}
	case ValidationTrigger, ValidationNone:
		// No content rule; the numeric check below still applies.
	}
	if f.Numeric() {
		for _, b := range content {
			if b != 0x40 && (b < 0xF0 || b > 0xF9) {
				return ErrValidation
			}
		}
	}
	return nil
}

// AddToGroup links field id into continued-field group groupID, O(1) via
// the side table (spec.md §4.5 "Continued-field groups").
func (m *Manager) AddToGroup(id ID, groupID int) error {
	f, ok := m.byID[id]
	if !ok {
		return m.setErr(ErrNotFound)
	}
	if f.GroupID != 0 {
		m.removeFromGroupSlice(f.GroupID, id)
	}
	f.GroupID = groupID
	m.groups[groupID] = append(m.groups[groupID], id)
	return nil
}

// Group returns the field ids belonging to groupID, in the order they were
// added.
func (m *Manager) Group(groupID int) []ID {
	return append([]ID(nil), m.groups[groupID]...)
}

func (m *Manager) removeFromGroupSlice(groupID int, id ID) {
	ids := m.groups[groupID]
	for i, existing := range ids {
		if existing == id {
			m.groups[groupID] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// ByID returns the field with the given id, if it still exists.
func (m *Manager) ByID(id ID) (*Field, bool) {
	f, ok := m.byID[id]
	return f, ok
}

// Len returns the number of open fields.
func (m *Manager) Len() int { return len(m.fields) }
