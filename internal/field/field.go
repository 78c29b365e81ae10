// Package field maintains the sorted field table that overlays a display
// buffer: attribute bytes, MDT tracking, validation, and tab navigation.
// There is no BBS analogue for block-mode fields; the sorted-slice-plus-
// side-table shape is adapted from the teacher's internal/jam package,
// which keeps a sorted on-disk index and looks records up by scanning a
// fixed-size record run (internal/jam/lastread.go) — here the index lives
// in memory and lookup is sort.Search instead of a linear disk scan.
package field

// DisplayClass is the mutually-exclusive display-intensity state of a
// field (spec.md §3 FieldAttribute "display-class (normal/intensified/
// nondisplay)").
type DisplayClass int

const (
	DisplayNormal DisplayClass = iota
	DisplayIntensified
	DisplayNonDisplay
)

// Flag is the bitset of independent boolean field properties.
type Flag uint16

const (
	// Protected fields reject keyboard input (write_char_at is a no-op).
	Protected Flag = 1 << iota
	// Numeric fields accept only EBCDIC digits 0xF0-0xF9 and space.
	Numeric
	// MDT is the Modified Data Tag: set when the user writes into the
	// field, cleared by WCC reset-MDT or ResetMDT.
	MDT
	// Bypass fields are skipped by TabNext/TabPrev navigation even though
	// they are not Protected (spec.md §4.5 "bypass-marked fields").
	Bypass
)

// ValidationKind is the 3270 extended-attribute validation rule (spec.md
// §4.4 "Extended field validation").
type ValidationKind int

const (
	ValidationNone ValidationKind = iota
	ValidationMandatoryFill
	ValidationMandatoryEntry
	ValidationTrigger
)

// ExtAttr carries the 3270-style extended attributes; 5250 fields leave
// Color/Highlighting at their zero value.
type ExtAttr struct {
	Validation   ValidationKind
	Color        byte
	Highlighting byte
}

// ID uniquely identifies a field for its lifetime, independent of its
// position in the sorted table (which shifts as fields are added/removed).
type ID int

// Field is one FieldAttribute (spec.md §3): the attribute byte lives at
// StartAddr; the writable region is (StartAddr, StartAddr+Length].
type Field struct {
	ID        ID
	StartAddr int
	Length    int
	Class     DisplayClass
	Flags     Flag
	Ext       ExtAttr
	GroupID   int // 0 means "no group"
}

func (f *Field) has(flag Flag) bool { return f.Flags&flag != 0 }

// Protected reports whether the field rejects input.
func (f *Field) Protected() bool { return f.has(Protected) }

// Numeric reports whether the field is numeric-only.
func (f *Field) Numeric() bool { return f.has(Numeric) }

// Modified reports whether the field's MDT bit is set.
func (f *Field) Modified() bool { return f.has(MDT) }

// Bypass reports whether navigation should skip this field.
func (f *Field) Bypass() bool { return f.has(Bypass) }

// DataStart is the address of the field's first writable cell, one past
// the attribute byte at StartAddr.
func (f *Field) DataStart() int { return f.StartAddr + 1 }

// Contains reports whether addr falls in the field's writable region.
func (f *Field) Contains(addr int) bool {
	return addr > f.StartAddr && addr <= f.StartAddr+f.Length
}
