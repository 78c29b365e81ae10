package ebcdic

import "testing"

func TestTableSizeIsExactly256(t *testing.T) {
	if len(toASCIITable) != 256 {
		t.Fatalf("toASCIITable length = %d, want 256", len(toASCIITable))
	}
	if TableSize != 256 {
		t.Fatalf("TableSize = %d, want 256", TableSize)
	}
}

func TestRoundTripMappedSet(t *testing.T) {
	var mapped []rune
	mapped = append(mapped, 'A', 'Z', 'a', 'z', '0', '9', ' ', '.', ',', '-', '/', '$', '#', '@')
	for _, c := range mapped {
		b := ToEBCDIC(c)
		got := ToASCII(b)
		if got != c {
			t.Errorf("round trip failed for %q: ToEBCDIC=%#x ToASCII=%q", c, b, got)
		}
	}
}

func TestToASCIIIsTotal(t *testing.T) {
	for b := 0; b < 256; b++ {
		_ = ToASCII(byte(b))
	}
}

func TestToEBCDICUnmappedYieldsSpace(t *testing.T) {
	// A rune with no CP037 graphic mapping (here a C0 control code, which
	// the codec folds to space) must fall back to 0x40.
	got := ToEBCDIC(rune(0x01)) // SOH control code has no graphic mapping
	if got != replacementEBCDIC {
		t.Errorf("ToEBCDIC(0x01) = %#x, want %#x", got, replacementEBCDIC)
	}
}

func TestEncodeDecodeStringRoundTrip(t *testing.T) {
	s := "HELLO WORLD 123"
	enc := EncodeString(s)
	if len(enc) != len(s) {
		t.Fatalf("EncodeString length = %d, want %d", len(enc), len(s))
	}
	got := DecodeBytes(enc)
	if got != s {
		t.Errorf("DecodeBytes(EncodeString(%q)) = %q", s, got)
	}
}

func TestTrimTrailing(t *testing.T) {
	b := EncodeString("HI  ")
	trimmed := TrimTrailing(b)
	if DecodeBytes(trimmed) != "HI" {
		t.Errorf("TrimTrailing(%v) = %q, want %q", b, DecodeBytes(trimmed), "HI")
	}

	allSpace := EncodeString("   ")
	if len(TrimTrailing(allSpace)) != 0 {
		t.Errorf("TrimTrailing of all-space should be empty")
	}
}
