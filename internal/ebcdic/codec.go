// Package ebcdic implements the CP037 byte<->character codec used as the
// on-wire character encoding for 5250 and 3270 data streams.
//
// The table is built once at init time from golang.org/x/text's CP037
// charmap transformer — the same ecosystem text-encoding package the
// teacher BBS already depends on for its CP437/ISO-8859-1 terminal output
// (internal/terminal/charset.go) — rather than hand-copying IBM's code
// page tables. The result is wrapped in the teacher's array-lookup style
// so ToASCII/ToEBCDIC stay allocation-free, total functions.
package ebcdic

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// toASCIITable[b] is the rune CP037 byte b decodes to.
var toASCIITable [256]rune

// toEBCDICTable[r] is the CP037 byte that encodes rune r, for r < len(toEBCDICTable).
// Runes outside this range never appear in the mapped set (spec.md §4.1
// restricts it to [A-Z a-z 0-9] plus a defined punctuation set, all < 0x80).
const asciiRange = 0x80

var toEBCDICTable [asciiRange]byte

// replacementEBCDIC is the CP037 encoding of the space character (0x40),
// the fallback spec.md requires for unmapped runes.
const replacementEBCDIC byte = 0x40

// replacementASCII is the fallback rune for CP037 bytes outside any
// well-formed decode (spec.md requires ToASCII be total).
const replacementASCII rune = ' '

// graphic reports whether r has a visible glyph; CP037 also round-trips
// C0/C1 control codes, which this codec folds to space instead.
func graphic(r rune) bool {
	return r >= 0x20 && !(r >= 0x7F && r <= 0x9F)
}

func init() {
	dec := charmap.CodePage037.NewDecoder()
	for b := 0; b < 256; b++ {
		out, err := dec.Bytes([]byte{byte(b)})
		if err != nil || len(out) == 0 {
			toASCIITable[b] = replacementASCII
			continue
		}
		r, size := utf8.DecodeRune(out)
		if (r == utf8.RuneError && size <= 1) || !graphic(r) {
			toASCIITable[b] = replacementASCII
			continue
		}
		toASCIITable[b] = r
	}

	for i := range toEBCDICTable {
		toEBCDICTable[i] = replacementEBCDIC
	}
	enc := charmap.CodePage037.NewEncoder()
	for r := rune(0); r < asciiRange; r++ {
		if !graphic(r) {
			continue
		}
		out, err := enc.Bytes([]byte(string(r)))
		if err != nil || len(out) != 1 {
			continue
		}
		toEBCDICTable[r] = out[0]
	}
}

// ToASCII decodes a single CP037 byte to its character. Total: bytes with
// no defined graphic meaning decode to space.
func ToASCII(b byte) rune {
	return toASCIITable[b]
}

// ToEBCDIC encodes a single rune to its CP037 byte. Total: runes outside
// the mapped set (spec.md §4.1: A-Z a-z 0-9 and a defined punctuation set)
// encode to 0x40 (space).
func ToEBCDIC(ch rune) byte {
	if ch < 0 || ch >= asciiRange {
		return replacementEBCDIC
	}
	return toEBCDICTable[ch]
}

// EncodeString converts an ASCII string to CP037 bytes, one byte per rune.
func EncodeString(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, ToEBCDIC(r))
	}
	return out
}

// DecodeBytes converts CP037 bytes to an ASCII string, one rune per byte.
func DecodeBytes(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = ToASCII(c)
	}
	return string(runes)
}

// TrimTrailing trims trailing CP037 space bytes (0x40), used when
// assembling Read Modified field content (spec.md §4.3, §4.4).
func TrimTrailing(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == replacementEBCDIC {
		end--
	}
	return b[:end]
}

// TableSize is the fixed size of the codec's byte table (spec.md §8
// invariant: "table length is exactly 256").
const TableSize = 256
