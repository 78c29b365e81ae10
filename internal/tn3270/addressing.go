package tn3270

// codes12 is the 64-entry 3270 I/O character table used to encode each
// 6-bit half of a 12-bit buffer address, taken from other_examples'
// racingmars-go3270 screen.go (itself sourced from the well-known IBM
// 3270 address-code table).
var codes12 = [64]byte{
	0x40, 0xc1, 0xc2, 0xc3, 0xc4, 0xc5, 0xc6, 0xc7, 0xc8,
	0xc9, 0x4a, 0x4b, 0x4c, 0x4d, 0x4e, 0x4f, 0x50, 0xd1, 0xd2, 0xd3, 0xd4,
	0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0x5a, 0x5b, 0x5c, 0x5d, 0x5e, 0x5f, 0x60,
	0x61, 0xe2, 0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9, 0x6a, 0x6b, 0x6c,
	0x6d, 0x6e, 0x6f, 0xf0, 0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
	0xf9, 0x7a, 0x7b, 0x7c, 0x7d, 0x7e, 0x7f,
}

// decode12 is the reverse lookup of codes12, built once at init.
var decode12 [256]int8

func init() {
	for i := range decode12 {
		decode12[i] = -1
	}
	for v, b := range codes12 {
		decode12[b] = int8(v)
	}
}

// encodeAddr12 encodes a 12-bit address as the two 6-bit I/O characters.
func encodeAddr12(addr int) (byte, byte) {
	hi := (addr >> 6) & 0x3F
	lo := addr & 0x3F
	return codes12[hi], codes12[lo]
}

// decodeAddr12 decodes two 12-bit-form address bytes.
func decodeAddr12(b0, b1 byte) (int, bool) {
	hi := decode12[b0]
	lo := decode12[b1]
	if hi < 0 || lo < 0 {
		return 0, false
	}
	return int(hi)<<6 | int(lo), true
}

// encodeAddr14 encodes a 14-bit address with the '01' format marker in
// the top two bits of the first byte (spec.md §4.4).
func encodeAddr14(addr int) (byte, byte) {
	b0 := byte(0x40 | ((addr >> 8) & 0x3F))
	b1 := byte(addr & 0xFF)
	return b0, b1
}

// decodeAddr14 decodes two 14-bit-form address bytes.
func decodeAddr14(b0, b1 byte) int {
	return int(b0&0x3F)<<8 | int(b1)
}

// decodeAddr decodes a 2-byte buffer address by inspecting the top two
// bits of b0 (spec.md §4.4): '00' unambiguously means 14-bit (no codes12
// entry starts below 0x40); '11' unambiguously means 12-bit (encodeAddr14
// never sets it). '01' is genuinely ambiguous — codes12 contains several
// entries in that range (0x40, 0x4A-0x50, ...) that are indistinguishable
// from a 14-bit marker by bit pattern alone (spec.md §9 Open Question
// (a)). For that case only, this module ties-break by bufSize against
// addressThreshold, the same threshold encodeAddr uses to choose the form
// to emit, which guarantees every address this module encodes decodes
// back unchanged.
func decodeAddr(b0, b1 byte, bufSize int) (int, bool) {
	switch b0 >> 6 {
	case 0b00:
		return decodeAddr14(b0, b1), true
	case 0b01:
		if bufSize > addressThreshold {
			return decodeAddr14(b0, b1), true
		}
		return decodeAddr12(b0, b1)
	default:
		return decodeAddr12(b0, b1)
	}
}

// encodeAddr emits a 2-byte buffer address: 12-bit by default, 14-bit
// when bufSize exceeds addressThreshold cells (spec.md §4.4, DESIGN.md
// Open Question (a)).
func encodeAddr(addr, bufSize int) (byte, byte) {
	if bufSize > addressThreshold {
		return encodeAddr14(addr)
	}
	return encodeAddr12(addr)
}
