package tn5250

// Packet is the 5250 record form some hosts wrap commands in:
// [cmd(1)][seq(1)][len_hi][len_lo][flags(1)][data...], where the declared
// length counts the data bytes that follow the flags byte (spec.md §3
// Packet). The parser rejects short frames and length mismatches.
type Packet struct {
	Command  byte
	Sequence byte
	Flags    byte
	Data     []byte
}

// packetHeaderLen is the fixed prefix before the data bytes.
const packetHeaderLen = 5

// ParsePacket decodes one record-framed command, validating that the
// declared length matches the data actually present.
func ParsePacket(raw []byte) (Packet, error) {
	if len(raw) < packetHeaderLen {
		return Packet{}, parseErrorf(0, "short packet header: %d bytes", len(raw))
	}
	declared := int(raw[2])<<8 | int(raw[3])
	data := raw[packetHeaderLen:]
	if declared != len(data) {
		return Packet{}, parseErrorf(raw[0], "packet length %d does not match %d data bytes", declared, len(data))
	}
	return Packet{
		Command:  raw[0],
		Sequence: raw[1],
		Flags:    raw[4],
		Data:     append([]byte(nil), data...),
	}, nil
}

// Bytes encodes the packet back into its wire form.
func (p Packet) Bytes() []byte {
	out := make([]byte, 0, packetHeaderLen+len(p.Data))
	out = append(out, p.Command, p.Sequence, byte(len(p.Data)>>8), byte(len(p.Data)), p.Flags)
	out = append(out, p.Data...)
	return out
}

// ProcessPacket validates a record-framed command and dispatches it as if
// its command byte and data had arrived unframed.
func (p *Processor) ProcessPacket(raw []byte) ([]byte, error) {
	pkt, err := ParsePacket(raw)
	if err != nil {
		return nil, err
	}
	record := append([]byte{pkt.Command}, pkt.Data...)
	return p.Process(record)
}
