package tn3270

// Structured-field class/type bytes this processor recognizes within a
// Write-Structured-Field command (spec.md §4.4 "Write Structured Field").
// Implementer-assigned; no literal values are given by the source
// specification.
const (
	sfClassQuery     byte = 0xD9
	sfTypeQuery      byte = 0x70
	sfTypeQueryReply byte = 0x80
)

// writeStructuredField parses one length-prefixed structured field:
// `len(2) class(1) type(1) data...` and, for a Query, returns a
// Query-Reply capability record.
func (p *Processor) writeStructuredField(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, parseErrorf(CmdWriteStructuredField, "short structured field header")
	}
	length := int(data[0])<<8 | int(data[1])
	if length > len(data) {
		return nil, parseErrorf(CmdWriteStructuredField, "declared length exceeds remaining bytes")
	}
	class, typ := data[2], data[3]
	if class == sfClassQuery && typ == sfTypeQuery {
		return p.queryReply(), nil
	}
	return nil, nil
}

// queryReply answers Query with a capability record: model name,
// rows x cols, a feature-flag byte, and the addressing mode in use
// (spec.md §4.4 "answers Query with a capability record").
func (p *Processor) queryReply() []byte {
	size := p.screen.Size()
	out := []byte{sfClassQuery, sfTypeQueryReply}
	out = append(out, []byte("IBM-3278-2")...)
	out = append(out, byte(size.Rows), byte(size.Cols))
	out = append(out, 0x00) // feature flags: none beyond base
	if p.bufSize() > addressThreshold {
		out = append(out, 0x0E) // 14-bit addressing
	} else {
		out = append(out, 0x0C) // 12-bit addressing
	}
	return out
}
