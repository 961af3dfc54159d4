package hessian

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Deserialize reads one Hessian node from the front of data. It is strict:
// any unrecognized tag, truncation, invalid encoding, or out-of-range
// reference fails with a *DecodeError carrying the offending byte offset.
// Bytes past the node are left unread; callers that expect to consume an
// entire buffer are responsible for checking that themselves.
func Deserialize(data []byte) (Node, error) {
	d := &decoder{data: data}
	return d.readNode()
}

type decoder struct {
	data []byte
	pos  int
	refs []Node
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, newDecodeError(d.pos, ReasonTruncated, "expected a tag byte")
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) readN(n int) ([]byte, error) {
	if d.pos+n > len(d.data) {
		return nil, newDecodeError(d.pos, ReasonTruncated, "not enough bytes remaining")
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) readUint16() (uint16, error) {
	b, err := d.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *decoder) readInt32() (int32, error) {
	b, err := d.readN(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (d *decoder) readInt64() (int64, error) {
	b, err := d.readN(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (d *decoder) readNode() (Node, error) {
	start := d.pos
	tag, err := d.readByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case 'N':
		return Null{}, nil
	case 'T':
		return Bool(true), nil
	case 'F':
		return Bool(false), nil
	case 'I':
		v, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		return Int32(v), nil
	case 'L':
		v, err := d.readInt64()
		if err != nil {
			return nil, err
		}
		return Int64(v), nil
	case 'D':
		b, err := d.readN(8)
		if err != nil {
			return nil, err
		}
		return Double(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
	case 'd':
		v, err := d.readInt64()
		if err != nil {
			return nil, err
		}
		return Date(v), nil
	case 'S', 's':
		return d.readString(tag, start)
	case 'B', 'b':
		return d.readBinary(tag, start)
	case 'V':
		return d.readList()
	case 'M':
		return d.readMap()
	case 'R':
		idx, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		if idx < 0 || int(idx) >= len(d.refs) {
			return nil, newDecodeError(start, ReasonBadRef, "reference index out of range")
		}
		return &Ref{Index: idx, Target: d.refs[idx]}, nil
	default:
		return nil, newDecodeError(start, ReasonUnknownTag, string(tag))
	}
}

// readString reassembles a String value starting at a chunk already tagged
// by firstTag ('S' final, 's' non-final continues into the next chunk).
func (d *decoder) readString(firstTag byte, tagOffset int) (Node, error) {
	var out []byte
	tag := firstTag
	for {
		unitLen, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		chunkOffset := d.pos
		chunk, consumedUnits, err := d.readUTF8Units(int(unitLen), chunkOffset)
		if err != nil {
			return nil, err
		}
		if consumedUnits != int(unitLen) {
			return nil, newDecodeError(chunkOffset, ReasonBadUTF8, "chunk ended mid code unit")
		}
		out = append(out, chunk...)
		if len(out) > maxStreamBytes {
			return nil, newDecodeError(chunkOffset, ReasonOversize, "reassembled string exceeds stream size cap")
		}
		if tag == 'S' {
			break
		}
		tagOffset = d.pos
		tag, err = d.readByte()
		if err != nil {
			return nil, err
		}
		if tag != 'S' && tag != 's' {
			return nil, newDecodeError(tagOffset, ReasonShapeMismatch, "expected string continuation chunk")
		}
	}
	return String(out), nil
}

// readUTF8Units consumes UTF-8 bytes until wantUnits UTF-16 code units have
// been decoded (runes above U+FFFF count as 2 units, matching the wire's
// UTF-16-based length field), returning the consumed bytes as-is.
func (d *decoder) readUTF8Units(wantUnits int, offset int) ([]byte, int, error) {
	start := d.pos
	units := 0
	for units < wantUnits {
		if d.pos >= len(d.data) {
			return nil, 0, newDecodeError(d.pos, ReasonTruncated, "string chunk truncated")
		}
		r, size := utf8.DecodeRune(d.data[d.pos:])
		if r == utf8.RuneError && size <= 1 {
			return nil, 0, newDecodeError(d.pos, ReasonBadUTF8, "invalid utf-8 sequence")
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		d.pos += size
	}
	return d.data[start:d.pos], units, nil
}

func (d *decoder) readBinary(firstTag byte, tagOffset int) (Node, error) {
	var out []byte
	tag := firstTag
	for {
		byteLen, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		chunk, err := d.readN(int(byteLen))
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		if len(out) > maxStreamBytes {
			return nil, newDecodeError(d.pos, ReasonOversize, "reassembled binary exceeds stream size cap")
		}
		if tag == 'B' {
			break
		}
		tagOffset = d.pos
		tag, err = d.readByte()
		if err != nil {
			return nil, err
		}
		if tag != 'B' && tag != 'b' {
			return nil, newDecodeError(tagOffset, ReasonShapeMismatch, "expected binary continuation chunk")
		}
	}
	if out == nil {
		out = []byte{}
	}
	return Binary(out), nil
}

// peekOptionalHeader reads the optional 't' and 'l' header blocks that
// may follow a V or M tag. allowLength controls whether 'l' is legal here
// (only inside List).
func (d *decoder) peekOptionalHeader(allowLength bool) (typeName string, hasType bool, length int32, hasLength bool, err error) {
	for {
		if d.pos >= len(d.data) {
			return
		}
		switch d.data[d.pos] {
		case 't':
			offset := d.pos
			d.pos++
			n, uerr := d.readUint16()
			if uerr != nil {
				err = uerr
				return
			}
			nameBytes, nerr := d.readN(int(n))
			if nerr != nil {
				err = nerr
				return
			}
			if !utf8.Valid(nameBytes) {
				err = newDecodeError(offset, ReasonBadUTF8, "invalid utf-8 in type name")
				return
			}
			typeName = string(nameBytes)
			hasType = true
		case 'l':
			if !allowLength {
				return
			}
			d.pos++
			v, lerr := d.readInt32()
			if lerr != nil {
				err = lerr
				return
			}
			length = v
			hasLength = true
		default:
			return
		}
	}
}

func (d *decoder) readList() (Node, error) {
	l := &List{}
	d.refs = append(d.refs, l)
	typeName, hasType, length, hasLength, err := d.peekOptionalHeader(true)
	if err != nil {
		return nil, err
	}
	l.TypeName, l.HasType, l.Length, l.HasLength = typeName, hasType, length, hasLength
	for {
		if d.pos >= len(d.data) {
			return nil, newDecodeError(d.pos, ReasonTruncated, "list missing terminator")
		}
		if d.data[d.pos] == 'z' {
			d.pos++
			return l, nil
		}
		item, err := d.readNode()
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, item)
	}
}

func (d *decoder) readMap() (Node, error) {
	m := &Map{}
	d.refs = append(d.refs, m)
	typeName, hasType, _, _, err := d.peekOptionalHeader(false)
	if err != nil {
		return nil, err
	}
	m.TypeName, m.HasType = typeName, hasType
	for {
		if d.pos >= len(d.data) {
			return nil, newDecodeError(d.pos, ReasonTruncated, "map missing terminator")
		}
		if d.data[d.pos] == 'z' {
			d.pos++
			return m, nil
		}
		keyOffset := d.pos
		key, err := d.readNode()
		if err != nil {
			return nil, err
		}
		if d.pos >= len(d.data) || d.data[d.pos] == 'z' {
			return nil, newDecodeError(keyOffset, ReasonShapeMismatch, "map has key with no matching value")
		}
		value, err := d.readNode()
		if err != nil {
			return nil, err
		}
		m.Keys = append(m.Keys, key)
		m.Values = append(m.Values, value)
	}
}
