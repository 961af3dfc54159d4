package hessian

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Serialize emits root as a Hessian 1.0 byte stream. It fails only on
// programmer errors: an unrecognized Node implementation, a string/
// binary value so large that even maximal chunking would exceed the
// stream-size cap, or a List/Map type name longer than one chunk
// (both EncodeReasonOversize).
func Serialize(root Node) ([]byte, error) {
	e := &encoder{seen: map[Node]int32{}}
	if err := e.writeNode(root); err != nil {
		return nil, err
	}
	return e.buf, nil
}

type encoder struct {
	buf  []byte
	seen map[Node]int32
}

func (e *encoder) writeNode(n Node) error {
	switch v := n.(type) {
	case nil:
		e.buf = append(e.buf, 'N')
		return nil
	case Null:
		e.buf = append(e.buf, 'N')
		return nil
	case Bool:
		if v {
			e.buf = append(e.buf, 'T')
		} else {
			e.buf = append(e.buf, 'F')
		}
		return nil
	case Int32:
		e.buf = append(e.buf, 'I')
		e.writeInt32(int32(v))
		return nil
	case Int64:
		e.buf = append(e.buf, 'L')
		e.writeInt64(int64(v))
		return nil
	case Double:
		e.buf = append(e.buf, 'D')
		e.writeUint64(math.Float64bits(float64(v)))
		return nil
	case Date:
		e.buf = append(e.buf, 'd')
		e.writeInt64(int64(v))
		return nil
	case String:
		return e.writeString(string(v))
	case Binary:
		return e.writeBinary([]byte(v))
	case *List:
		return e.writeList(v)
	case *Map:
		return e.writeMap(v)
	case *Ref:
		e.buf = append(e.buf, 'R')
		e.writeInt32(v.Index)
		return nil
	default:
		return newEncodeError(EncodeReasonUnknownNode, fmt.Sprintf("%T", n))
	}
}

func (e *encoder) writeString(s string) error {
	chunks, units := utf16Chunks(s)
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total > maxStreamBytes {
		return newEncodeError(EncodeReasonOversize, "string exceeds stream size cap")
	}
	for i, c := range chunks {
		final := i == len(chunks)-1
		if final {
			e.buf = append(e.buf, 'S')
		} else {
			e.buf = append(e.buf, 's')
		}
		e.writeUint16(uint16(units[i]))
		e.buf = append(e.buf, c...)
	}
	return nil
}

func (e *encoder) writeBinary(b []byte) error {
	if len(b) > maxStreamBytes {
		return newEncodeError(EncodeReasonOversize, "binary exceeds stream size cap")
	}
	if len(b) == 0 {
		e.buf = append(e.buf, 'B')
		e.writeUint16(0)
		return nil
	}
	for start := 0; start < len(b); {
		end := start + maxChunkUnits
		if end > len(b) {
			end = len(b)
		}
		final := end == len(b)
		if final {
			e.buf = append(e.buf, 'B')
		} else {
			e.buf = append(e.buf, 'b')
		}
		e.writeUint16(uint16(end - start))
		e.buf = append(e.buf, b[start:end]...)
		start = end
	}
	return nil
}

func (e *encoder) writeList(l *List) error {
	if idx, ok := e.seen[l]; ok {
		e.buf = append(e.buf, 'R')
		e.writeInt32(idx)
		return nil
	}
	e.seen[l] = int32(len(e.seen))
	e.buf = append(e.buf, 'V')
	if l.HasType {
		if err := e.writeTypeName(l.TypeName); err != nil {
			return err
		}
	}
	if l.HasLength {
		e.buf = append(e.buf, 'l')
		e.writeInt32(l.Length)
	}
	for _, item := range l.Items {
		if err := e.writeNode(item); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, 'z')
	return nil
}

func (e *encoder) writeMap(m *Map) error {
	if idx, ok := e.seen[m]; ok {
		e.buf = append(e.buf, 'R')
		e.writeInt32(idx)
		return nil
	}
	e.seen[m] = int32(len(e.seen))
	e.buf = append(e.buf, 'M')
	if m.HasType {
		if err := e.writeTypeName(m.TypeName); err != nil {
			return err
		}
	}
	for i, key := range m.Keys {
		if err := e.writeNode(key); err != nil {
			return err
		}
		if err := e.writeNode(m.Values[i]); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, 'z')
	return nil
}

func (e *encoder) writeTypeName(name string) error {
	if len(name) > maxChunkUnits {
		return newEncodeError(EncodeReasonOversize, "type name exceeds chunk cap")
	}
	e.buf = append(e.buf, 't')
	e.writeUint16(uint16(len(name)))
	e.buf = append(e.buf, name...)
	return nil
}

func (e *encoder) writeUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) writeInt32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) writeInt64(v int64) {
	e.writeUint64(uint64(v))
}

func (e *encoder) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}
