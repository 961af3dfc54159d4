// Package hessian implements the byte-level and node-level layers of the
// Hessian 1.0 object-stream subset used to talk to an Argus PEP daemon: a
// tagged value tree plus Serialize/Deserialize across it. It knows nothing
// about XACML; the xacml package builds the domain mapping on top of it.
package hessian

// Node is the tagged sum over every value the codec can carry on the wire.
// Concrete types: Null, Bool, Int32, Int64, Double, Date, String, Binary,
// *List, *Map, *Ref. List and Map are pointer types so the encoder and
// decoder can track container identity for the reference table.
type Node interface {
	hessianNode()
}

// Null is the absence of a value.
type Null struct{}

// Bool is a boolean scalar.
type Bool bool

// Int32 is a signed 32-bit integer scalar.
type Int32 int32

// Int64 is a signed 64-bit integer scalar.
type Int64 int64

// Double is an IEEE-754 64-bit float scalar.
type Double float64

// Date is a signed 64-bit count of milliseconds since the Unix epoch.
type Date int64

// String is UTF-8 text. The wire may split it into chunks; Deserialize
// always hands back one reassembled String.
type String string

// Binary is an opaque byte sequence. The wire may split it into chunks.
type Binary []byte

// List is an ordered sequence of child nodes, with an optional type name
// and an optional advisory declared length.
type List struct {
	TypeName  string
	HasType   bool
	Length    int32
	HasLength bool
	Items     []Node
}

// Map is an ordered sequence of (key, value) pairs, with an optional type
// name. Keys and Values always have equal length.
type Map struct {
	TypeName string
	HasType  bool
	Keys     []Node
	Values   []Node
}

// Ref is a back-reference into the current stream's reference table. Target
// is populated on decode with the node the index resolved to, so callers
// can treat a Ref transparently without re-walking the table themselves.
type Ref struct {
	Index  int32
	Target Node
}

func (Null) hessianNode()   {}
func (Bool) hessianNode()   {}
func (Int32) hessianNode()  {}
func (Int64) hessianNode()  {}
func (Double) hessianNode() {}
func (Date) hessianNode()   {}
func (String) hessianNode() {}
func (Binary) hessianNode() {}
func (*List) hessianNode()  {}
func (*Map) hessianNode()   {}
func (*Ref) hessianNode()   {}

// NewList returns an empty, untyped List ready to append Items to.
func NewList() *List {
	return &List{}
}

// NewMap returns an empty, untyped Map ready to append entries to.
func NewMap() *Map {
	return &Map{}
}

// Put appends a (key, value) pair, preserving insertion order.
func (m *Map) Put(key, value Node) {
	m.Keys = append(m.Keys, key)
	m.Values = append(m.Values, value)
}

// Get returns the value for the first String key equal to key, by linear
// scan (maps are small). ok is false when no such key is present or when
// the key is present with a Null value -- the caller must check HasKey
// separately if it needs to distinguish those.
func (m *Map) Get(key string) (value Node, ok bool) {
	for i, k := range m.Keys {
		if ks, isStr := k.(String); isStr && string(ks) == key {
			_, isNull := m.Values[i].(Null)
			return m.Values[i], !isNull
		}
	}
	return nil, false
}

// HasKey reports whether key is present at all, regardless of its value.
func (m *Map) HasKey(key string) bool {
	for _, k := range m.Keys {
		if ks, isStr := k.(String); isStr && string(ks) == key {
			return true
		}
	}
	return false
}

// Deref returns n with any top-level Ref resolved to its Target. Non-Ref
// nodes are returned unchanged.
func Deref(n Node) Node {
	if r, ok := n.(*Ref); ok {
		return r.Target
	}
	return n
}
