package node

import (
	"fmt"
	"math"
	"strconv"
)

// Node is one element of a document tree.
//
// Scalar payloads are normalized to string, bool, int64, uint64 (only for
// values above math.MaxInt64) or float64.
type Node struct {
	kind    Kind
	value   any
	keys    []string // mapping keys, parallel to items
	items   []*Node
	comment string
	parent  *Node

	// placeholder state, see Get
	virtual bool
	origin  *Node
	seg     Segment
	real    *Node
}

// Entry is one key/value pair of a mapping.
type Entry struct {
	Key   string
	Value *Node
}

func Null() *Node { return &Node{kind: NullKind} }

func String(s string) *Node { return &Node{kind: ScalarKind, value: s} }

func Bool(b bool) *Node { return &Node{kind: ScalarKind, value: b} }

func Int(i int64) *Node { return &Node{kind: ScalarKind, value: i} }

// Uint stores u as int64 when it fits, so small unsigned and signed values
// compare equal.
func Uint(u uint64) *Node {
	if u <= math.MaxInt64 {
		return Int(int64(u))
	}
	return &Node{kind: ScalarKind, value: u}
}

func Float(f float64) *Node { return &Node{kind: ScalarKind, value: f} }

// Scalar builds a scalar node from any Go string, bool, integer or float
// value. A nil v yields a Null node.
func Scalar(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Uint(uint64(x)), nil
	case uint8:
		return Uint(uint64(x)), nil
	case uint16:
		return Uint(uint64(x)), nil
	case uint32:
		return Uint(uint64(x)), nil
	case uint64:
		return Uint(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	default:
		return nil, fmt.Errorf("node: unsupported scalar type %T", v)
	}
}

// Sequence returns a sequence node holding items. Items must be detached.
func Sequence(items ...*Node) *Node {
	n := &Node{kind: SequenceKind, items: make([]*Node, 0, len(items))}
	for _, it := range items {
		if err := n.Append(it); err != nil {
			panic(err)
		}
	}
	return n
}

// Mapping returns an empty mapping node.
func Mapping() *Node { return &Node{kind: MappingKind} }

// live follows a materialized placeholder to the node it became.
func (n *Node) live() *Node {
	for n.virtual && n.real != nil {
		n = n.real
	}
	return n
}

// IsVirtual reports whether n is a placeholder for a missing child that has
// not been written to.
func (n *Node) IsVirtual() bool {
	n = n.live()
	return n.virtual
}

func (n *Node) Kind() Kind { return n.live().kind }

func (n *Node) IsNull() bool { return n.Kind() == NullKind }

// Value returns the scalar payload, or nil for non-scalars.
func (n *Node) Value() any {
	n = n.live()
	if n.kind != ScalarKind {
		return nil
	}
	return n.value
}

// Text renders a scalar payload as text. Non-scalars render as "".
func (n *Node) Text() string {
	switch v := n.Value().(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return ""
	}
}

func (n *Node) Comment() string { return n.live().comment }

// WithComment sets the comment on n and returns n. The tag and value are
// untouched.
func (n *Node) WithComment(text string) *Node {
	n.live().comment = text
	return n
}

// Len returns the number of children of a sequence or mapping.
func (n *Node) Len() int { return len(n.live().items) }

// Keys returns a copy of a mapping's keys in order.
func (n *Node) Keys() []string {
	n = n.live()
	if n.kind != MappingKind {
		return nil
	}
	return append([]string(nil), n.keys...)
}

// Items returns a copy of the child list of a sequence or mapping.
func (n *Node) Items() []*Node {
	return append([]*Node(nil), n.live().items...)
}

func (n *Node) AsScalar() (any, error) {
	if n.Kind() != ScalarKind {
		return nil, n.wrongKind(ScalarKind)
	}
	return n.Value(), nil
}

func (n *Node) AsSequence() ([]*Node, error) {
	if n.Kind() != SequenceKind {
		return nil, n.wrongKind(SequenceKind)
	}
	return n.Items(), nil
}

func (n *Node) AsMapping() ([]Entry, error) {
	ln := n.live()
	if ln.kind != MappingKind {
		return nil, n.wrongKind(MappingKind)
	}
	out := make([]Entry, len(ln.keys))
	for i, k := range ln.keys {
		out[i] = Entry{Key: k, Value: ln.items[i]}
	}
	return out, nil
}

func (n *Node) wrongKind(want Kind) error {
	return &WrongKindError{Path: n.Path(), Want: want, Got: n.Kind()}
}

func (n *Node) indexOf(key string) int {
	for i, k := range n.keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Get returns the child at seg. It never returns nil: a missing child, or a
// segment that does not fit n's kind, yields a virtual Null node. Get does
// not modify the tree.
func (n *Node) Get(seg Segment) *Node {
	ln := n.live()
	if !ln.virtual {
		switch {
		case ln.kind == MappingKind && !seg.IsIndex():
			if i := ln.indexOf(seg.key); i >= 0 {
				return ln.items[i]
			}
		case ln.kind == SequenceKind && seg.IsIndex():
			if seg.index >= 0 && seg.index < len(ln.items) {
				return ln.items[seg.index]
			}
		}
	}
	return &Node{kind: NullKind, virtual: true, origin: ln, seg: seg}
}

// Has reports whether a real child exists at seg.
func (n *Node) Has(seg Segment) bool {
	return !n.Get(seg).IsVirtual()
}

// Set replaces or adds the child at seg. On a mapping, a new key is appended
// and an existing key keeps its position. On a sequence, seg may address an
// existing element or the position right after the last one. Sibling order
// and sibling comments are untouched.
//
// Set on a virtual node first materializes it (and any virtual ancestors) as
// a mapping or sequence, depending on seg.
func (n *Node) Set(seg Segment, child *Node) error {
	child = child.live()
	if child.parent != nil || child.virtual {
		return ErrAttached
	}
	want := MappingKind
	if seg.IsIndex() {
		want = SequenceKind
	}
	target, err := n.materialize(want)
	if err != nil {
		return err
	}
	switch {
	case target.kind == MappingKind && !seg.IsIndex():
		if i := target.indexOf(seg.key); i >= 0 {
			target.items[i].parent = nil
			target.items[i] = child
		} else {
			target.keys = append(target.keys, seg.key)
			target.items = append(target.items, child)
		}
	case target.kind == SequenceKind && seg.IsIndex():
		switch {
		case seg.index >= 0 && seg.index < len(target.items):
			target.items[seg.index].parent = nil
			target.items[seg.index] = child
		case seg.index == len(target.items):
			target.items = append(target.items, child)
		default:
			return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, seg.index, len(target.items))
		}
	default:
		return target.wrongKind(want)
	}
	child.parent = target
	return nil
}

// Append adds child at the end of a sequence, materializing n if virtual.
func (n *Node) Append(child *Node) error {
	target, err := n.materialize(SequenceKind)
	if err != nil {
		return err
	}
	return target.Set(Index(len(target.items)), child)
}

// Delete removes a mapping key and reports whether it was present.
func (n *Node) Delete(key string) bool {
	ln := n.live()
	if ln.kind != MappingKind {
		return false
	}
	i := ln.indexOf(key)
	if i < 0 {
		return false
	}
	ln.items[i].parent = nil
	ln.keys = append(ln.keys[:i], ln.keys[i+1:]...)
	ln.items = append(ln.items[:i], ln.items[i+1:]...)
	return true
}

// materialize turns a virtual node into a real node of kind want attached to
// its origin. Real nodes are returned unchanged.
func (n *Node) materialize(want Kind) (*Node, error) {
	ln := n.live()
	if !ln.virtual {
		return ln, nil
	}
	parentKind := MappingKind
	if ln.seg.IsIndex() {
		parentKind = SequenceKind
	}
	parent, err := ln.origin.materialize(parentKind)
	if err != nil {
		return nil, err
	}
	if existing := parent.Get(ln.seg); !existing.IsVirtual() {
		ln.real = existing
		return existing, nil
	}
	created := &Node{kind: want}
	if err := parent.Set(ln.seg, created); err != nil {
		return nil, err
	}
	ln.real = created
	return created, nil
}

func (n *Node) Parent() *Node {
	ln := n.live()
	if ln.virtual {
		return ln.origin
	}
	return ln.parent
}

// Root walks parent links to the top of the tree.
func (n *Node) Root() *Node {
	r := n.live()
	for {
		p := r.Parent()
		if p == nil {
			return r
		}
		r = p.live()
	}
}

// Path computes the position of n from its root. It is derived from parent
// links on every call.
func (n *Node) Path() Path {
	var rev []Segment
	cur := n.live()
	for {
		if cur.virtual {
			rev = append(rev, cur.seg)
			cur = cur.origin.live()
			continue
		}
		p := cur.parent
		if p == nil {
			break
		}
		for i, c := range p.items {
			if c != cur {
				continue
			}
			if p.kind == MappingKind {
				rev = append(rev, Key(p.keys[i]))
			} else {
				rev = append(rev, Index(i))
			}
			break
		}
		cur = p
	}
	out := make(Path, len(rev))
	for i, s := range rev {
		out[len(rev)-1-i] = s
	}
	return out
}

// Clone returns a deep copy of n with no parent. Cloning a virtual node
// yields a plain Null node.
func (n *Node) Clone() *Node {
	ln := n.live()
	dst := &Node{kind: ln.kind, value: ln.value, comment: ln.comment}
	if ln.virtual {
		dst.kind = NullKind
		return dst
	}
	if ln.keys != nil {
		dst.keys = append([]string(nil), ln.keys...)
	}
	if len(ln.items) > 0 {
		dst.items = make([]*Node, len(ln.items))
		for i, c := range ln.items {
			cc := c.Clone()
			cc.parent = dst
			dst.items[i] = cc
		}
	}
	return dst
}

// Interface converts the tree to plain Go values: map[string]any, []any,
// scalar payloads and nil.
func (n *Node) Interface() any {
	ln := n.live()
	switch ln.kind {
	case ScalarKind:
		return ln.value
	case SequenceKind:
		out := make([]any, len(ln.items))
		for i, c := range ln.items {
			out[i] = c.Interface()
		}
		return out
	case MappingKind:
		out := make(map[string]any, len(ln.items))
		for i, k := range ln.keys {
			out[k] = ln.items[i].Interface()
		}
		return out
	default:
		return nil
	}
}

func (n *Node) String() string {
	switch n.Kind() {
	case ScalarKind:
		return fmt.Sprintf("%v", n.Value())
	case SequenceKind:
		return fmt.Sprintf("sequence(%d)", n.Len())
	case MappingKind:
		return fmt.Sprintf("mapping(%d)", n.Len())
	default:
		return "null"
	}
}
