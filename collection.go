package tackle

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/Azhovan/tackle/node"
)

// sequenceSerializer handles slices and arrays. A nil slice encodes to
// Null and Null decodes to the zero value.
type sequenceSerializer struct{}

func (sequenceSerializer) Serialize(ctx *EncodeContext, v reflect.Value) (*node.Node, error) {
	if v.Kind() == reflect.Slice && v.IsNil() {
		return node.Null(), nil
	}
	elem := TypeOf(v.Type().Elem())
	seq := node.Sequence()
	for i := 0; i < v.Len(); i++ {
		c, err := ctx.Encode(v.Index(i), elem)
		if err != nil {
			return nil, err
		}
		if err := seq.Append(c); err != nil {
			return nil, err
		}
	}
	return seq, nil
}

func (sequenceSerializer) Deserialize(ctx *DecodeContext, n *node.Node, t Type) (reflect.Value, error) {
	if n.IsNull() {
		return reflect.Zero(t.Go()), nil
	}
	items, err := n.AsSequence()
	if err != nil {
		return reflect.Value{}, &WrongNodeKindError{Path: ctx.Path(), Type: t, Want: node.SequenceKind, Got: n.Kind()}
	}

	rt := t.Go()
	var out reflect.Value
	if rt.Kind() == reflect.Array {
		if len(items) != rt.Len() {
			return reflect.Value{}, &TypeCoercionError{
				Path:  ctx.Path(),
				Type:  t,
				Value: n.Interface(),
				Err:   fmt.Errorf("want %d elements, got %d", rt.Len(), len(items)),
			}
		}
		out = reflect.New(rt).Elem()
	} else {
		out = reflect.MakeSlice(rt, len(items), len(items))
	}

	elem := t.Arg(0)
	for i, it := range items {
		ev, err := ctx.DecodeAt(node.Index(i), it, elem)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

// mapSerializer handles Go maps. Keys go through the registry as string
// scalars. Go maps have no order, so keys are written sorted.
type mapSerializer struct{}

func (mapSerializer) Serialize(ctx *EncodeContext, v reflect.Value) (*node.Node, error) {
	if v.IsNil() {
		return node.Null(), nil
	}
	keyT, elemT := TypeOf(v.Type().Key()), TypeOf(v.Type().Elem())

	type kv struct {
		key string
		val reflect.Value
	}
	pairs := make([]kv, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		kn, err := ctx.Encode(iter.Key(), keyT)
		if err != nil {
			return nil, err
		}
		if kn.Kind() != node.ScalarKind {
			return nil, fmt.Errorf("tackle: map key of type %s encodes to %s, want scalar", keyT, kn.Kind())
		}
		pairs = append(pairs, kv{key: kn.Text(), val: iter.Value()})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	m := node.Mapping()
	for _, p := range pairs {
		c, err := ctx.Encode(p.val, elemT)
		if err != nil {
			return nil, err
		}
		if err := m.Set(node.Key(p.key), c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (mapSerializer) Deserialize(ctx *DecodeContext, n *node.Node, t Type) (reflect.Value, error) {
	if n.IsNull() {
		return reflect.Zero(t.Go()), nil
	}
	entries, err := n.AsMapping()
	if err != nil {
		return reflect.Value{}, &WrongNodeKindError{Path: ctx.Path(), Type: t, Want: node.MappingKind, Got: n.Kind()}
	}
	keyT, elemT := t.Arg(0), t.Arg(1)
	out := reflect.MakeMapWithSize(t.Go(), len(entries))
	for _, e := range entries {
		seg := node.Key(e.Key)
		kv, err := ctx.DecodeAt(seg, node.String(e.Key), keyT)
		if err != nil {
			return reflect.Value{}, err
		}
		ev, err := ctx.DecodeAt(seg, e.Value, elemT)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(kv, ev)
	}
	return out, nil
}

// orderedMapSerializer handles OrderedMap and keeps key order both ways.
type orderedMapSerializer struct{}

func (orderedMapSerializer) Serialize(ctx *EncodeContext, v reflect.Value) (*node.Node, error) {
	om := asOrderedMapping(v)
	elemT := TypeOf(om.elemType())
	m := node.Mapping()
	for _, k := range om.Keys() {
		c, err := ctx.Encode(om.entry(k), elemT)
		if err != nil {
			return nil, err
		}
		if err := m.Set(node.Key(k), c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (orderedMapSerializer) Deserialize(ctx *DecodeContext, n *node.Node, t Type) (reflect.Value, error) {
	p := reflect.New(t.Go())
	if n.IsNull() {
		return p.Elem(), nil
	}
	entries, err := n.AsMapping()
	if err != nil {
		return reflect.Value{}, &WrongNodeKindError{Path: ctx.Path(), Type: t, Want: node.MappingKind, Got: n.Kind()}
	}
	om := p.Interface().(orderedMapping)
	elemT := TypeOf(om.elemType())
	for _, e := range entries {
		ev, err := ctx.DecodeAt(node.Key(e.Key), e.Value, elemT)
		if err != nil {
			return reflect.Value{}, err
		}
		om.setEntry(e.Key, ev)
	}
	return p.Elem(), nil
}

func asOrderedMapping(v reflect.Value) orderedMapping {
	if v.CanAddr() {
		return v.Addr().Interface().(orderedMapping)
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Interface().(orderedMapping)
}
