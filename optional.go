package tackle

import (
	"reflect"

	"github.com/Azhovan/tackle/node"
)

// optionalSerializer handles Optional. Null and missing nodes decode to the
// unset value; an unset value encodes to Null.
type optionalSerializer struct{}

func (optionalSerializer) Serialize(ctx *EncodeContext, v reflect.Value) (*node.Node, error) {
	if !v.FieldByName("Set").Bool() {
		return node.Null(), nil
	}
	inner := v.FieldByName("Value")
	return ctx.Encode(inner, TypeOf(inner.Type()))
}

func (optionalSerializer) Deserialize(ctx *DecodeContext, n *node.Node, t Type) (reflect.Value, error) {
	out := reflect.New(t.Go()).Elem()
	if n.IsNull() {
		return out, nil
	}
	iv, err := ctx.Decode(n, t.Arg(0))
	if err != nil {
		return reflect.Value{}, err
	}
	out.FieldByName("Value").Set(iv)
	out.FieldByName("Set").SetBool(true)
	return out, nil
}

// pointerSerializer handles *T. Null decodes to nil; nil encodes to Null.
type pointerSerializer struct{}

func (pointerSerializer) Serialize(ctx *EncodeContext, v reflect.Value) (*node.Node, error) {
	if v.IsNil() {
		return node.Null(), nil
	}
	return ctx.Encode(v.Elem(), TypeOf(v.Type().Elem()))
}

func (pointerSerializer) Deserialize(ctx *DecodeContext, n *node.Node, t Type) (reflect.Value, error) {
	if n.IsNull() {
		return reflect.Zero(t.Go()), nil
	}
	elem := t.Arg(0)
	ev, err := ctx.Decode(n, elem)
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(elem.Go())
	p.Elem().Set(ev)
	return p, nil
}
