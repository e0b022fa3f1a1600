package tackle

import (
	"reflect"

	"github.com/Azhovan/tackle/node"
)

func isDynamicType(t Type) bool {
	return t.Kind() == reflect.Interface && t.Go().NumMethod() == 0
}

// dynamicSerializer handles empty interfaces. Decoding yields plain Go
// values (map[string]any, []any, scalars, nil); encoding dispatches on the
// dynamic type.
type dynamicSerializer struct{}

func (dynamicSerializer) Serialize(ctx *EncodeContext, v reflect.Value) (*node.Node, error) {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return node.Null(), nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return node.Null(), nil
	}
	return ctx.Encode(v, TypeOf(v.Type()))
}

func (dynamicSerializer) Deserialize(_ *DecodeContext, n *node.Node, t Type) (reflect.Value, error) {
	out := reflect.New(t.Go()).Elem()
	if val := n.Interface(); val != nil {
		out.Set(reflect.ValueOf(val))
	}
	return out, nil
}
