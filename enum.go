package tackle

import (
	"reflect"
	"strings"

	"github.com/Azhovan/tackle/node"
)

// enumSerializer handles types implementing Enum by constant name.
type enumSerializer struct {
	caseSensitive bool
}

func (enumSerializer) Serialize(_ *EncodeContext, v reflect.Value) (*node.Node, error) {
	return node.String(v.Interface().(Enum).String()), nil
}

func (s enumSerializer) Deserialize(ctx *DecodeContext, n *node.Node, t Type) (reflect.Value, error) {
	if n.Kind() != node.ScalarKind {
		return reflect.Value{}, &WrongNodeKindError{Path: ctx.Path(), Type: t, Want: node.ScalarKind, Got: n.Kind()}
	}
	name := strings.TrimSpace(n.Text())

	constants := reflect.Zero(t.Go()).Interface().(Enum).EnumConstants()
	valid := make([]string, 0, len(constants))
	for _, c := range constants {
		e, ok := c.(Enum)
		if !ok {
			continue
		}
		cn := e.String()
		valid = append(valid, cn)
		if cn == name || (!s.caseSensitive && strings.EqualFold(cn, name)) {
			rv := reflect.ValueOf(c)
			if rv.Type() != t.Go() {
				rv = rv.Convert(t.Go())
			}
			return rv, nil
		}
	}
	return reflect.Value{}, &UnknownEnumConstantError{Path: ctx.Path(), Type: t, Value: name, Valid: valid}
}
