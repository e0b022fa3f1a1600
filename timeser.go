package tackle

import (
	"reflect"
	"strings"
	"time"

	"github.com/Azhovan/tackle/node"
)

// durationSerializer writes durations as strings like "1m30s" and reads
// those or integer nanoseconds, given as numbers or digit strings.
type durationSerializer struct{}

func (durationSerializer) Serialize(_ *EncodeContext, v reflect.Value) (*node.Node, error) {
	return node.String(time.Duration(v.Int()).String()), nil
}

func (durationSerializer) Deserialize(ctx *DecodeContext, n *node.Node, t Type) (reflect.Value, error) {
	raw, err := n.AsScalar()
	if err != nil {
		return reflect.Value{}, &WrongNodeKindError{Path: ctx.Path(), Type: t, Want: node.ScalarKind, Got: n.Kind()}
	}
	var d time.Duration
	switch v := raw.(type) {
	case string:
		d, err = time.ParseDuration(v)
		if err != nil && isInteger(v) {
			var ns int64
			ns, err = toInt64(v)
			d = time.Duration(ns)
		}
	default:
		var ns int64
		ns, err = toInt64(v)
		d = time.Duration(ns)
	}
	if err != nil {
		return reflect.Value{}, &TypeCoercionError{Path: ctx.Path(), Type: t, Value: raw, Err: err}
	}
	return reflect.ValueOf(d).Convert(t.Go()), nil
}

// isInteger reports whether s is an optionally signed run of decimal digits.
func isInteger(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "+-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// timeSerializer reads and writes RFC 3339 timestamps.
type timeSerializer struct{}

func (timeSerializer) Serialize(_ *EncodeContext, v reflect.Value) (*node.Node, error) {
	return node.String(v.Interface().(time.Time).Format(time.RFC3339Nano)), nil
}

func (timeSerializer) Deserialize(ctx *DecodeContext, n *node.Node, t Type) (reflect.Value, error) {
	raw, err := n.AsScalar()
	if err != nil {
		return reflect.Value{}, &WrongNodeKindError{Path: ctx.Path(), Type: t, Want: node.ScalarKind, Got: n.Kind()}
	}
	s, ok := raw.(string)
	if !ok {
		return reflect.Value{}, &TypeCoercionError{Path: ctx.Path(), Type: t, Value: raw, Err: errNotTimestamp}
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return reflect.Value{}, &TypeCoercionError{Path: ctx.Path(), Type: t, Value: raw, Err: err}
	}
	return reflect.ValueOf(ts), nil
}
