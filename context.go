package tackle

import (
	"fmt"
	"reflect"

	"github.com/Azhovan/tackle/node"
)

// DecodeContext is passed to Serializer.Deserialize. It carries the registry
// for nested lookups and the position of the node being decoded.
type DecodeContext struct {
	reg    *Registry
	path   node.Path
	strict bool

	// lenient skips required-member checks; used to build defaults trees.
	lenient bool
}

func (c *DecodeContext) Registry() *Registry { return c.reg }

// Path is the position of the node being decoded, used in errors.
func (c *DecodeContext) Path() node.Path { return c.path }

// Strict reports whether unknown mapping keys are errors.
func (c *DecodeContext) Strict() bool { return c.strict }

// Decode decodes n as t at the current position.
func (c *DecodeContext) Decode(n *node.Node, t Type) (reflect.Value, error) {
	s, err := c.reg.lookup(t)
	if err != nil {
		return reflect.Value{}, &NoSerializerError{Path: c.path, Type: t}
	}
	v, err := s.Deserialize(c, n, t)
	if err != nil {
		return reflect.Value{}, err
	}
	return conform(v, t, c.path)
}

// conform returns v as a value of exactly type t, so results of custom
// serializers can be stored in fields and containers.
func conform(v reflect.Value, t Type, path node.Path) (reflect.Value, error) {
	rt := t.Go()
	switch {
	case !v.IsValid():
		return reflect.Zero(rt), nil
	case v.Type() == rt:
		return v, nil
	case v.Type().AssignableTo(rt):
		out := reflect.New(rt).Elem()
		out.Set(v)
		return out, nil
	case v.Type().ConvertibleTo(rt) && v.Kind() == rt.Kind():
		return v.Convert(rt), nil
	}
	return reflect.Value{}, &TypeCoercionError{
		Path:  path,
		Type:  t,
		Value: v.Interface(),
		Err:   fmt.Errorf("serializer returned %s", v.Type()),
	}
}

// DecodeAt decodes the child n, found at seg below the current position.
func (c *DecodeContext) DecodeAt(seg node.Segment, n *node.Node, t Type) (reflect.Value, error) {
	return c.at(seg).Decode(n, t)
}

func (c *DecodeContext) at(seg node.Segment) *DecodeContext {
	return &DecodeContext{reg: c.reg, path: c.path.Child(seg), strict: c.strict, lenient: c.lenient}
}

// EncodeContext is passed to Serializer.Serialize.
type EncodeContext struct {
	reg      *Registry
	omitNull bool

	// omitZeroRequired leaves required members with zero values out of
	// record mappings, so a defaults tree does not satisfy them.
	omitZeroRequired bool
}

func (c *EncodeContext) Registry() *Registry { return c.reg }

// OmitNull reports whether record members encoding to Null are left out.
func (c *EncodeContext) OmitNull() bool { return c.omitNull }

// Encode serializes v, described by t, through the registry.
func (c *EncodeContext) Encode(v reflect.Value, t Type) (*node.Node, error) {
	s, err := c.reg.lookup(t)
	if err != nil {
		return nil, &NoSerializerError{Type: t}
	}
	return s.Serialize(c, v)
}
