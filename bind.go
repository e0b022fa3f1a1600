package tackle

import (
	"fmt"
	"reflect"

	"github.com/Azhovan/tackle/node"
)

// Binding asks for a value of Type at Path. Declaration layers build one
// per call.
type Binding struct {
	Type Type
	Path node.Path

	// Default is used when nothing is found at Path. It is either a value
	// assignable to Type or a string literal decoded as Type.
	Default    any
	HasDefault bool
	Required   bool
}

// Bind decodes the node at b.Path. A missing node, or a Null node for a
// type that cannot hold nil, falls back to b.Default; without a default a
// required binding fails with *MissingRequiredFieldError.
func (r *Registry) Bind(root *node.Node, b Binding, opts ...DecodeOption) (any, error) {
	if !b.Type.IsValid() {
		return nil, &NoSerializerError{Path: b.Path, Type: b.Type}
	}
	var cfg decodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	ctx := &DecodeContext{reg: r, path: b.Path, strict: cfg.strict}

	n := node.Null()
	if root != nil {
		n = node.Resolve(root, b.Path)
	}
	if !isMissing(n, b.Type) {
		v, err := ctx.Decode(n, b.Type)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	}

	switch {
	case b.HasDefault:
		return r.bindDefault(ctx, b)
	case b.Required:
		return nil, &MissingRequiredFieldError{Path: b.Path}
	}
	if !r.isRecord(b.Type) {
		return reflect.Zero(b.Type.Go()).Interface(), nil
	}
	// nested members still get their own defaults
	v, err := ctx.Decode(node.Null(), b.Type)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (r *Registry) bindDefault(ctx *DecodeContext, b Binding) (any, error) {
	rt := b.Type.Go()
	dv := reflect.ValueOf(b.Default)
	switch {
	case !dv.IsValid():
		return reflect.Zero(rt).Interface(), nil
	case dv.Type().AssignableTo(rt):
		out := reflect.New(rt).Elem()
		out.Set(dv)
		return out.Interface(), nil
	case dv.Kind() == reflect.String:
		v, err := ctx.Decode(defaultNode(dv.String(), b.Type), b.Type)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	}
	return nil, fmt.Errorf("tackle: %s: default of type %s does not fit %s", pathString(b.Path), dv.Type(), b.Type)
}

// Store encodes v as b.Type and writes it at b.Path, creating missing
// mappings on the way. An existing comment at the target is kept when the
// new node has none. Siblings are untouched.
func (r *Registry) Store(root *node.Node, b Binding, v any) error {
	n, err := r.ExtractFrom(v, b.Type)
	if err != nil {
		return err
	}
	if existing := node.Resolve(root, b.Path); !existing.IsVirtual() && n.Comment() == "" {
		n.WithComment(existing.Comment())
	}
	return node.Store(root, b.Path, n)
}
