package tackle

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/Azhovan/tackle/node"
)

// DecodeOption configures a single decode call.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	strict bool
}

// Strict makes mapping keys that no record member claims fail with
// *UnknownKeyError. Default: false.
func Strict(strict bool) DecodeOption {
	return func(c *decodeConfig) { c.strict = strict }
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	r.Seal()
	return r
})

// DefaultRegistry returns a sealed registry holding only the built-in
// serializers. The package-level helpers use it when given a nil registry.
func DefaultRegistry() *Registry { return defaultRegistry() }

func orDefault(r *Registry) *Registry {
	if r == nil {
		return defaultRegistry()
	}
	return r
}

// ParseInto decodes root into a value of type t. The call either succeeds
// as a whole or returns the first error, which names the full path of the
// offending node. root is never modified.
func (r *Registry) ParseInto(root *node.Node, t Type, opts ...DecodeOption) (any, error) {
	v, err := r.decode(root, t, opts)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (r *Registry) decode(root *node.Node, t Type, opts []DecodeOption) (reflect.Value, error) {
	var cfg decodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if root == nil {
		root = node.Null()
	}
	ctx := &DecodeContext{reg: r, strict: cfg.strict}
	return ctx.Decode(root, t)
}

// Parse decodes root into a T.
func Parse[T any](reg *Registry, root *node.Node, opts ...DecodeOption) (T, error) {
	var out T
	v, err := orDefault(reg).decode(root, TypeFor[T](), opts)
	if err != nil {
		return out, err
	}
	reflect.ValueOf(&out).Elem().Set(v)
	return out, nil
}

// ExtractFrom encodes v, described by t, into a new detached tree.
func (r *Registry) ExtractFrom(v any, t Type) (*node.Node, error) {
	rv := reflect.ValueOf(v)
	rt := t.Go()
	switch {
	case rt == nil:
		return nil, &NoSerializerError{Type: t}
	case !rv.IsValid():
		rv = reflect.Zero(rt)
	case rv.Type() != rt:
		if !rv.Type().AssignableTo(rt) {
			return nil, fmt.Errorf("tackle: cannot extract %s as %s", rv.Type(), t)
		}
		cv := reflect.New(rt).Elem()
		cv.Set(rv)
		rv = cv
	}
	return r.encode(rv, t, false)
}

func (r *Registry) encode(v reflect.Value, t Type, omitZeroRequired bool) (*node.Node, error) {
	ctx := &EncodeContext{reg: r, omitNull: r.omitNull, omitZeroRequired: omitZeroRequired}
	return ctx.Encode(v, t)
}

// Extract encodes v into a new detached tree.
func Extract[T any](reg *Registry, v T) (*node.Node, error) {
	return orDefault(reg).encode(reflect.ValueOf(&v).Elem(), TypeFor[T](), false)
}

// MergeWithDefaults composes a defaults tree with a loaded tree. See
// node.Merge for the rules.
func MergeWithDefaults(defaults, loaded *node.Node) *node.Node {
	return node.Merge(defaults, loaded)
}
