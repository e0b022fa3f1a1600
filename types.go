package tackle

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Azhovan/tackle/node"
)

// Source provides a configuration document tree (files, env vars, remote stores).
type Source interface {
	// Load returns the source's tree. Missing optional sources should return an empty mapping.
	Load(ctx context.Context) (*node.Node, error)

	// Name identifies the source in errors and logs (e.g., "file:config.yaml").
	Name() string
}

// Sink accepts a tree for serialization back to its backend.
type Sink interface {
	Save(ctx context.Context, root *node.Node) error
}

// Watcher is implemented by sources that can report changes.
type Watcher interface {
	// Watch emits ChangeEvent when the source changes. Returns ErrWatchNotSupported if not supported.
	Watch(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeEvent notifies of configuration changes.
type ChangeEvent struct {
	At    time.Time
	Cause string // Description (e.g., "file-changed")
}

// ErrWatchNotSupported is returned when watching is not supported.
var ErrWatchNotSupported = errors.New("tackle: watch not supported by this source")

// Snapshot is one loaded configuration emitted by Loader.Watch.
type Snapshot[T any] struct {
	Config   *T
	Version  int64 // starts at 1, incremented on every successful reload
	LoadedAt time.Time
	Source   string // "initial" or the change cause
}

// Optional distinguishes "not set" from "zero value".
// A Null or missing node decodes to an unset Optional; an unset Optional encodes to Null.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Get returns the wrapped value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// OrDefault returns the wrapped value or the provided default.
func (o Optional[T]) OrDefault(defaultVal T) T {
	if o.Set {
		return o.Value
	}
	return defaultVal
}

func (o Optional[T]) wrapped() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

type optional interface {
	wrapped() reflect.Type
}

// OrderedMap is a string-keyed map that remembers insertion order, so
// mappings keep their key order through decode and encode. The zero value
// is ready to use.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// Set adds or replaces key. A new key goes to the end.
func (m *OrderedMap[V]) Set(key string, v V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key and reports whether it was present.
func (m *OrderedMap[V]) Delete(key string) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

func (m *OrderedMap[V]) Len() int { return len(m.keys) }

func (m *OrderedMap[V]) elemType() reflect.Type {
	return reflect.TypeOf((*V)(nil)).Elem()
}

func (m *OrderedMap[V]) entry(key string) reflect.Value {
	v := m.values[key]
	return reflect.ValueOf(&v).Elem()
}

func (m *OrderedMap[V]) setEntry(key string, v reflect.Value) {
	val, _ := v.Interface().(V)
	m.Set(key, val)
}

type orderedMapping interface {
	elemType() reflect.Type
	Keys() []string
	entry(key string) reflect.Value
	setEntry(key string, v reflect.Value)
}

var (
	optionalIface = reflect.TypeOf((*optional)(nil)).Elem()
	orderedIface  = reflect.TypeOf((*orderedMapping)(nil)).Elem()
	enumIface     = reflect.TypeOf((*Enum)(nil)).Elem()
	stringType    = reflect.TypeOf("")
	tacklePkgPath = reflect.TypeOf(Optional[int]{}).PkgPath()
)

// isOptionalType reports whether rt is an instance of Optional. Structs that
// merely embed an Optional do not count.
func isOptionalType(rt reflect.Type) bool {
	return rt.Kind() == reflect.Struct && rt.PkgPath() == tacklePkgPath &&
		strings.HasPrefix(rt.Name(), "Optional[") && rt.Implements(optionalIface)
}

func isOrderedMapType(rt reflect.Type) bool {
	return rt.Kind() == reflect.Struct && rt.PkgPath() == tacklePkgPath &&
		strings.HasPrefix(rt.Name(), "OrderedMap[") && reflect.PointerTo(rt).Implements(orderedIface)
}

// wrapperOf returns the type arguments of Optional and OrderedMap instances.
func wrapperOf(rt reflect.Type) ([]Type, bool) {
	if isOptionalType(rt) {
		return []Type{TypeOf(reflect.Zero(rt).Interface().(optional).wrapped())}, true
	}
	if isOrderedMapType(rt) {
		m := reflect.New(rt).Interface().(orderedMapping)
		return []Type{TypeOf(stringType), TypeOf(m.elemType())}, true
	}
	return nil, false
}

// Enum is implemented by named types with a closed set of constants, such as
// iota-based types with a generated String method. EnumConstants returns
// every constant as a value of the implementing type; String gives each
// constant's name.
type Enum interface {
	fmt.Stringer
	EnumConstants() []any
}

// Validator performs custom validation after tag-based validation.
// Use for cross-field, semantic, or external validation.
type Validator[T any] interface {
	// Validate checks configuration. Return *ValidationError for field-level errors.
	Validate(ctx context.Context, cfg *T) error
}

// ValidatorFunc is a function adapter for Validator interface.
type ValidatorFunc[T any] func(ctx context.Context, cfg *T) error

func (f ValidatorFunc[T]) Validate(ctx context.Context, cfg *T) error {
	return f(ctx, cfg)
}
