package tackle

import (
	"fmt"
	"reflect"
)

// Type describes a possibly parameterized Go type and is the registry's
// lookup key. Arguments are the element type of slices, arrays and
// pointers, key and value of maps and OrderedMap, and the wrapped type of
// Optional.
//
// Go type identity is structural for composite types, so two descriptors
// are equal exactly when their raw types and all arguments are equal. Type
// is comparable and can be used as a map key.
type Type struct {
	rt reflect.Type
}

// TypeOf returns the descriptor of rt.
func TypeOf(rt reflect.Type) Type {
	return Type{rt: rt}
}

// TypeFor returns the descriptor of T.
func TypeFor[T any]() Type {
	return Type{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

// Of composes a descriptor from a raw type and type arguments. The raw
// type's kind selects the composition: slice, array (keeping raw's length),
// pointer and map. Any raw type with no arguments yields TypeOf(raw). For
// other kinds the arguments must match the ones raw already carries.
//
// Of panics on arity or argument mismatch.
func Of(raw reflect.Type, args ...Type) Type {
	if len(args) == 0 {
		return TypeOf(raw)
	}
	var rt reflect.Type
	switch raw.Kind() {
	case reflect.Slice:
		mustArity(raw, args, 1)
		rt = reflect.SliceOf(args[0].rt)
	case reflect.Array:
		mustArity(raw, args, 1)
		rt = reflect.ArrayOf(raw.Len(), args[0].rt)
	case reflect.Pointer:
		mustArity(raw, args, 1)
		rt = reflect.PointerTo(args[0].rt)
	case reflect.Map:
		mustArity(raw, args, 2)
		rt = reflect.MapOf(args[0].rt, args[1].rt)
	default:
		t := TypeOf(raw)
		have := t.Args()
		mustArity(raw, args, len(have))
		for i := range have {
			if have[i] != args[i] {
				panic(fmt.Sprintf("tackle: %s has argument %s, not %s", raw, have[i], args[i]))
			}
		}
		return t
	}
	return Type{rt: rt}
}

// SliceOf returns the descriptor of []elem.
func SliceOf(elem Type) Type { return Type{rt: reflect.SliceOf(elem.rt)} }

// MapOf returns the descriptor of map[key]elem.
func MapOf(key, elem Type) Type { return Type{rt: reflect.MapOf(key.rt, elem.rt)} }

// PointerTo returns the descriptor of *elem.
func PointerTo(elem Type) Type { return Type{rt: reflect.PointerTo(elem.rt)} }

func mustArity(raw reflect.Type, args []Type, n int) {
	if len(args) != n {
		panic(fmt.Sprintf("tackle: %s takes %d type arguments, got %d", raw, n, len(args)))
	}
}

func (t Type) IsValid() bool { return t.rt != nil }

// Go returns the underlying reflect.Type.
func (t Type) Go() reflect.Type { return t.rt }

func (t Type) Kind() reflect.Kind {
	if t.rt == nil {
		return reflect.Invalid
	}
	return t.rt.Kind()
}

// Args returns the type arguments. See Type for what counts as one.
func (t Type) Args() []Type {
	if t.rt == nil {
		return nil
	}
	switch t.rt.Kind() {
	case reflect.Slice, reflect.Array, reflect.Pointer:
		return []Type{TypeOf(t.rt.Elem())}
	case reflect.Map:
		return []Type{TypeOf(t.rt.Key()), TypeOf(t.rt.Elem())}
	case reflect.Struct:
		if w, ok := wrapperOf(t.rt); ok {
			return w
		}
	}
	return nil
}

// Arg returns the i-th type argument, or the zero Type.
func (t Type) Arg(i int) Type {
	args := t.Args()
	if i < 0 || i >= len(args) {
		return Type{}
	}
	return args[i]
}

// Equal reports structural equality.
func (t Type) Equal(other Type) bool { return t.rt == other.rt }

// Key returns a comparable identity for t, suitable for hashing.
func (t Type) Key() reflect.Type { return t.rt }

func (t Type) String() string {
	if t.rt == nil {
		return "<invalid>"
	}
	return t.rt.String()
}

// IsAssignableFrom reports whether a value described by other may be used
// where t is expected. Beyond Go assignability it accepts lossless numeric
// widening, pointer boxing in either direction (*X and X), and composite
// types of the same kind whose arguments are themselves assignable.
func (t Type) IsAssignableFrom(other Type) bool {
	if t.rt == nil || other.rt == nil {
		return false
	}
	if t.rt == other.rt || other.rt.AssignableTo(t.rt) {
		return true
	}
	if widens(other.rt, t.rt) {
		return true
	}
	if other.rt.Kind() == reflect.Pointer && other.rt.Elem() == t.rt {
		return true
	}
	if t.rt.Kind() == reflect.Pointer && t.rt.Elem() == other.rt {
		return true
	}
	if t.rt.Kind() != other.rt.Kind() {
		return false
	}
	switch t.rt.Kind() {
	case reflect.Slice, reflect.Pointer, reflect.Map:
	case reflect.Array:
		if t.rt.Len() != other.rt.Len() {
			return false
		}
	default:
		return false
	}
	ta, oa := t.Args(), other.Args()
	for i := range ta {
		if !ta[i].IsAssignableFrom(oa[i]) {
			return false
		}
	}
	return true
}

// widens reports a lossless numeric conversion from -> to.
func widens(from, to reflect.Type) bool {
	switch {
	case isSigned(from) && isSigned(to):
		return from.Bits() <= to.Bits()
	case isUnsigned(from) && isUnsigned(to):
		return from.Bits() <= to.Bits()
	case isUnsigned(from) && isSigned(to):
		return from.Bits() < to.Bits()
	case (isSigned(from) || isUnsigned(from)) && isFloat(to):
		return true
	case isFloat(from) && isFloat(to):
		return from.Bits() <= to.Bits()
	}
	return false
}

func isSigned(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloat(t reflect.Type) bool {
	return t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64
}
