package tackle

import "reflect"

// Matcher decides whether a registry entry handles a type.
type Matcher interface {
	Match(t Type) bool
}

// MatchFunc adapts a function to Matcher.
type MatchFunc func(t Type) bool

func (f MatchFunc) Match(t Type) bool { return f(t) }

// Exactly matches one type.
func Exactly(t Type) Matcher {
	return MatchFunc(func(other Type) bool { return t.Equal(other) })
}

// ExactlyType matches T.
func ExactlyType[T any]() Matcher {
	return Exactly(TypeFor[T]())
}

// AssignableTo matches types whose values may be used where t is expected,
// see Type.IsAssignableFrom.
func AssignableTo(t Type) Matcher {
	return MatchFunc(func(other Type) bool { return t.IsAssignableFrom(other) })
}

// KindOf matches any type of the given reflect kinds.
func KindOf(kinds ...reflect.Kind) Matcher {
	return MatchFunc(func(t Type) bool {
		for _, k := range kinds {
			if t.Kind() == k {
				return true
			}
		}
		return false
	})
}

// Implements matches types implementing the interface I.
func Implements[I any]() Matcher {
	iface := reflect.TypeOf((*I)(nil)).Elem()
	return MatchFunc(func(t Type) bool {
		return t.IsValid() && t.Go().Implements(iface)
	})
}
