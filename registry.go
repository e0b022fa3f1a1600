package tackle

import (
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Azhovan/tackle/node"
)

// Serializer converts between document nodes and values of one type family.
// Implementations hold no per-document state.
type Serializer interface {
	// Serialize converts v into a detached node.
	Serialize(ctx *EncodeContext, v reflect.Value) (*node.Node, error)

	// Deserialize converts n into a value of type t. It must not modify n.
	Deserialize(ctx *DecodeContext, n *node.Node, t Type) (reflect.Value, error)
}

type entry struct {
	match Matcher
	ser   Serializer
}

// Registry is an ordered collection of serializers. Lookups scan the
// entries added with Register in registration order, then the built-in
// serializers; the first entry whose matcher accepts the type wins.
//
// A registry is open until Seal is called. Registration is not safe for
// concurrent use; lookups on a sealed registry are.
type Registry struct {
	entries  []entry
	builtins []entry
	sealed   atomic.Bool

	omitNull      bool
	caseSensitive bool
	members       MemberSource
	logger        *slog.Logger

	cache sync.Map // reflect.Type -> Serializer, sealed registries only
}

// Option configures a Registry.
type Option func(*Registry)

// WithOmitNullOnSave leaves record members that encode to Null out of the
// parent mapping instead of writing an explicit null.
func WithOmitNullOnSave(omit bool) Option {
	return func(r *Registry) { r.omitNull = omit }
}

// WithCaseSensitiveEnums makes enum names match exactly. Default: false.
func WithCaseSensitiveEnums(sensitive bool) Option {
	return func(r *Registry) { r.caseSensitive = sensitive }
}

// WithMemberSource replaces the struct tag member source used for records.
func WithMemberSource(src MemberSource) Option {
	return func(r *Registry) { r.members = src }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry returns an open registry holding the built-in serializers.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{members: TagMembers()}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.builtins = r.builtinEntries()
	return r
}

// Register appends an entry. Entries registered earlier take precedence,
// and all of them precede the built-ins.
func (r *Registry) Register(m Matcher, s Serializer) error {
	if r.sealed.Load() {
		return ErrRegistryClosed
	}
	if m == nil || s == nil {
		return errors.New("tackle: nil matcher or serializer")
	}
	r.entries = append(r.entries, entry{match: m, ser: s})
	return nil
}

// Seal makes the registry read-only. Sealing twice is a no-op.
func (r *Registry) Seal() {
	if r.sealed.CompareAndSwap(false, true) {
		r.logger.Debug("serializer registry sealed", slog.Int("entries", len(r.entries)))
	}
}

func (r *Registry) Sealed() bool { return r.sealed.Load() }

// Get returns the first serializer whose matcher accepts t.
func (r *Registry) Get(t Type) (Serializer, error) {
	s, err := r.lookup(t)
	if err != nil {
		return nil, &NoSerializerError{Type: t}
	}
	return s, nil
}

var errNoMatch = errors.New("no match")

func (r *Registry) lookup(t Type) (Serializer, error) {
	if !t.IsValid() {
		return nil, errNoMatch
	}
	sealed := r.sealed.Load()
	if sealed {
		if s, ok := r.cache.Load(t.Key()); ok {
			return s.(Serializer), nil
		}
	}
	for _, list := range [2][]entry{r.entries, r.builtins} {
		for _, e := range list {
			if e.match.Match(t) {
				if sealed {
					r.cache.Store(t.Key(), e.ser)
				}
				return e.ser, nil
			}
		}
	}
	return nil, errNoMatch
}

// builtinEntries lists the fallback serializers in priority order.
func (r *Registry) builtinEntries() []entry {
	return []entry{
		{MatchFunc(func(t Type) bool { return isOptionalType(t.Go()) }), optionalSerializer{}},
		{KindOf(reflect.Pointer), pointerSerializer{}},
		{Implements[Enum](), enumSerializer{caseSensitive: r.caseSensitive}},
		{ExactlyType[time.Duration](), durationSerializer{}},
		{ExactlyType[time.Time](), timeSerializer{}},
		{MatchFunc(isScalarType), scalarSerializer{}},
		{KindOf(reflect.Slice, reflect.Array), sequenceSerializer{}},
		{MatchFunc(func(t Type) bool { return isOrderedMapType(t.Go()) }), orderedMapSerializer{}},
		{KindOf(reflect.Map), mapSerializer{}},
		{KindOf(reflect.Struct), recordSerializer{members: r.members}},
		{MatchFunc(isDynamicType), dynamicSerializer{}},
	}
}
