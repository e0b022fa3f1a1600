package tackle

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/Azhovan/tackle/internal/normalize"
	"github.com/Azhovan/tackle/node"
)

// Member is one named member of a record type.
type Member struct {
	Index      []int  // field index sequence for reflect.Value.FieldByIndex
	Field      string // Go field name
	Key        string // mapping key
	Type       Type
	Default    string // default literal, used when the key is missing
	HasDefault bool
	Required   bool
	Secret     bool
	Comment    string

	// validation constraints
	Min     string
	Max     string
	OneOf   []string
	Pattern string
}

// MemberSource lists the members of a record type in declaration order.
type MemberSource interface {
	Members(t Type) ([]Member, error)
}

// MemberSourceFunc adapts a function to MemberSource.
type MemberSourceFunc func(t Type) ([]Member, error)

func (f MemberSourceFunc) Members(t Type) ([]Member, error) { return f(t) }

// TagMembers returns the default member source. It reads exported struct
// fields and their `conf` and `comment` tags:
//
//	type Server struct {
//	    Host string `conf:"default:localhost" comment:"Interface to bind"`
//	    Port int    `conf:"required,min:1,max:65535"`
//	}
//
// Keys default to the hyphen-snake form of the field name (MaxConns becomes
// max-conns). Embedded structs without a name directive are inlined.
// Results are cached per type.
func TagMembers() MemberSource {
	return &tagMembers{}
}

type tagMembers struct {
	cache sync.Map // reflect.Type -> []Member
}

func (s *tagMembers) Members(t Type) ([]Member, error) {
	if cached, ok := s.cache.Load(t.Key()); ok {
		return cached.([]Member), nil
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tackle: %s is not a struct", t)
	}
	var members []Member
	seen := make(map[string]string)
	if err := collectMembers(t.Go(), nil, &members, seen); err != nil {
		return nil, err
	}
	s.cache.Store(t.Key(), members)
	return members, nil
}

func collectMembers(rt reflect.Type, index []int, out *[]Member, seen map[string]string) error {
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := parseTag(field.Tag.Get("conf"))
		if tag.skip {
			continue
		}
		idx := append(append([]int(nil), index...), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct && tag.name == "" {
			if err := collectMembers(field.Type, idx, out, seen); err != nil {
				return err
			}
			continue
		}
		if !field.IsExported() {
			continue
		}

		key := tag.name
		if key == "" {
			key = normalize.HyphenSnake(field.Name)
		}
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("tackle: %s: fields %s and %s both use key %q", rt, prev, field.Name, key)
		}
		seen[key] = field.Name

		*out = append(*out, Member{
			Index:      idx,
			Field:      field.Name,
			Key:        key,
			Type:       TypeOf(field.Type),
			Default:    tag.defValue,
			HasDefault: tag.hasDefault,
			Required:   tag.required,
			Secret:     tag.secret,
			Comment:    field.Tag.Get("comment"),
			Min:        tag.min,
			Max:        tag.max,
			OneOf:      tag.oneof,
			Pattern:    tag.pattern,
		})
	}
	return nil
}

// recordSerializer maps structs to mappings, one key per member.
type recordSerializer struct {
	members MemberSource
}

func (s recordSerializer) Serialize(ctx *EncodeContext, v reflect.Value) (*node.Node, error) {
	members, err := s.members.Members(TypeOf(v.Type()))
	if err != nil {
		return nil, err
	}
	m := node.Mapping()
	for _, mem := range members {
		fv := v.FieldByIndex(mem.Index)
		if ctx.omitZeroRequired && mem.Required && fv.IsZero() {
			continue
		}
		c, err := ctx.Encode(fv, mem.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", mem.Key, err)
		}
		if c.IsNull() && ctx.omitNull {
			continue
		}
		if mem.Comment != "" && c.Comment() == "" {
			c.WithComment(mem.Comment)
		}
		if err := m.Set(node.Key(mem.Key), c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (s recordSerializer) Deserialize(ctx *DecodeContext, n *node.Node, t Type) (reflect.Value, error) {
	if !n.IsNull() && n.Kind() != node.MappingKind {
		return reflect.Value{}, &WrongNodeKindError{Path: ctx.Path(), Type: t, Want: node.MappingKind, Got: n.Kind()}
	}
	members, err := s.members.Members(t)
	if err != nil {
		return reflect.Value{}, err
	}

	if ctx.Strict() {
		known := make(map[string]bool, len(members))
		for _, mem := range members {
			known[mem.Key] = true
		}
		for _, k := range n.Keys() {
			if !known[k] {
				return reflect.Value{}, &UnknownKeyError{Path: ctx.Path().Child(node.Key(k))}
			}
		}
	}

	out := reflect.New(t.Go()).Elem()
	for _, mem := range members {
		seg := node.Key(mem.Key)
		child := n.Get(seg)
		var (
			v   reflect.Value
			err error
		)
		if isMissing(child, mem.Type) {
			v, err = s.missing(ctx.at(seg), mem)
		} else {
			v, err = ctx.DecodeAt(seg, child, mem.Type)
		}
		if err != nil {
			return reflect.Value{}, err
		}
		if v.IsValid() {
			out.FieldByIndex(mem.Index).Set(v)
		}
	}
	return out, nil
}

// missing resolves a member with no usable node: its default literal, a
// required-member error, the nested record's own defaults, or the zero value.
func (s recordSerializer) missing(ctx *DecodeContext, mem Member) (reflect.Value, error) {
	switch {
	case mem.HasDefault:
		return ctx.Decode(defaultNode(mem.Default, mem.Type), mem.Type)
	case mem.Required && !ctx.lenient:
		return reflect.Value{}, &MissingRequiredFieldError{Path: ctx.Path()}
	}
	if ctx.reg.isRecord(mem.Type) {
		return ctx.Decode(node.Null(), mem.Type)
	}
	return reflect.Value{}, nil
}

// isRecord reports whether t resolves to the built-in record serializer.
func (r *Registry) isRecord(t Type) bool {
	ser, err := r.lookup(t)
	if err != nil {
		return false
	}
	_, ok := ser.(recordSerializer)
	return ok
}

// isMissing reports whether n counts as absent for a member of type t. An
// explicit Null is absent unless t can hold nil.
func isMissing(n *node.Node, t Type) bool {
	return n.IsVirtual() || (n.IsNull() && !isNullable(t))
}

func isNullable(t Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return true
	case reflect.Struct:
		return isOptionalType(t.Go())
	}
	return false
}

// defaultNode turns a default literal into a node. Literals for slices and
// arrays are comma-separated lists.
func defaultNode(literal string, t Type) *node.Node {
	rt := t.Go()
	if isOptionalType(rt) || rt.Kind() == reflect.Pointer {
		rt = t.Arg(0).Go()
	}
	if rt.Kind() != reflect.Slice && rt.Kind() != reflect.Array {
		return node.String(literal)
	}
	seq := node.Sequence()
	if strings.TrimSpace(literal) == "" {
		return seq
	}
	for _, part := range strings.Split(literal, ",") {
		_ = seq.Append(node.String(strings.TrimSpace(part)))
	}
	return seq
}
