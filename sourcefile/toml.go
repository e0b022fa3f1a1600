package sourcefile

import (
	"fmt"
	"sort"
	"time"

	"github.com/Azhovan/tackle/node"
	"github.com/pelletier/go-toml/v2"
)

// decodeTOML goes through Go maps, so table keys come back sorted.
func decodeTOML(data []byte) (*node.Node, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return fromPlain(raw)
}

func fromPlain(v any) (*node.Node, error) {
	switch x := v.(type) {
	case nil:
		return node.Null(), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := node.Mapping()
		for _, k := range keys {
			c, err := fromPlain(x[k])
			if err != nil {
				return nil, err
			}
			if err := m.Set(node.Key(k), c); err != nil {
				return nil, err
			}
		}
		return m, nil
	case []any:
		seq := node.Sequence()
		for _, item := range x {
			c, err := fromPlain(item)
			if err != nil {
				return nil, err
			}
			if err := seq.Append(c); err != nil {
				return nil, err
			}
		}
		return seq, nil
	case time.Time:
		return node.String(x.Format(time.RFC3339Nano)), nil
	case toml.LocalDate:
		return node.String(x.String()), nil
	case toml.LocalTime:
		return node.String(x.String()), nil
	case toml.LocalDateTime:
		return node.String(x.String()), nil
	}
	return node.Scalar(v)
}

// encodeTOML writes root through Go maps. TOML has no null, so Null
// members are left out; a Null inside an array is an error.
func encodeTOML(root *node.Node) ([]byte, error) {
	if root.Kind() != node.MappingKind {
		return nil, fmt.Errorf("TOML document must be a mapping, got %s", root.Kind())
	}
	plain, err := toPlain(root)
	if err != nil {
		return nil, err
	}
	return toml.Marshal(plain)
}

func toPlain(n *node.Node) (any, error) {
	switch n.Kind() {
	case node.MappingKind:
		entries, _ := n.AsMapping()
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			if e.Value.IsNull() {
				continue
			}
			v, err := toPlain(e.Value)
			if err != nil {
				return nil, err
			}
			out[e.Key] = v
		}
		return out, nil
	case node.SequenceKind:
		items := n.Items()
		out := make([]any, len(items))
		for i, item := range items {
			if item.IsNull() {
				return nil, fmt.Errorf("%s: TOML arrays cannot hold null", item.Path())
			}
			v, err := toPlain(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case node.ScalarKind:
		return n.Value(), nil
	}
	return nil, nil
}
