package sourcefile

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Azhovan/tackle/node"
	"gopkg.in/yaml.v3"
)

func decodeYAML(data []byte) (*node.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return node.Mapping(), nil
	}
	root, err := fromYAML(doc.Content[0])
	if err != nil {
		return nil, err
	}
	if root.Comment() == "" {
		root.WithComment(yamlComment(doc.HeadComment))
	}
	return root, nil
}

func fromYAML(y *yaml.Node) (*node.Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return node.Null(), nil
		}
		return fromYAML(y.Content[0])
	case yaml.AliasNode:
		return fromYAML(y.Alias)
	case yaml.MappingNode:
		return fromYAMLMapping(y)
	case yaml.SequenceNode:
		seq := node.Sequence()
		for _, item := range y.Content {
			c, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			c.WithComment(firstComment(item.HeadComment, item.LineComment))
			if err := seq.Append(c); err != nil {
				return nil, err
			}
		}
		return seq, nil
	case yaml.ScalarNode:
		return fromYAMLScalar(y)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", y.Line, y.Kind)
}

// fromYAMLMapping keeps explicit keys in document order. Keys pulled in
// through merge keys (<<) follow, and never override explicit ones.
func fromYAMLMapping(y *yaml.Node) (*node.Node, error) {
	m := node.Mapping()
	var merges []*yaml.Node
	for i := 0; i+1 < len(y.Content); i += 2 {
		k, v := y.Content[i], y.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			merges = append(merges, v)
			continue
		}
		c, err := fromYAML(v)
		if err != nil {
			return nil, err
		}
		c.WithComment(firstComment(k.HeadComment, k.LineComment, v.LineComment))
		if err := m.Set(node.Key(k.Value), c); err != nil {
			return nil, err
		}
	}

	for _, v := range merges {
		sources := []*yaml.Node{v}
		if v.Kind == yaml.SequenceNode {
			sources = v.Content
		}
		for _, src := range sources {
			merged, err := fromYAML(src)
			if err != nil {
				return nil, err
			}
			entries, err := merged.AsMapping()
			if err != nil {
				return nil, fmt.Errorf("line %d: merge key needs a mapping", src.Line)
			}
			for _, e := range entries {
				if m.Has(node.Key(e.Key)) {
					continue
				}
				if err := m.Set(node.Key(e.Key), e.Value.Clone()); err != nil {
					return nil, err
				}
			}
		}
	}
	return m, nil
}

func fromYAMLScalar(y *yaml.Node) (*node.Node, error) {
	switch y.ShortTag() {
	case "!!null":
		return node.Null(), nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, err
		}
		return node.Bool(b), nil
	case "!!int":
		var i int64
		if err := y.Decode(&i); err == nil {
			return node.Int(i), nil
		}
		var u uint64
		if err := y.Decode(&u); err != nil {
			return nil, err
		}
		return node.Uint(u), nil
	case "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, err
		}
		return node.Float(f), nil
	}
	return node.String(y.Value), nil
}

// yamlComment strips comment markers from a yaml.v3 comment block.
func yamlComment(raw string) string {
	if raw == "" {
		return ""
	}
	lines := strings.Split(raw, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "#")
		out = append(out, strings.TrimPrefix(l, " "))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func firstComment(raw ...string) string {
	for _, r := range raw {
		if c := yamlComment(r); c != "" {
			return c
		}
	}
	return ""
}

func encodeYAML(root *node.Node) ([]byte, error) {
	y, err := toYAML(root)
	if err != nil {
		return nil, err
	}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{y}}
	if c := root.Comment(); c != "" && root.Kind() == node.MappingKind {
		doc.HeadComment = commentBlock(c)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toYAML(n *node.Node) (*yaml.Node, error) {
	switch n.Kind() {
	case node.MappingKind:
		entries, _ := n.AsMapping()
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range entries {
			v, err := toYAML(e.Value)
			if err != nil {
				return nil, err
			}
			k := &yaml.Node{
				Kind:        yaml.ScalarNode,
				Tag:         "!!str",
				Value:       e.Key,
				HeadComment: commentBlock(e.Value.Comment()),
			}
			y.Content = append(y.Content, k, v)
		}
		return y, nil
	case node.SequenceKind:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items() {
			v, err := toYAML(item)
			if err != nil {
				return nil, err
			}
			v.HeadComment = commentBlock(item.Comment())
			y.Content = append(y.Content, v)
		}
		return y, nil
	case node.ScalarKind:
		return yamlScalar(n.Value())
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
}

func yamlScalar(v any) (*yaml.Node, error) {
	y := &yaml.Node{Kind: yaml.ScalarNode}
	switch x := v.(type) {
	case string:
		y.Tag, y.Value = "!!str", x
	case bool:
		y.Tag, y.Value = "!!bool", strconv.FormatBool(x)
	case int64:
		y.Tag, y.Value = "!!int", strconv.FormatInt(x, 10)
	case uint64:
		y.Tag, y.Value = "!!int", strconv.FormatUint(x, 10)
	case float64:
		y.Tag, y.Value = "!!float", formatYAMLFloat(x)
	default:
		return nil, fmt.Errorf("unsupported scalar %T", v)
	}
	return y, nil
}

// formatYAMLFloat keeps integral floats recognizable as floats ("3.0").
func formatYAMLFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func commentBlock(c string) string {
	if c == "" {
		return ""
	}
	lines := strings.Split(c, "\n")
	for i, l := range lines {
		lines[i] = "# " + l
	}
	return strings.Join(lines, "\n")
}
