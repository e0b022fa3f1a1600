package tackle

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/Azhovan/tackle/node"
)

const redacted = "***redacted***"

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for Dump and DumpEffective.
type dumpConfig struct {
	withComments bool      // Append node comments to text lines
	asJSON       bool      // Output as JSON instead of text format
	indent       string    // Indentation for JSON output (default: "  ")
	registry     *Registry // Registry used by DumpEffective
}

// WithComments appends each node's comment to its text line.
func WithComments() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withComments = true
	}
}

// AsJSON outputs configuration as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  "). An empty indent writes compact JSON.
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// UsingRegistry sets the registry DumpEffective extracts with.
// Default: DefaultRegistry().
func UsingRegistry(reg *Registry) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.registry = reg
	}
}

func newDumpConfig(opts []DumpOption) dumpConfig {
	config := dumpConfig{indent: "  "}
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// Dump writes a tree as one "path: value" line per leaf, or as JSON.
// Mapping key order is kept in both forms.
func Dump(w io.Writer, root *node.Node, opts ...DumpOption) error {
	if root == nil {
		return fmt.Errorf("tree is nil")
	}
	config := newDumpConfig(opts)
	if config.asJSON {
		return dumpAsJSON(w, root, config)
	}
	return dumpAsText(w, root, config)
}

// DumpEffective writes the tree cfg extracts to. Secret fields are
// automatically redacted as "***redacted***".
// Returns an error if writing to the writer fails.
func DumpEffective[T any](w io.Writer, cfg *T, opts ...DumpOption) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	config := newDumpConfig(opts)
	reg := orDefault(config.registry)

	root, err := Extract(reg, *cfg)
	if err != nil {
		return fmt.Errorf("extract config: %w", err)
	}
	if reg.isRecord(TypeFor[T]()) {
		for _, p := range reg.secretPaths(TypeFor[T](), nil) {
			if n := node.Resolve(root, p); !n.IsNull() {
				if err := node.Store(root, p, node.String(redacted).WithComment(n.Comment())); err != nil {
					return err
				}
			}
		}
	}

	if config.asJSON {
		return dumpAsJSON(w, root, config)
	}
	return dumpAsText(w, root, config)
}

// secretPaths lists the key paths of secret members, following nested
// records, pointers to records and Optionals of records.
func (r *Registry) secretPaths(t Type, prefix node.Path) []node.Path {
	members, err := r.members.Members(t)
	if err != nil {
		return nil
	}
	var paths []node.Path
	for _, mem := range members {
		p := prefix.Child(node.Key(mem.Key))
		if mem.Secret {
			paths = append(paths, p)
			continue
		}
		mt := mem.Type
		if isOptionalType(mt.Go()) || mt.Kind() == reflect.Pointer {
			mt = mt.Arg(0)
		}
		if r.isRecord(mt) {
			paths = append(paths, r.secretPaths(mt, p)...)
		}
	}
	return paths
}

// dumpAsText outputs configuration in text format (key: value).
func dumpAsText(w io.Writer, root *node.Node, config dumpConfig) error {
	var b strings.Builder
	writeLeaves(&b, root, config)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

func writeLeaves(b *strings.Builder, n *node.Node, config dumpConfig) {
	switch n.Kind() {
	case node.MappingKind, node.SequenceKind:
		items := n.Items()
		if len(items) > 0 {
			for _, c := range items {
				writeLeaves(b, c, config)
			}
			return
		}
	}

	path := n.Path().String()
	if path == "" {
		path = "<root>"
	}
	fmt.Fprintf(b, "%s: %s", path, formatLeaf(n))
	if config.withComments && n.Comment() != "" {
		fmt.Fprintf(b, "  # %s", strings.ReplaceAll(n.Comment(), "\n", " "))
	}
	b.WriteByte('\n')
}

// formatLeaf formats a scalar or empty container for text output.
func formatLeaf(n *node.Node) string {
	switch n.Kind() {
	case node.MappingKind:
		return "{}"
	case node.SequenceKind:
		return "[]"
	case node.NullKind:
		return "<nil>"
	}
	if s, ok := n.Value().(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return n.Text()
}

// dumpAsJSON outputs configuration as JSON.
func dumpAsJSON(w io.Writer, root *node.Node, config dumpConfig) error {
	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(root, "", config.indent)
	} else {
		data, err = json.Marshal(root)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}
