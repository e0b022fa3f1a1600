package sourceenv

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/Azhovan/tackle/internal/normalize"
	"github.com/Azhovan/tackle/node"
)

// Options configures environment variable source behavior.
type Options struct {
	// Prefix filters vars starting with prefix (stripped before normalization).
	// Empty = load all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (APP_ matches app_, App_, etc.).
	// When true, prefix must match exactly.
	// Keys are always normalized to lowercase after prefix stripping.
	CaseSensitive bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Env is an environment variable source.
type Env struct {
	opts Options
}

// New creates an environment variable source.
func New(opts Options) *Env {
	return &Env{opts: opts}
}

func (e *Env) log() *slog.Logger {
	if e.opts.Logger != nil {
		return e.opts.Logger
	}
	return slog.Default()
}

// Load scans environment variables, filters by prefix, and builds a tree of
// string scalars. APP_DB__MAX_CONNS=10 with prefix APP_ becomes
// db.max-conns: "10". Variables are applied in sorted order; one that
// conflicts with an earlier one (DB=x next to DB__HOST=y) is skipped.
func (e *Env) Load(ctx context.Context) (*node.Node, error) {
	vars := make(map[string]string)
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		if e.opts.Prefix != "" {
			var hasPrefix bool
			if e.opts.CaseSensitive {
				hasPrefix = strings.HasPrefix(key, e.opts.Prefix)
			} else {
				hasPrefix = strings.HasPrefix(strings.ToUpper(key), strings.ToUpper(e.opts.Prefix))
			}

			if !hasPrefix {
				continue
			}
			key = key[len(e.opts.Prefix):]
		}

		if key == "" {
			continue
		}

		// Normalize: FOO__BAR_BAZ → foo.bar-baz
		vars[normalize.ToLowerDotPath(key)] = value
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	root := node.Mapping()
	for _, k := range keys {
		path, ok := splitPath(k)
		if !ok {
			e.log().Debug("skipping environment variable with empty key segment", slog.String("key", k))
			continue
		}
		if err := node.Store(root, path, node.String(vars[k])); err != nil {
			e.log().Warn("skipping conflicting environment variable", slog.String("key", k), slog.Any("error", err))
		}
	}
	return root, nil
}

func splitPath(key string) (node.Path, bool) {
	parts := strings.Split(key, ".")
	path := make(node.Path, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
		path = append(path, node.Key(p))
	}
	return path, true
}

// Name returns "env" or "env:<prefix>".
func (e *Env) Name() string {
	if e.opts.Prefix == "" {
		return "env"
	}
	return "env:" + e.opts.Prefix
}
