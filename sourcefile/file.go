package sourcefile

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Azhovan/tackle"
	"github.com/Azhovan/tackle/node"
)

// DefaultPollInterval is how often Watch checks the file when
// Options.PollInterval is zero.
const DefaultPollInterval = time.Second

// Options configures file source behavior.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (returns an empty mapping).
	Required bool

	// PollInterval controls how often Watch stats the file. Default: DefaultPollInterval.
	PollInterval time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// File is a configuration file usable as both tackle.Source and tackle.Sink.
type File struct {
	path string
	opts Options
}

// New creates a file-based configuration source.
func New(path string, opts Options) *File {
	return &File{
		path: path,
		opts: opts,
	}
}

func (f *File) log() *slog.Logger {
	if f.opts.Logger != nil {
		return f.opts.Logger
	}
	return slog.Default()
}

func (f *File) format() string {
	if f.opts.Format != "" {
		return strings.ToLower(f.opts.Format)
	}
	return inferFormat(f.path)
}

// Load reads and parses the file. The top-level value must be a mapping;
// an empty file yields an empty mapping.
func (f *File) Load(ctx context.Context) (*node.Node, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if f.opts.Required {
				return nil, fmt.Errorf("required config file not found: %s: %w", f.path, err)
			}
			f.log().Debug("config file not found", slog.String("path", f.path))
			return node.Mapping(), nil
		}
		return nil, fmt.Errorf("read config file %s: %w", f.path, err)
	}

	format := f.format()
	root, err := Decode(format, data)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("parse %s file %s: %w", strings.ToUpper(format), f.path, err)
	}
	switch root.Kind() {
	case node.NullKind:
		return node.Mapping(), nil
	case node.MappingKind:
		return root, nil
	}
	return nil, fmt.Errorf("config file %s: top-level value is a %s, want mapping", f.path, root.Kind())
}

// Save encodes root and replaces the file atomically: the data goes to a
// temporary file in the same directory, which is then renamed over the
// target.
func (f *File) Save(ctx context.Context, root *node.Node) error {
	data, err := Encode(f.format(), root)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(f.path); err == nil {
		perm = info.Mode().Perm()
	}

	tempPath, err := generateTempFileName(f.path)
	if err != nil {
		return err
	}

	// Ensure temp file is cleaned up on any error
	var tempFileCreated bool
	defer func() {
		if tempFileCreated {
			_ = os.Remove(tempPath)
		}
	}()

	if err := os.WriteFile(tempPath, data, perm); err != nil {
		return err
	}
	tempFileCreated = true

	if err := os.Rename(tempPath, f.path); err != nil {
		return err
	}
	tempFileCreated = false

	f.log().Debug("config file written", slog.String("path", f.path), slog.Int("bytes", len(data)))
	return nil
}

// generateTempFileName creates a unique temporary file name.
// Format: targetPath + ".tmp." + randomHex
func generateTempFileName(targetPath string) (string, error) {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return targetPath + ".tmp." + hex.EncodeToString(randomBytes), nil
}

type fileState struct {
	exists  bool
	size    int64
	modTime int64
}

func (f *File) stat() fileState {
	info, err := os.Stat(f.path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, size: info.Size(), modTime: info.ModTime().UnixNano()}
}

// Watch polls the file and emits a ChangeEvent whenever it appears,
// disappears, or its size or modification time changes. The channel is
// closed when ctx is done.
func (f *File) Watch(ctx context.Context) (<-chan tackle.ChangeEvent, error) {
	interval := f.opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	last := f.stat()
	ch := make(chan tackle.ChangeEvent, 1)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cur := f.stat()
				if cur == last {
					continue
				}
				last = cur
				select {
				case ch <- tackle.ChangeEvent{At: time.Now(), Cause: "file-changed"}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

// Name returns a human-readable identifier for this source.
func (f *File) Name() string {
	return "file:" + filepath.Base(f.path)
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
