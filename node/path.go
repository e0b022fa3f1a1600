package node

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: a mapping key or a sequence index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a segment addressing a mapping key.
func Key(k string) Segment { return Segment{key: k} }

// Index returns a segment addressing a sequence position.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

func (s Segment) IsIndex() bool { return s.isIndex }

// Name returns the mapping key of a key segment.
func (s Segment) Name() string { return s.key }

// Pos returns the position of an index segment.
func (s Segment) Pos() int { return s.index }

func (s Segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	if needsQuote(s.key) {
		return strconv.Quote(s.key)
	}
	return s.key
}

func needsQuote(k string) bool {
	return k == "" || strings.ContainsAny(k, ".[]\" ")
}

// Path addresses a node from the root of its tree.
type Path []Segment

// ParsePath parses dotted paths with bracketed indices, e.g. `server.hosts[0]`.
// Keys containing separators may be double-quoted: `labels."app.io/name"`.
func ParsePath(s string) (Path, error) {
	var p Path
	i := 0
	expectKey := true
	for i < len(s) {
		switch c := s[i]; {
		case c == '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed '[' in %q", ErrInvalidPath, s)
			}
			idx, err := strconv.Atoi(s[i+1 : i+end])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrInvalidPath, s[i+1:i+end], s)
			}
			p = append(p, Index(idx))
			i += end + 1
			expectKey = false
		case c == '.':
			if expectKey {
				return nil, fmt.Errorf("%w: empty key in %q", ErrInvalidPath, s)
			}
			i++
			expectKey = true
			if i == len(s) {
				return nil, fmt.Errorf("%w: trailing '.' in %q", ErrInvalidPath, s)
			}
		case c == '"':
			if !expectKey {
				return nil, fmt.Errorf("%w: missing '.' before key in %q", ErrInvalidPath, s)
			}
			q, err := strconv.QuotedPrefix(s[i:])
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
			}
			k, _ := strconv.Unquote(q)
			p = append(p, Key(k))
			i += len(q)
			expectKey = false
		default:
			if !expectKey {
				return nil, fmt.Errorf("%w: missing '.' before key in %q", ErrInvalidPath, s)
			}
			end := strings.IndexAny(s[i:], ".[")
			if end < 0 {
				end = len(s) - i
			}
			p = append(p, Key(s[i:i+end]))
			i += end
			expectKey = false
		}
	}
	return p, nil
}

// MustParsePath is ParsePath that panics on error, for literals.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Child returns a new path with seg appended. p is not modified.
func (p Path) Child(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 && !s.isIndex {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}
