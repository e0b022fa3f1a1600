package sourcefile

import (
	"errors"
	"fmt"

	"github.com/Azhovan/tackle/node"
)

// ErrUnsupportedFormat is returned for formats other than yaml, json and toml.
var ErrUnsupportedFormat = errors.New("sourcefile: unsupported file format")

// Decode parses data in the given format ("yaml", "yml", "json" or "toml").
// Empty input yields an empty mapping.
func Decode(format string, data []byte) (*node.Node, error) {
	switch format {
	case "yaml", "yml":
		return decodeYAML(data)
	case "json":
		return decodeJSON(data)
	case "toml":
		return decodeTOML(data)
	}
	return nil, fmt.Errorf("%w: %q (supported: yaml, json, toml)", ErrUnsupportedFormat, format)
}

// Encode renders root in the given format.
func Encode(format string, root *node.Node) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		return encodeYAML(root)
	case "json":
		return encodeJSON(root)
	case "toml":
		return encodeTOML(root)
	}
	return nil, fmt.Errorf("%w: %q (supported: yaml, json, toml)", ErrUnsupportedFormat, format)
}
