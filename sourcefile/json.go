package sourcefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Azhovan/tackle/node"
)

// decodeJSON walks the token stream instead of unmarshaling into Go maps,
// so object key order survives.
func decodeJSON(data []byte) (*node.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return node.Mapping(), nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := readJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return root, nil
}

func readJSONValue(dec *json.Decoder) (*node.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return readJSONObject(dec)
		case '[':
			return readJSONArray(dec)
		}
		return nil, fmt.Errorf("unexpected %q at offset %d", v, dec.InputOffset())
	case json.Number:
		return jsonNumber(v)
	case string:
		return node.String(v), nil
	case bool:
		return node.Bool(v), nil
	case nil:
		return node.Null(), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func readJSONObject(dec *json.Decoder) (*node.Node, error) {
	m := node.Mapping()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %v, want string", tok)
		}
		v, err := readJSONValue(dec)
		if err != nil {
			return nil, err
		}
		if err := m.Set(node.Key(key), v); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil { // '}'
		return nil, err
	}
	return m, nil
}

func readJSONArray(dec *json.Decoder) (*node.Node, error) {
	seq := node.Sequence()
	for dec.More() {
		v, err := readJSONValue(dec)
		if err != nil {
			return nil, err
		}
		if err := seq.Append(v); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil { // ']'
		return nil, err
	}
	return seq, nil
}

// jsonNumber keeps integers integral: int64 when it fits, uint64 above
// that, float64 for anything with a fraction or exponent.
func jsonNumber(n json.Number) (*node.Node, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return node.Int(i), nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return node.Uint(u), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return node.Float(f), nil
}

func encodeJSON(root *node.Node) ([]byte, error) {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
