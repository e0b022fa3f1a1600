package tackle

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/Azhovan/tackle/node"
)

var (
	errNotIntegral  = errors.New("value has a fractional part")
	errOutOfRange   = errors.New("value out of range")
	errNotNumeric   = errors.New("value is not numeric")
	errNotBool      = errors.New("value is not a boolean")
	errNotTimestamp = errors.New("value is not an RFC 3339 timestamp")
)

func isScalarType(t Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// scalarSerializer handles strings, booleans and every numeric width,
// including named types based on them.
type scalarSerializer struct{}

func (scalarSerializer) Serialize(_ *EncodeContext, v reflect.Value) (*node.Node, error) {
	switch v.Kind() {
	case reflect.String:
		return node.String(v.String()), nil
	case reflect.Bool:
		return node.Bool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return node.Int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return node.Uint(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return node.Float(v.Float()), nil
	}
	return nil, &NoSerializerError{Type: TypeOf(v.Type())}
}

func (scalarSerializer) Deserialize(ctx *DecodeContext, n *node.Node, t Type) (reflect.Value, error) {
	raw, err := n.AsScalar()
	if err != nil {
		return reflect.Value{}, &WrongNodeKindError{Path: ctx.Path(), Type: t, Want: node.ScalarKind, Got: n.Kind()}
	}
	out := reflect.New(t.Go()).Elem()
	fail := func(cause error) (reflect.Value, error) {
		return reflect.Value{}, &TypeCoercionError{Path: ctx.Path(), Type: t, Value: raw, Err: cause}
	}

	switch out.Kind() {
	case reflect.String:
		out.SetString(n.Text())
	case reflect.Bool:
		b, err := toBool(raw)
		if err != nil {
			return fail(err)
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := toInt64(raw)
		if err != nil {
			return fail(err)
		}
		if out.OverflowInt(i) {
			return fail(errOutOfRange)
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := toUint64(raw)
		if err != nil {
			return fail(err)
		}
		if out.OverflowUint(u) {
			return fail(errOutOfRange)
		}
		out.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := toFloat64(raw)
		if err != nil {
			return fail(err)
		}
		if out.OverflowFloat(f) {
			return fail(errOutOfRange)
		}
		out.SetFloat(f)
	default:
		return reflect.Value{}, &NoSerializerError{Path: ctx.Path(), Type: t}
	}
	return out, nil
}

func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	}
	return false, errNotBool
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, errOutOfRange
		}
		return int64(v), nil
	case float64:
		return floatToInt(v)
	case string:
		s := strings.TrimSpace(v)
		i, err := strconv.ParseInt(s, intBase(s), 64)
		if err == nil {
			return i, nil
		}
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, err
		}
		return floatToInt(f)
	}
	return 0, errNotNumeric
}

// intBase lets strconv read the "0x" prefix and fixes every other text to
// base 10, so leading zeros never switch to octal.
func intBase(s string) int {
	s = strings.TrimLeft(s, "+-")
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return 0
	}
	return 10
}

// floatToInt accepts only integral values inside the int64 range.
func floatToInt(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errNotIntegral
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errOutOfRange
	}
	return int64(f), nil
}

func toUint64(raw any) (uint64, error) {
	switch v := raw.(type) {
	case uint64:
		return v, nil
	case int64:
		if v < 0 {
			return 0, errOutOfRange
		}
		return uint64(v), nil
	case float64:
		if v < 0 {
			return 0, errOutOfRange
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, errNotIntegral
		}
		if v >= math.MaxUint64 {
			return 0, errOutOfRange
		}
		return uint64(v), nil
	case string:
		s := strings.TrimSpace(v)
		u, err := strconv.ParseUint(s, intBase(s), 64)
		if err == nil {
			return u, nil
		}
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, err
		}
		return toUint64(f)
	}
	return 0, errNotNumeric
}

func toFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return 0, errNotNumeric
}
