package tackle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Azhovan/tackle/node"
)

// ErrRegistryClosed is returned by Register once the registry is sealed.
var ErrRegistryClosed = errors.New("tackle: registry is sealed")

// Error codes for validation failures.
const (
	ErrCodeRequired = "required"
	ErrCodeMin      = "min"
	ErrCodeMax      = "max"
	ErrCodeOneOf    = "oneof"
	ErrCodePattern  = "pattern"
)

// WrongNodeKindError reports a node whose kind does not fit the requested type.
type WrongNodeKindError struct {
	Path node.Path
	Type Type
	Want node.Kind
	Got  node.Kind
}

func (e *WrongNodeKindError) Error() string {
	return fmt.Sprintf("tackle: %s: cannot decode %s into %s (want %s)", pathString(e.Path), e.Got, e.Type, e.Want)
}

// TypeCoercionError reports a scalar that cannot be converted to the requested type.
type TypeCoercionError struct {
	Path  node.Path
	Type  Type
	Value any
	Err   error
}

func (e *TypeCoercionError) Error() string {
	msg := fmt.Sprintf("tackle: %s: cannot convert %#v to %s", pathString(e.Path), e.Value, e.Type)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeCoercionError) Unwrap() error { return e.Err }

// UnknownEnumConstantError reports a name that matches none of an enum's constants.
type UnknownEnumConstantError struct {
	Path  node.Path
	Type  Type
	Value string
	Valid []string
}

func (e *UnknownEnumConstantError) Error() string {
	return fmt.Sprintf("tackle: %s: %q is not a valid %s (valid: %s)",
		pathString(e.Path), e.Value, e.Type, strings.Join(e.Valid, ", "))
}

// MissingRequiredFieldError reports a required member with no node and no default.
type MissingRequiredFieldError struct {
	Path node.Path
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("tackle: %s: required field is missing", pathString(e.Path))
}

// NoSerializerError reports a type no registry entry accepts.
type NoSerializerError struct {
	Path node.Path
	Type Type
}

func (e *NoSerializerError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("tackle: no serializer for %s", e.Type)
	}
	return fmt.Sprintf("tackle: %s: no serializer for %s", pathString(e.Path), e.Type)
}

// UnknownKeyError reports a mapping key no record member claims (strict mode).
type UnknownKeyError struct {
	Path node.Path
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("tackle: %s: unknown configuration key (strict mode)", pathString(e.Path))
}

func pathString(p node.Path) string {
	if len(p) == 0 {
		return "<root>"
	}
	return p.String()
}

// ValidationError aggregates field-level validation failures.
type ValidationError struct {
	FieldErrors []FieldError
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "config validation failed: no errors"
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		b.WriteString("config validation failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "config validation failed: %d errors\n", len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", fe.FieldPath, fe.Code, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FieldError represents a single field validation failure.
type FieldError struct {
	FieldPath string // Key path (e.g., "database.port")
	Code      string // Error code (e.g., "min", "oneof")
	Message   string // Human-readable description
}
