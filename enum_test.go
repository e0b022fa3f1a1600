package tackle

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Azhovan/tackle/node"
)

func TestEnum_Decode(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"RED", Red},
		{"GREEN", Green},
		{"BLUE", Blue},
		{"red", Red},
		{" Blue ", Blue},
	}
	for _, tt := range tests {
		got, err := Parse[Color](nil, node.String(tt.in))
		if err != nil {
			t.Errorf("Parse(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEnum_UnknownConstant(t *testing.T) {
	type config struct {
		Color Color
	}
	_, err := Parse[config](nil, mapping(t, "color", "PURPLE"))

	var ue *UnknownEnumConstantError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UnknownEnumConstantError", err)
	}
	if ue.Value != "PURPLE" {
		t.Errorf("Value = %q, want PURPLE", ue.Value)
	}
	if !reflect.DeepEqual(ue.Valid, []string{"RED", "GREEN", "BLUE"}) {
		t.Errorf("Valid = %v, want [RED GREEN BLUE]", ue.Valid)
	}
	if ue.Path.String() != "color" {
		t.Errorf("Path = %q, want color", ue.Path)
	}
	if !strings.Contains(err.Error(), "RED, GREEN, BLUE") {
		t.Errorf("Error() = %q, want the valid names listed", err.Error())
	}
}

func TestEnum_CaseSensitive(t *testing.T) {
	reg := NewRegistry(WithCaseSensitiveEnums(true))

	if _, err := Parse[Color](reg, node.String("red")); err == nil {
		t.Error("Parse(red) with case-sensitive enums error = nil")
	}
	got, err := Parse[Color](reg, node.String("RED"))
	if err != nil || got != Red {
		t.Errorf("Parse(RED) = %v, %v; want RED", got, err)
	}
}

func TestEnum_WrongKind(t *testing.T) {
	_, err := Parse[Color](nil, node.Sequence())
	var wk *WrongNodeKindError
	if !errors.As(err, &wk) {
		t.Errorf("error = %v, want *WrongNodeKindError", err)
	}
}

func TestEnum_Encode(t *testing.T) {
	n, err := Extract(nil, Blue)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if n.Value() != "BLUE" {
		t.Errorf("Extract(Blue) = %v, want BLUE", n.Value())
	}

	n, err = Extract(nil, []Color{Red, Green})
	if err != nil {
		t.Fatalf("Extract(slice) error = %v", err)
	}
	if !reflect.DeepEqual(n.Interface(), []any{"RED", "GREEN"}) {
		t.Errorf("Extract(slice) = %v", n.Interface())
	}
}
