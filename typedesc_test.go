package tackle

import (
	"reflect"
	"testing"
)

func TestType_Args(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want []Type
	}{
		{"scalar", TypeFor[int](), nil},
		{"slice", TypeFor[[]string](), []Type{TypeFor[string]()}},
		{"array", TypeFor[[3]bool](), []Type{TypeFor[bool]()}},
		{"pointer", TypeFor[*float64](), []Type{TypeFor[float64]()}},
		{"map", TypeFor[map[string]int](), []Type{TypeFor[string](), TypeFor[int]()}},
		{"optional", TypeFor[Optional[int]](), []Type{TypeFor[int]()}},
		{"ordered map", TypeFor[OrderedMap[bool]](), []Type{TypeFor[string](), TypeFor[bool]()}},
		{"plain struct", TypeFor[struct{ A int }](), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.typ.Args()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("%s.Args() = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestType_Arg(t *testing.T) {
	m := TypeFor[map[string]int]()
	if got := m.Arg(1); got != TypeFor[int]() {
		t.Errorf("Arg(1) = %v, want int", got)
	}
	if got := m.Arg(2); got.IsValid() {
		t.Errorf("Arg(2) = %v, want invalid", got)
	}
	if got := m.Arg(-1); got.IsValid() {
		t.Errorf("Arg(-1) = %v, want invalid", got)
	}
}

func TestOf_Composes(t *testing.T) {
	tests := []struct {
		name string
		got  Type
		want Type
	}{
		{"slice", Of(reflect.TypeOf([]string(nil)), TypeFor[int]()), TypeFor[[]int]()},
		{"array keeps length", Of(reflect.TypeOf([2]string{}), TypeFor[int]()), TypeFor[[2]int]()},
		{"pointer", Of(reflect.TypeOf((*string)(nil)), TypeFor[bool]()), TypeFor[*bool]()},
		{"map", Of(reflect.TypeOf(map[int]int(nil)), TypeFor[string](), TypeFor[bool]()), TypeFor[map[string]bool]()},
		{"no arguments", Of(reflect.TypeOf(0)), TypeFor[int]()},
		{"optional with matching argument", Of(reflect.TypeOf(Optional[int]{}), TypeFor[int]()), TypeFor[Optional[int]]()},
		{"SliceOf", SliceOf(TypeFor[uint8]()), TypeFor[[]uint8]()},
		{"MapOf", MapOf(TypeFor[string](), TypeFor[any]()), TypeFor[map[string]any]()},
		{"PointerTo", PointerTo(TypeFor[Color]()), TypeFor[*Color]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equal(tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestOf_PanicsOnMismatch(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"slice arity", func() { Of(reflect.TypeOf([]int(nil)), TypeFor[int](), TypeFor[int]()) }},
		{"map arity", func() { Of(reflect.TypeOf(map[int]int(nil)), TypeFor[int]()) }},
		{"optional argument", func() { Of(reflect.TypeOf(Optional[int]{}), TypeFor[string]()) }},
		{"scalar with arguments", func() { Of(reflect.TypeOf(0), TypeFor[int]()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestType_Comparable(t *testing.T) {
	seen := map[Type]string{
		TypeFor[[]int]():          "ints",
		TypeFor[map[string]int](): "counts",
	}
	if got := seen[SliceOf(TypeFor[int]())]; got != "ints" {
		t.Errorf("lookup by composed descriptor = %q, want ints", got)
	}
	if TypeFor[[]int]() == TypeFor[[]int64]() {
		t.Error("[]int and []int64 compare equal")
	}
	if TypeFor[[]int]().Key() != reflect.TypeOf([]int(nil)) {
		t.Error("Key() is not the reflect type")
	}
}

func TestType_Invalid(t *testing.T) {
	var zero Type
	if zero.IsValid() {
		t.Error("zero Type is valid")
	}
	if zero.Kind() != reflect.Invalid {
		t.Errorf("Kind() = %v, want Invalid", zero.Kind())
	}
	if zero.String() != "<invalid>" {
		t.Errorf("String() = %q, want <invalid>", zero.String())
	}
	if zero.Args() != nil {
		t.Errorf("Args() = %v, want nil", zero.Args())
	}
}

func TestType_IsAssignableFrom(t *testing.T) {
	tests := []struct {
		name  string
		to    Type
		from  Type
		wants bool
	}{
		{"identical", TypeFor[string](), TypeFor[string](), true},
		{"int32 to int64", TypeFor[int64](), TypeFor[int32](), true},
		{"int64 to int32", TypeFor[int32](), TypeFor[int64](), false},
		{"uint8 to int16", TypeFor[int16](), TypeFor[uint8](), true},
		{"uint64 to int64", TypeFor[int64](), TypeFor[uint64](), false},
		{"int to float64", TypeFor[float64](), TypeFor[int](), true},
		{"float64 to float32", TypeFor[float32](), TypeFor[float64](), false},
		{"float64 to int", TypeFor[int](), TypeFor[float64](), false},
		{"boxing", TypeFor[*int](), TypeFor[int](), true},
		{"unboxing", TypeFor[int](), TypeFor[*int](), true},
		{"slice elements widen", TypeFor[[]int64](), TypeFor[[]int32](), true},
		{"slice elements narrow", TypeFor[[]int32](), TypeFor[[]int64](), false},
		{"array lengths differ", TypeFor[[3]int](), TypeFor[[2]int](), false},
		{"map values widen", TypeFor[map[string]float64](), TypeFor[map[string]int](), true},
		{"interface", TypeFor[any](), TypeFor[[]string](), true},
		{"string from int", TypeFor[string](), TypeFor[int](), false},
		{"invalid", Type{}, TypeFor[int](), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.to.IsAssignableFrom(tt.from); got != tt.wants {
				t.Errorf("%v.IsAssignableFrom(%v) = %v, want %v", tt.to, tt.from, got, tt.wants)
			}
		})
	}
}
