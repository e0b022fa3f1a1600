package tackle

import (
	"errors"
	"testing"

	"github.com/Azhovan/tackle/node"
	"github.com/google/go-cmp/cmp"
)

func TestSequence_Decode(t *testing.T) {
	got, err := Parse[[]int](nil, sequence(t, 1, "2", 3.0))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}

	empty, err := Parse[[]int](nil, node.Sequence())
	if err != nil {
		t.Fatalf("Parse(empty) error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Parse(empty) = %#v, want empty non-nil slice", empty)
	}

	null, err := Parse[[]int](nil, node.Null())
	if err != nil {
		t.Fatalf("Parse(null) error = %v", err)
	}
	if null != nil {
		t.Errorf("Parse(null) = %#v, want nil", null)
	}
}

func TestSequence_WrongKind(t *testing.T) {
	for _, in := range []*node.Node{node.String("a,b"), node.Mapping()} {
		_, err := Parse[[]string](nil, in)
		var wk *WrongNodeKindError
		if !errors.As(err, &wk) {
			t.Fatalf("Parse(%v) error = %v, want *WrongNodeKindError", in, err)
		}
		if wk.Want != node.SequenceKind {
			t.Errorf("Want = %v, want sequence", wk.Want)
		}
	}
}

func TestSequence_ElementErrorPath(t *testing.T) {
	type config struct {
		Ports []int
	}
	_, err := Parse[config](nil, mapping(t, "ports", sequence(t, 80, "http")))

	var tce *TypeCoercionError
	if !errors.As(err, &tce) {
		t.Fatalf("error = %v, want *TypeCoercionError", err)
	}
	if got := tce.Path.String(); got != "ports[1]" {
		t.Errorf("Path = %q, want ports[1]", got)
	}
}

func TestArray_Length(t *testing.T) {
	got, err := Parse[[2]string](nil, sequence(t, "a", "b"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != [2]string{"a", "b"} {
		t.Errorf("Parse() = %v", got)
	}

	_, err = Parse[[2]string](nil, sequence(t, "a", "b", "c"))
	var tce *TypeCoercionError
	if !errors.As(err, &tce) {
		t.Errorf("Parse(3 elements) error = %v, want *TypeCoercionError", err)
	}
}

func TestSequence_Encode(t *testing.T) {
	n, err := Extract(nil, []string{"x", "y"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if diff := cmp.Diff([]any{"x", "y"}, n.Interface()); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}

	n, err = Extract[[]string](nil, nil)
	if err != nil {
		t.Fatalf("Extract(nil) error = %v", err)
	}
	if !n.IsNull() {
		t.Errorf("Extract(nil slice) = %v, want null", n)
	}

	n, err = Extract(nil, [3]int{1, 2, 3})
	if err != nil {
		t.Fatalf("Extract(array) error = %v", err)
	}
	if n.Len() != 3 {
		t.Errorf("Extract(array) len = %d, want 3", n.Len())
	}
}

func TestMap_Decode(t *testing.T) {
	got, err := Parse[map[string]int](nil, mapping(t, "b", 2, "a", 1))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff(map[string]int{"a": 1, "b": 2}, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}

	byID, err := Parse[map[int]string](nil, mapping(t, "10", "x", "2", "y"))
	if err != nil {
		t.Fatalf("Parse(int keys) error = %v", err)
	}
	if diff := cmp.Diff(map[int]string{10: "x", 2: "y"}, byID); diff != "" {
		t.Errorf("Parse(int keys) mismatch (-want +got):\n%s", diff)
	}

	_, err = Parse[map[int]string](nil, mapping(t, "ten", "x"))
	var tce *TypeCoercionError
	if !errors.As(err, &tce) {
		t.Fatalf("Parse(bad key) error = %v, want *TypeCoercionError", err)
	}
	if got := tce.Path.String(); got != "ten" {
		t.Errorf("Path = %q, want ten", got)
	}

	_, err = Parse[map[string]int](nil, sequence(t, 1))
	var wk *WrongNodeKindError
	if !errors.As(err, &wk) {
		t.Errorf("Parse(sequence) error = %v, want *WrongNodeKindError", err)
	}
}

func TestMap_EncodeSortsKeys(t *testing.T) {
	n, err := Extract(nil, map[string]bool{"zeta": true, "alpha": false, "mid": true})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if diff := cmp.Diff([]string{"alpha", "mid", "zeta"}, n.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	n, err = Extract(nil, map[Color]int{Blue: 3, Red: 1})
	if err != nil {
		t.Fatalf("Extract(enum keys) error = %v", err)
	}
	if diff := cmp.Diff([]string{"BLUE", "RED"}, n.Keys()); diff != "" {
		t.Errorf("enum keys mismatch (-want +got):\n%s", diff)
	}

	back, err := Parse[map[Color]int](nil, n)
	if err != nil {
		t.Fatalf("Parse(enum keys) error = %v", err)
	}
	if back[Blue] != 3 || back[Red] != 1 {
		t.Errorf("Parse(enum keys) = %v", back)
	}
}

func TestOrderedMap_KeepsOrder(t *testing.T) {
	tree := mapping(t, "zeta", 1, "alpha", 2, "mid", 3)

	om, err := Parse[OrderedMap[int]](nil, tree)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, om.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if v, ok := om.Get("alpha"); !ok || v != 2 {
		t.Errorf("Get(alpha) = %d, %v; want 2, true", v, ok)
	}

	om.Set("first", 0)
	om.Delete("alpha")

	n, err := Extract(nil, om)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if diff := cmp.Diff([]string{"zeta", "mid", "first"}, n.Keys()); diff != "" {
		t.Errorf("Extract() keys mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderedMap_ZeroValue(t *testing.T) {
	var om OrderedMap[string]
	if om.Len() != 0 {
		t.Errorf("Len() = %d, want 0", om.Len())
	}
	if om.Delete("x") {
		t.Error("Delete() on empty map = true")
	}
	om.Set("a", "1")
	om.Set("a", "2")
	if om.Len() != 1 {
		t.Errorf("Len() after replacing = %d, want 1", om.Len())
	}
	if v, _ := om.Get("a"); v != "2" {
		t.Errorf("Get(a) = %q, want 2", v)
	}

	n, err := Parse[OrderedMap[string]](nil, node.Null())
	if err != nil {
		t.Fatalf("Parse(null) error = %v", err)
	}
	if n.Len() != 0 {
		t.Errorf("Parse(null) Len() = %d, want 0", n.Len())
	}
}

func TestOrderedMap_NestedRecords(t *testing.T) {
	type upstream struct {
		URL    string `conf:"required"`
		Weight int    `conf:"default:1"`
	}
	tree := mapping(t,
		"b", mapping(t, "url", "http://b"),
		"a", mapping(t, "url", "http://a", "weight", 5),
	)

	om, err := Parse[OrderedMap[upstream]](nil, tree)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, om.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if b, _ := om.Get("b"); b.Weight != 1 {
		t.Errorf("b.Weight = %d, want default 1", b.Weight)
	}

	_, err = Parse[OrderedMap[upstream]](nil, mapping(t, "c", mapping(t)))
	var mr *MissingRequiredFieldError
	if !errors.As(err, &mr) {
		t.Fatalf("error = %v, want *MissingRequiredFieldError", err)
	}
	if got := mr.Path.String(); got != "c.url" {
		t.Errorf("Path = %q, want c.url", got)
	}
}
