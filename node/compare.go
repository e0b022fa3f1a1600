package node

// Equal reports whether a and b hold the same value. Comments are ignored and
// mapping key order is not significant. Virtual nodes equal Null.
func Equal(a, b *Node) bool {
	a, b = a.live(), b.live()
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.kind {
	case NullKind:
		return true
	case ScalarKind:
		return a.value == b.value
	case SequenceKind:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case MappingKind:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for i, k := range a.keys {
			j := b.indexOf(k)
			if j < 0 || !Equal(a.items[i], b.items[j]) {
				return false
			}
		}
		return true
	}
	return false
}
