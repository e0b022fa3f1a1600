package node

// Merge composes a defaults tree with a loaded tree and returns a new tree
// that shares no nodes with either input.
//
// For each position:
//   - when both trees hold the same kind, the loaded value wins and keeps
//     its comment, falling back to the default's comment when it has none;
//   - a default Null accepts any loaded kind;
//   - otherwise, when the kinds differ or loaded has nothing there, the
//     default's value and comment are used;
//   - mappings merge key by key: all default keys in their order, then keys
//     only present in loaded, in their original order;
//   - a loaded sequence replaces the default sequence as a whole. Elements are
//     never merged by position.
//
// A nil or virtual defaults tree yields a copy of loaded.
func Merge(defaults, loaded *Node) *Node {
	switch {
	case defaults == nil || defaults.IsVirtual():
		if loaded == nil {
			return Null()
		}
		return loaded.Clone()
	case loaded == nil || loaded.IsVirtual():
		return defaults.Clone()
	}
	d, l := defaults.live(), loaded.live()
	if d.kind != l.kind && d.kind != NullKind {
		return d.Clone()
	}

	var out *Node
	if d.kind == MappingKind {
		out = mergeMappings(d, l)
	} else {
		out = l.Clone()
	}
	if out.comment == "" {
		out.comment = d.comment
	}
	return out
}

func mergeMappings(d, l *Node) *Node {
	out := &Node{kind: MappingKind, comment: l.comment}
	add := func(k string, c *Node) {
		out.keys = append(out.keys, k)
		out.items = append(out.items, c)
		c.parent = out
	}
	for i, k := range d.keys {
		if j := l.indexOf(k); j >= 0 {
			add(k, Merge(d.items[i], l.items[j]))
		} else {
			add(k, d.items[i].Clone())
		}
	}
	for j, k := range l.keys {
		if d.indexOf(k) < 0 {
			add(k, l.items[j].Clone())
		}
	}
	return out
}
