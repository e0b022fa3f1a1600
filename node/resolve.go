package node

// Resolve walks path from root. Missing segments yield virtual nodes, so the
// result is never nil and root is never modified.
func Resolve(root *Node, path Path) *Node {
	n := root
	for _, seg := range path {
		n = n.Get(seg)
	}
	return n
}

// Store writes child at path under root, creating missing intermediate
// mappings and sequences on the way.
func Store(root *Node, path Path, child *Node) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	parent := Resolve(root, path[:len(path)-1])
	return parent.Set(path[len(path)-1], child)
}
