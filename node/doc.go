// Package node implements the format-independent document tree used by tackle.
//
// A tree is built from four kinds of nodes: Null, Scalar, Sequence and Mapping.
// Mappings keep insertion order. Any node may carry a comment, which format
// adapters render where the syntax allows (YAML `#` lines, for example).
//
// Reads never change a tree. Get on a missing child returns a virtual Null
// node that remembers where it came from; the first write through it
// materializes the missing structure:
//
//	root := node.Mapping()
//	port := root.Get(node.Key("server")).Get(node.Key("port")) // virtual, root unchanged
//	_ = port.Set(node.Key("value"), node.Int(8080))           // creates server.port.value
//
// Merge composes a defaults tree with a loaded tree; see Merge for the rules.
package node
