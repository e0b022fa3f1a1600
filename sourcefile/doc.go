// Package sourcefile reads and writes configuration trees as YAML, JSON or
// TOML files.
//
// Format is auto-detected from extension (.yaml, .yml, .json, .toml).
// YAML keeps key order and comments in both directions. JSON keeps key
// order. TOML is decoded through Go maps, so keys come back sorted and
// comments are not kept.
//
// Example:
//
//	file := sourcefile.New("config.yaml", sourcefile.Options{Required: true})
//	loader := tackle.NewLoader[Config]().WithSource(file)
//	cfg, err := loader.Load(ctx)
//	...
//	err = loader.Save(ctx, cfg, file) // writes new defaults back, comments included
package sourcefile
