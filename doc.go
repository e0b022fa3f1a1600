// Package tackle binds configuration document trees to Go types.
//
// The engine is format-agnostic: adapters (see sourcefile and sourceenv) turn
// text into a node.Node tree, and tackle converts between such trees and
// typed values through an ordered registry of serializers.
//
// Quick Start:
//
//	type Config struct {
//	    Port int    `conf:"default:8080,min:1024" comment:"HTTP listen port"`
//	    Host string `conf:"required"`
//	}
//
//	loader := tackle.NewLoader[Config]().
//	    WithSource(sourcefile.New("config.yaml", sourcefile.Options{})).
//	    WithSource(sourceenv.New(sourceenv.Options{Prefix: "APP_"}))
//
//	cfg, err := loader.Load(context.Background())
//
// Lower level, the same steps are available one by one:
//
//	reg := tackle.NewRegistry()
//	reg.Seal()
//	defaults, _ := tackle.Extract(reg, Config{Port: 8080})
//	merged := tackle.MergeWithDefaults(defaults, loaded)
//	cfg, err := tackle.Parse[Config](reg, merged)
//
// Tag directives: name:key, default:val, required, min:N, max:N, oneof:a,b,c.
// Field keys default to the hyphenated field name (MaxConns -> max-conns).
package tackle
