// Package sourceenv loads configuration from environment variables.
//
// Key normalization: FOO__BAR → foo.bar, FOO_BAR → foo-bar, so variables
// address the hyphenated keys tackle derives from field names. Values are
// string scalars; the registry coerces them to the target types.
//
// Example:
//
//	source := sourceenv.New(sourceenv.Options{Prefix: "APP_"})
//	loader := tackle.NewLoader[Config]().WithSource(source)
package sourceenv
