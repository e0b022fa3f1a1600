package tackle

import (
	"strings"
)

// tagConfig holds parsed directives from a struct field's `conf` tag.
type tagConfig struct {
	name       string   // Custom key (name:custom-key)
	defValue   string   // Default value (default:value)
	min        string   // Minimum constraint (min:N)
	max        string   // Maximum constraint (max:M)
	oneof      []string // Allowed values (oneof:a,b,c)
	pattern    string   // Regular expression the value must match (pattern:^[a-z]+$)
	required   bool     // Field is required (required or required:true)
	secret     bool     // Field is secret (secret or secret:true)
	hasDefault bool     // Whether a default directive was present
	skip       bool     // conf:"-"
}

// parseTag parses a `conf` struct tag into a structured tagConfig.
// Tag format: "directive1:value1,directive2:value2,..."
// Boolean directives can omit `:true` (e.g., "required" == "required:true")
func parseTag(tag string) tagConfig {
	cfg := tagConfig{}

	if tag == "" {
		return cfg
	}
	if tag == "-" {
		cfg.skip = true
		return cfg
	}

	// default, oneof and pattern values may contain commas, so directives are split by hand
	for _, directive := range splitDirectives(tag) {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		parts := strings.SplitN(directive, ":", 2)
		name := strings.TrimSpace(parts[0])
		var value string
		if len(parts) > 1 {
			value = parts[1] // empty strings may be intentional
		}

		switch name {
		case "name":
			cfg.name = strings.TrimSpace(value)
		case "default":
			cfg.defValue = value
			cfg.hasDefault = true
		case "min":
			cfg.min = value
		case "max":
			cfg.max = value
		case "oneof":
			if value != "" {
				cfg.oneof = strings.Split(value, ",")
				for i := range cfg.oneof {
					cfg.oneof[i] = strings.TrimSpace(cfg.oneof[i])
				}
			}
		case "pattern":
			cfg.pattern = value
		case "required":
			cfg.required = parseBoolDirective(value)
		case "secret":
			cfg.secret = parseBoolDirective(value)
		}
	}

	return cfg
}

// parseBoolDirective treats a missing value as true. Anything but "false"
// also counts as true.
func parseBoolDirective(value string) bool {
	return value != "false"
}

// splitDirectives splits a tag string into individual directives,
// handling the special case where default, oneof and pattern values contain commas.
// Inside those, a comma only ends the directive when a known directive
// follows it.
func splitDirectives(tag string) []string {
	var directives []string
	var current strings.Builder
	inList := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]

		if !inList && strings.TrimSpace(current.String()) == "" {
			for _, p := range listDirectives {
				if strings.HasPrefix(tag[i:], p) {
					inList = true
					current.WriteString(p)
					i += len(p) - 1
					break
				}
			}
			if inList {
				continue
			}
		}

		if ch != ',' {
			current.WriteByte(ch)
			continue
		}
		if inList && !startsWithDirective(tag[i+1:]) {
			current.WriteByte(ch)
			continue
		}
		inList = false
		directives = append(directives, current.String())
		current.Reset()
	}

	if current.Len() > 0 {
		directives = append(directives, current.String())
	}

	return directives
}

var listDirectives = []string{"default:", "oneof:", "pattern:"}

var knownDirectives = []string{"name:", "default:", "min:", "max:", "oneof:", "pattern:", "required", "secret"}

// startsWithDirective checks if a string starts with a known directive name.
func startsWithDirective(s string) bool {
	s = strings.TrimSpace(s)
	for _, d := range knownDirectives {
		if strings.HasPrefix(s, d) {
			return true
		}
	}
	return false
}
