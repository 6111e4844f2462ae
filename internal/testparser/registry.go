package testparser

import (
	"slices"
	"strings"
)

// Registry maps harness format names to parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates a registry with the built-in parsers. "libtest" is
// also available as "cargo" and "rust".
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
	}

	libtest := &LibtestParser{}
	r.parsers["libtest"] = libtest
	r.parsers["cargo"] = libtest
	r.parsers["rust"] = libtest
	r.parsers["mimic"] = libtest
	r.parsers["go"] = &GoParser{}

	return r
}

// Get returns the parser registered as format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Register adds or replaces the parser for format.
func (r *Registry) Register(format string, parser Parser) {
	r.parsers[strings.ToLower(format)] = parser
}

// Formats returns the registered format names in sorted order.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		formats = append(formats, name)
	}
	slices.Sort(formats)
	return formats
}
