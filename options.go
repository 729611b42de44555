package figref

import (
	"github.com/tsawler/figref/grouping"
	"github.com/tsawler/figref/mapping"
)

// Options holds the tunable configuration for an Analyzer.
type Options struct {
	Grouping grouping.Config
	Mapping  mapping.Config
}

// DefaultOptions returns the default analyzer options.
func DefaultOptions() Options {
	return Options{
		Grouping: grouping.DefaultConfig(),
		Mapping:  mapping.DefaultConfig(),
	}
}
