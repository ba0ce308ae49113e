// Package demo holds the example worlds shipped with the frost CLI.
package demo

import (
	"sort"

	"github.com/go-frost/frost/pkg/frost"
)

// Builder produces a demo world from the loaded configuration.
type Builder func(config frost.WorldConfig) frost.World

var worlds = map[string]Builder{
	"clock": Clock,
	"click": Click,
	"login": Login,
	"timer": Timer,
}

// Lookup returns the builder for a demo name.
func Lookup(name string) (Builder, bool) {
	builder, ok := worlds[name]
	return builder, ok
}

// Names returns the available demo names in sorted order.
func Names() []string {
	names := make([]string, 0, len(worlds))
	for name := range worlds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
