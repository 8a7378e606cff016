package generators

import (
	"github.com/farmstack/farmsync/internal/core/domain"
	"github.com/farmstack/farmsync/internal/core/ports"
)

// Build assembles the standard generator order from the feature flags:
// type definitions first, then client bindings, then data hooks, then
// streaming-aware hooks.
func Build(features domain.Features) []ports.Generator {
	gens := []ports.Generator{NewTypeGenerator()}
	if features.ClientEnabled() {
		gens = append(gens, NewClientGenerator())
	}
	if features.HooksEnabled() {
		gens = append(gens, NewHooksGenerator())
	}
	if features.StreamingEnabled() {
		gens = append(gens, NewStreamGenerator())
	}
	return gens
}
