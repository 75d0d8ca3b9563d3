package search

import "go.uber.org/fx"

// FXModule provides the search enricher.
var FXModule = fx.Module("search",
	fx.Provide(NewEnricher),
)
