package vectorindex

import (
	"go.uber.org/fx"
)

// FXModule wires the indexing-service client into Fx.
// A vectorindex.Config and a vectorindex.Logger must be available in the container.
var FXModule = fx.Module("vectorindex",
	fx.Provide(
		NewClient,
	),
)
