package blob

import (
	"go.uber.org/fx"
)

// FXModule provides the configured blob store.
// A blob.Config and a blob.Logger must be available in the container.
var FXModule = fx.Module("blob",
	fx.Provide(
		NewStore,
	),
)
