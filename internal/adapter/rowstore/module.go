package rowstore

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/biso-no/shopcore/internal/config"
)

// Module exposes the row-store client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(
		p.Config.RowStoreAddress,
		p.Config.RowStoreProject,
		p.Config.RowStoreKey,
		p.Config.RowStoreDatabase,
		p.Logger,
	)
}
