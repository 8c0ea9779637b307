package rowstorerepo

import (
	"go.uber.org/fx"

	"github.com/biso-no/shopcore/internal/adapter/rowstore"
	"github.com/biso-no/shopcore/internal/config"
	"github.com/biso-no/shopcore/internal/domain/repository"
)

// Module wires row-store backed repositories into the fx graph.
var Module = fx.Provide(
	newOrders,
	newProducts,
)

type repoParams struct {
	fx.In

	Client rowstore.Client
	Config *config.Config
}

func newOrders(p repoParams) repository.OrderRepository {
	return NewOrders(p.Client, p.Config.PageSize)
}

func newProducts(p repoParams) repository.ProductRepository {
	return NewProducts(p.Client, p.Config.PageSize)
}
