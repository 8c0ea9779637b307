package di

import (
	"github.com/biso-no/shopcore/internal/adapter/events"
	"github.com/biso-no/shopcore/internal/adapter/payment"
	"github.com/biso-no/shopcore/internal/adapter/rowstore"
	"github.com/biso-no/shopcore/internal/app"
	"github.com/biso-no/shopcore/internal/config"
	"github.com/biso-no/shopcore/internal/logger"
	"github.com/biso-no/shopcore/internal/server/http/handlers"
	"github.com/biso-no/shopcore/internal/server/http/router"
	"github.com/biso-no/shopcore/internal/storage/postgres"
	"github.com/biso-no/shopcore/internal/storage/rowstorerepo"
	"github.com/biso-no/shopcore/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		rowstore.Module,
		rowstorerepo.Module,
		payment.Module,
		events.Module,
		usecase.Module,
		fx.Provide(func(facade *app.CommerceFacade) handlers.CommerceFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
