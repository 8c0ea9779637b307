package events

import (
	"context"

	"go.uber.org/fx"

	"github.com/biso-no/shopcore/internal/config"
)

// Module exposes the event publisher to the fx graph. Without a broker
// address the service runs with a no-op publisher.
var Module = fx.Options(
	fx.Provide(newPublisher),
	fx.Invoke(registerLifecycle),
)

func newPublisher(cfg *config.Config) (Publisher, error) {
	if cfg.AMQPAddress == "" {
		return NoopPublisher{}, nil
	}
	return NewAMQPPublisher(cfg.AMQPAddress)
}

func registerLifecycle(lc fx.Lifecycle, publisher Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
}
