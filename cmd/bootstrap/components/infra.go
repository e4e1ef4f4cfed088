package components

import (
	"booking-engine/internal/handler/api"
	"booking-engine/internal/infra/gateway"
	"booking-engine/internal/infra/icalfeed"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var InfraModule = fx.Module("infra",
	fx.Provide(
		fx.Annotate(
			func(cfg config.Config) *gateway.Client {
				return gateway.NewClient(cfg.Gateway)
			},
			fx.As(new(commands.PaymentGateway)),
		),
		fx.Annotate(
			func(cfg config.Config) *gateway.Verifier {
				return gateway.NewVerifier(cfg.Gateway)
			},
			fx.As(new(api.WebhookDecoder)),
		),
		fx.Annotate(
			func(cfg config.Config, clk clock.Clock) *icalfeed.Feed {
				return icalfeed.NewFeed(cfg.Calendar, clk)
			},
			fx.As(new(queries.CalendarFeed)),
		),
	),
)
