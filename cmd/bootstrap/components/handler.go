package components

import (
	"booking-engine/internal/handler"
	"booking-engine/internal/handler/api"
	"booking-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewBookingHandler,
		api.NewPaymentHandler,
		middleware.NewAuthMiddleware,
		func(a *api.AvailabilityHandler, b *api.BookingHandler, p *api.PaymentHandler) handler.Handlers {
			return handler.Handlers{Availability: a, Booking: b, Payment: p}
		},
	),
	fx.Invoke(handler.NewRouter),
)
