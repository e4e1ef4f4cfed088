package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"booking-engine/internal/handler/api"
	"booking-engine/internal/handler/dto/request"
	"booking-engine/internal/handler/middleware"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/pkg/jwt"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Availability *api.AvailabilityHandler
	Booking      *api.BookingHandler
	Payment      *api.PaymentHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware) error {
	if err := request.RegisterValidators(); err != nil {
		return err
	}
	setupClientIP(engine, cfg.Risk)
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
	return nil
}

// Forwarded headers are only honoured behind a trusted proxy; otherwise the socket address is the client.
func setupClientIP(engine *gin.Engine, cfg config.RiskConfig) {
	engine.ForwardedByClientIP = cfg.TrustForwardHeaders
	if !cfg.TrustForwardHeaders {
		if err := engine.SetTrustedProxies(nil); err != nil {
			slog.Warn("failed to reset trusted proxies", "error", err.Error())
		}
	}
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.Metrics())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	operator := []gin.HandlerFunc{
		authMiddleware.RequireAuth(),
		authMiddleware.RequireRole(jwt.RoleOwner, jwt.RoleAdmin),
	}

	apiGroup := engine.Group("/api")
	{
		properties := apiGroup.Group("/properties")
		addRoutes(properties, []route{
			{Method: http.MethodGet, Path: "/:id/availability", Handler: h.Availability.Get},
			{Method: http.MethodGet, Path: "/:id/quote", Handler: h.Booking.PreviewQuote},
			{Method: http.MethodPost, Path: "/:id/availability", Handler: h.Availability.CreateEntry, Mw: operator},
			{Method: http.MethodDelete, Path: "/:id/availability/:entryId", Handler: h.Availability.DeleteEntry, Mw: operator},
		})

		bookings := apiGroup.Group("/bookings")
		addRoutes(bookings, []route{
			{Method: http.MethodPost, Path: "/quote", Handler: h.Booking.RequestQuote},
			{Method: http.MethodGet, Path: "/challenge", Handler: h.Booking.Challenge},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.Cancel, Mw: operator},
			{Method: http.MethodPost, Path: "/:id/balance-request", Handler: h.Booking.RequestBalance, Mw: operator},
		})

		payments := apiGroup.Group("/payments")
		addRoutes(payments, []route{
			{Method: http.MethodPost, Path: "/checkout-session", Handler: h.Payment.CreateCheckoutSession},
			{Method: http.MethodPost, Path: "/webhook", Handler: h.Payment.Webhook},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(append([]gin.HandlerFunc{}, r.Mw...), r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
