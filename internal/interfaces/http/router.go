package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ap-invoice-staging/internal/application/dto"
	"github.com/jhoicas/ap-invoice-staging/internal/application/staging"
	"github.com/jhoicas/ap-invoice-staging/pkg/jwt"
)

// Pinger verificación de conectividad con el store (LazyPool en producción).
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Invoices  *staging.InvoiceService
	Health    Pinger
	AppName   string
	JWTSecret string // vacío = rutas sin autenticación
	JWTIssuer string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))

	invoices := app.Group("/ap/invoice")
	var supervised []fiber.Handler
	if deps.JWTSecret != "" {
		invoices.Use(AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
		// process y cancel mueven estado en el ERP: sólo manager/admin.
		supervised = append(supervised, RequireRole(jwt.RoleManager, jwt.RoleAdmin))
	}

	h := NewInvoiceHandler(deps.Invoices)
	invoices.Post("/create", h.Create)
	invoices.Get("/status/:staging_id", h.GetStatus)
	invoices.Get("/search", h.Search)
	invoices.Post("/process", chain(supervised, h.Process)...)
	invoices.Post("/cancel", chain(supervised, h.Cancel)...)
}

func chain(mw []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(mw)+1)
	return append(append(out, mw...), h)
}

func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health.Ping(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.NewErrorResponse("STORE_UNAVAILABLE", err.Error()))
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	}
}
