// @title        AP Invoice Staging API
// @version      1.0
// @description  Carga, consulta, procesamiento y cancelación de facturas de proveedor en las tablas de staging del ERP.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/ap-invoice-staging/docs"
	"github.com/jhoicas/ap-invoice-staging/internal/bootstrap"
	httpRouter "github.com/jhoicas/ap-invoice-staging/internal/interfaces/http"
	"github.com/jhoicas/ap-invoice-staging/pkg/config"
	"github.com/jhoicas/ap-invoice-staging/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("procedure", cfg.ERP.Procedure).
		Bool("auth", cfg.JWT.Enabled()).
		Msg("iniciando aplicación")

	// El pool se abre en la primera petición; el arranque no depende de la base.
	components, err := bootstrap.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("construir dependencias")
	}
	defer components.Close()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.DB.AcquireTimeout + time.Minute,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "AP Invoice Staging API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Invoices:  components.Invoices,
		Health:    components.Pool,
		AppName:   cfg.App.Name,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
