package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ap-invoice-staging/pkg/logger"
)

// HeaderRequestID propaga la correlación entre el cliente, este servicio y los logs.
const HeaderRequestID = "X-Request-ID"

// RequestLogger reutiliza el X-Request-ID entrante o genera uno, lo devuelve en la respuesta
// y registra método, ruta, status y duración. 5xx se registran como error, 4xx como warn.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(HeaderRequestID, reqID)

		start := time.Now()
		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler de fiber fije el status antes de registrar.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		level := zerolog.InfoLevel
		switch {
		case status >= fiber.StatusInternalServerError:
			level = zerolog.ErrorLevel
		case status >= fiber.StatusBadRequest:
			level = zerolog.WarnLevel
		}
		log.WithLevel(level).
			Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("petición atendida")
		return nil
	}
}

