package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LocalLogger key del logger de la petición en c.Locals.
const LocalLogger = "logger"

// RequestLogger asigna un X-Request-ID (o respeta el del cliente) y registra una línea por petición.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(fiber.HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, reqID)

		reqLog := log.With().Str("request_id", reqID).Logger()
		c.Locals(LocalLogger, reqLog)

		chainErr := c.Next()
		if chainErr != nil {
			// el ErrorHandler de fiber aún no escribió el status
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		evt := reqLog.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			evt = reqLog.Error()
		case status >= fiber.StatusBadRequest:
			evt = reqLog.Warn()
		}
		evt.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int64("user_id", GetUserID(c)).
			Msg("http request")
		return nil
	}
}

// requestLog devuelve el logger de la petición o uno nulo fuera de RequestLogger.
func requestLog(c *fiber.Ctx) zerolog.Logger {
	if l, ok := c.Locals(LocalLogger).(zerolog.Logger); ok {
		return l
	}
	return zerolog.Nop()
}
