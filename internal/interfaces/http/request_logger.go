package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/CRM-api/pkg/logger"
)

// RequestLogger registra método, ruta, status y latencia de cada petición.
// Los 5xx salen en nivel error junto con el error guardado por writeError.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()

		ev := log.Info()
		if status >= fiber.StatusInternalServerError || err != nil {
			ev = log.Error()
			if err != nil {
				ev = ev.Err(err)
			} else if e, ok := c.Locals(LocalError).(error); ok {
				ev = ev.Err(e)
			}
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
