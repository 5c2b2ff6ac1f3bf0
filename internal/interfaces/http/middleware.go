package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lux-ventas/pkg/logger"
)

// httpObserver lo implementa *metrics.Registry; la interfaz evita importar prometheus aquí.
type httpObserver interface {
	ObserveHTTP(method, route, status string, elapsed time.Duration)
}

// RequestMetrics registra conteo y duración por ruta. Usa el patrón de la ruta
// (/api/ventas/:id), no la URL, para no disparar la cardinalidad.
func RequestMetrics(obs httpObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if status == fiber.StatusNotFound && route == "/" {
			route = "unmatched"
		}
		obs.ObserveHTTP(c.Method(), route, strconv.Itoa(status), time.Since(start))
		return err
	}
}

// RequestLogger una línea por petición con el request id.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("petición")
		return err
	}
}
