package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lux-ventas/internal/application/dto"
	"github.com/jhoicas/lux-ventas/internal/domain"
)

// paramID lee :id como entero positivo.
func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q inválido", domain.ErrInvalidInput, c.Params("id"))
	}
	return id, nil
}

// queryDate lee una fecha opcional AAAA-MM-DD. Ausente devuelve el tiempo cero.
func queryDate(c *fiber.Ctx, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := dto.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	return d.Time, nil
}

// queryPeriod lee ?desde=&hasta=. Sin ninguno de los dos se usa el mes en curso hasta hoy.
func queryPeriod(c *fiber.Ctx, today time.Time) (start, end time.Time, err error) {
	if start, err = queryDate(c, "desde"); err != nil {
		return
	}
	if end, err = queryDate(c, "hasta"); err != nil {
		return
	}
	if start.IsZero() && end.IsZero() {
		t := dto.NewDate(today).Time
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), t, nil
	}
	if start.IsZero() || end.IsZero() {
		err = fmt.Errorf("%w: desde y hasta van juntos", domain.ErrInvalidInput)
	}
	return
}

// parseBody decodifica el JSON del cuerpo.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cuerpo inválido: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
