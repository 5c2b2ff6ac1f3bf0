package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lux-ventas/internal/application/dto"
	"github.com/jhoicas/lux-ventas/internal/domain/pipeline"
)

// KPIService lo implementa *analytics.KPIUseCase.
type KPIService interface {
	Summary(ctx context.Context, start, end time.Time) (*dto.KPISummaryDTO, error)
	Home(ctx context.Context, today time.Time) (*dto.HomeDTO, error)
}

// KPIHandler maneja los indicadores del embudo y la utilidad de semana.
type KPIHandler struct {
	uc  KPIService
	now func() time.Time
}

// NewKPIHandler construye el handler.
func NewKPIHandler(uc KPIService, now func() time.Time) *KPIHandler {
	return &KPIHandler{uc: uc, now: now}
}

// Summary conversiones y totales del período.
// GET /api/kpis?desde=&hasta=
func (h *KPIHandler) Summary(c *fiber.Ctx) error {
	start, end, err := queryPeriod(c, h.now())
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Summary(c.UserContext(), start, end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Home tablero de inicio: semana y mes en curso.
// GET /api/kpis/inicio
//
// No requiere parámetros; las fechas se calculan en el servidor.
func (h *KPIHandler) Home(c *fiber.Ctx) error {
	out, err := h.uc.Home(c.UserContext(), dto.NewDate(h.now()).Time)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Week etiqueta de semana ISO de una fecha (hoy si no se indica).
// GET /api/semana?fecha=2026-01-13 → {"fecha":"2026-01-13","semana":"W03"}
func (h *KPIHandler) Week(c *fiber.Ctx) error {
	d, err := queryDate(c, "fecha")
	if err != nil {
		return writeError(c, err)
	}
	if d.IsZero() {
		d = h.now()
	}
	date := dto.NewDate(d)
	return c.JSON(dto.WeekResponse{Fecha: date, Semana: pipeline.WeekLabel(date.Time)})
}
