package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lux-ventas/internal/application/dto"
)

// VisitService lo implementa *pipeline.VisitUseCase.
type VisitService interface {
	Create(ctx context.Context, in dto.VisitRequest) (*dto.VisitResponse, error)
	Update(ctx context.Context, id int64, in dto.VisitRequest) (*dto.VisitResponse, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*dto.VisitResponse, error)
	ListByPeriod(ctx context.Context, start, end time.Time) (dto.ListResponse[dto.VisitResponse], error)
}

// VisitHandler maneja las peticiones HTTP de visitas.
type VisitHandler struct {
	uc  VisitService
	now func() time.Time
}

// NewVisitHandler construye el handler.
func NewVisitHandler(uc VisitService, now func() time.Time) *VisitHandler {
	return &VisitHandler{uc: uc, now: now}
}

// Create registra una visita. La semana se calcula en el servidor.
// POST /api/visitas
func (h *VisitHandler) Create(c *fiber.Ctx) error {
	var in dto.VisitRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List visitas del período (?desde=&hasta=, por defecto el mes en curso).
// GET /api/visitas
func (h *VisitHandler) List(c *fiber.Ctx) error {
	start, end, err := queryPeriod(c, h.now())
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListByPeriod(c.UserContext(), start, end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/visitas/:id
func (h *VisitHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/visitas/:id
func (h *VisitHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.VisitRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina la visita; sus oportunidades se conservan sin vínculo.
// DELETE /api/visitas/:id
func (h *VisitHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
