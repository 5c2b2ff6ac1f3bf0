package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lux-ventas/internal/application/dto"
)

// OpportunityService lo implementa *pipeline.OpportunityUseCase.
type OpportunityService interface {
	Create(ctx context.Context, in dto.CreateOpportunityRequest) (*dto.OpportunityResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateOpportunityRequest) (*dto.OpportunityResponse, error)
	MarkLost(ctx context.Context, id int64, in dto.MarkLostRequest) (*dto.OpportunityResponse, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*dto.OpportunityResponse, error)
	ListByPeriod(ctx context.Context, start, end time.Time) (dto.ListResponse[dto.OpportunityResponse], error)
	ListActive(ctx context.Context) (dto.ListResponse[dto.OpportunityResponse], error)
}

// OpportunityHandler maneja las peticiones HTTP de oportunidades.
type OpportunityHandler struct {
	uc  OpportunityService
	now func() time.Time
}

// NewOpportunityHandler construye el handler.
func NewOpportunityHandler(uc OpportunityService, now func() time.Time) *OpportunityHandler {
	return &OpportunityHandler{uc: uc, now: now}
}

// Create registra la oportunidad y la asigna a un vendedor por sorteo ponderado.
// POST /api/oportunidades
//
// El cuerpo no lleva vendedor: asignado_a lo decide el servidor y se notifica por WhatsApp.
func (h *OpportunityHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOpportunityRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/oportunidades?desde=&hasta=
func (h *OpportunityHandler) List(c *fiber.Ctx) error {
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

// ListActive oportunidades en estado Activa (candidatas a convertirse en venta).
// GET /api/oportunidades/activas
func (h *OpportunityHandler) ListActive(c *fiber.Ctx) error {
	out, err := h.uc.ListActive(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/oportunidades/:id
func (h *OpportunityHandler) GetByID(c *fiber.Ctx) error {
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

// Update edita la oportunidad; con asignado_a distinto reasigna y avisa al nuevo vendedor.
// PUT /api/oportunidades/:id
func (h *OpportunityHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateOpportunityRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkLost POST /api/oportunidades/:id/perdida
func (h *OpportunityHandler) MarkLost(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.MarkLostRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.MarkLost(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/oportunidades/:id
func (h *OpportunityHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
