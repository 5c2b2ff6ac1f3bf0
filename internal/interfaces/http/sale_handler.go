package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lux-ventas/internal/application/dto"
)

// SaleService lo implementa *pipeline.SaleUseCase.
type SaleService interface {
	Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateSaleRequest) (*dto.SaleResponse, error)
	PeekNextID(ctx context.Context) (string, error)
	GetByID(ctx context.Context, id int64) (*dto.SaleResponse, error)
	ListByPeriod(ctx context.Context, start, end time.Time) (dto.ListResponse[dto.SaleResponse], error)
}

// SalePDFService lo implementa *pipeline.PDFUseCase.
type SalePDFService interface {
	DownloadSalePDF(ctx context.Context, id int64) ([]byte, string, error)
}

// SaleHandler maneja las peticiones HTTP de ventas. No hay borrado de ventas.
type SaleHandler struct {
	uc       SaleService
	pdf      SalePDFService
	expenses ExpenseService
	now      func() time.Time
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc SaleService, pdf SalePDFService, expenses ExpenseService, now func() time.Time) *SaleHandler {
	return &SaleHandler{uc: uc, pdf: pdf, expenses: expenses, now: now}
}

// Create registra la venta con el siguiente código LUX-<año>-NNN.
// POST /api/ventas
//
// Con oportunidad_id la oportunidad pasa a Convertida; si ya no está Activa responde 409.
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/ventas?desde=&hasta=
func (h *SaleHandler) List(c *fiber.Ctx) error {
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

// NextID vista previa del código que tomará la próxima venta.
// GET /api/ventas/siguiente-id
func (h *SaleHandler) NextID(c *fiber.Ctx) error {
	id, err := h.uc.PeekNextID(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NextSaleIDResponse{VentaID: id})
}

// GetByID GET /api/ventas/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
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

// Update PUT /api/ventas/:id
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateSaleRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF descarga el resumen de la venta.
// GET /api/ventas/:id/pdf
func (h *SaleHandler) PDF(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	body, filename, err := h.pdf.DownloadSalePDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}

// Expenses costos imputados a la venta y su margen.
// GET /api/ventas/:id/gastos
func (h *SaleHandler) Expenses(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.expenses.ReconcileSale(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
