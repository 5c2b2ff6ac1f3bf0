package http

import (
	"context"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lux-ventas/internal/application/dto"
	"github.com/jhoicas/lux-ventas/internal/application/expenses"
)

// uploadField nombre del campo multipart con el libro de gastos.
const uploadField = "archivo"

// ExpenseService lo implementa *expenses.UseCase.
type ExpenseService interface {
	List(ctx context.Context, f expenses.Filter) (*dto.ExpenseListResponse, error)
	Summary(ctx context.Context, f expenses.Filter) (*dto.ExpenseSummaryDTO, error)
	Upload(body io.Reader, name string, f expenses.Filter) (*dto.ExpenseUploadResponse, error)
	ReconcileSale(ctx context.Context, saleID int64) (*dto.SaleReconciliationDTO, error)
}

// ExpenseHandler expone la planilla de gastos del contador (solo lectura).
type ExpenseHandler struct {
	uc ExpenseService
}

// NewExpenseHandler construye el handler.
func NewExpenseHandler(uc ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{uc: uc}
}

// List gastos filtrados.
// GET /api/gastos?desde=&hasta=&semana=&venta_id=
//
// Si la planilla no se pudo leer responde 200 con items vacío y "diagnostico".
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	f, err := expenseFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary totales por categoría, tipo de gasto y tipo de negocio.
// GET /api/gastos/resumen
func (h *ExpenseHandler) Summary(c *fiber.Ctx) error {
	f, err := expenseFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Summary(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Upload interpreta un libro .xlsx o .csv subido (campo "archivo"); no se guarda.
// POST /api/gastos/upload
func (h *ExpenseHandler) Upload(c *fiber.Ctx) error {
	f, err := expenseFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	fh, err := c.FormFile(uploadField)
	if err != nil {
		return badRequest(c, "se espera el archivo en el campo '"+uploadField+"'")
	}
	file, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer file.Close()

	out, err := h.uc.Upload(file, fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func expenseFilter(c *fiber.Ctx) (expenses.Filter, error) {
	var f expenses.Filter
	var err error
	if f.Desde, err = queryDate(c, "desde"); err != nil {
		return f, err
	}
	if f.Hasta, err = queryDate(c, "hasta"); err != nil {
		return f, err
	}
	f.Semana = strings.TrimSpace(c.Query("semana"))
	f.VentaID = strings.TrimSpace(c.Query("venta_id"))
	return f, nil
}
