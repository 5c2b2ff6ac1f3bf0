package expenses

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jhoicas/lux-ventas/internal/application/dto"
	"github.com/jhoicas/lux-ventas/internal/domain"
	"github.com/jhoicas/lux-ventas/internal/domain/repository"
)

// Filter criterios opcionales; se combinan con AND.
type Filter struct {
	Desde, Hasta time.Time
	Semana       string
	VentaID      string
}

func (f Filter) validate() error {
	if f.Desde.IsZero() != f.Hasta.IsZero() {
		return fmt.Errorf("%w: desde y hasta van juntos", domain.ErrInvalidInput)
	}
	if f.Desde.After(f.Hasta) {
		return fmt.Errorf("%w: desde es posterior a hasta", domain.ErrInvalidInput)
	}
	return nil
}

func (f Filter) apply(res Result) Result {
	if !f.Desde.IsZero() {
		res = res.ByPeriod(f.Desde, f.Hasta)
	}
	if f.Semana != "" {
		res = res.ByWeek(f.Semana)
	}
	if f.VentaID != "" {
		res = res.BySale(f.VentaID)
	}
	return res
}

// UseCase consultas sobre la planilla de gastos.
type UseCase struct {
	reader *Reader
	sales  repository.SaleRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(reader *Reader, sales repository.SaleRepository) *UseCase {
	return &UseCase{reader: reader, sales: sales}
}

// List gastos filtrados de la planilla configurada.
func (uc *UseCase) List(ctx context.Context, f Filter) (*dto.ExpenseListResponse, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	return toList(f.apply(uc.reader.Read(ctx))), nil
}

// Summary resumen de costos de la planilla configurada.
func (uc *UseCase) Summary(ctx context.Context, f Filter) (*dto.ExpenseSummaryDTO, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	return toSummary(f.apply(uc.reader.Read(ctx))), nil
}

// Upload interpreta un libro subido y devuelve sus filas y el resumen.
func (uc *UseCase) Upload(body io.Reader, name string, f Filter) (*dto.ExpenseUploadResponse, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	res := f.apply(uc.reader.ReadUpload(body, name))
	return &dto.ExpenseUploadResponse{Gastos: *toList(res), Resumen: *toSummary(res)}, nil
}

// ReconcileSale cruza una venta con los costos imputados a su código.
// Margen = monto de la venta − suma de costos.
func (uc *UseCase) ReconcileSale(ctx context.Context, saleID int64) (*dto.SaleReconciliationDTO, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %d", domain.ErrNotFound, saleID)
	}

	res := uc.reader.Read(ctx).BySale(sale.VentaID)
	summary := res.Summarize()
	list := toList(res)
	return &dto.SaleReconciliationDTO{
		Venta:       dto.NewSaleResponse(sale),
		Gastos:      list.Items,
		TotalCostos: summary.Total.Round(2),
		Margen:      sale.MontoSoles.Sub(summary.Total).Round(2),
		Diagnostico: res.Diagnostic,
	}, nil
}

func toList(res Result) *dto.ExpenseListResponse {
	items := make([]dto.ExpenseDTO, 0, len(res.Expenses))
	for _, e := range res.Expenses {
		items = append(items, dto.NewExpenseDTO(e))
	}
	return &dto.ExpenseListResponse{Items: items, Total: len(items), Diagnostico: res.Diagnostic}
}

func toSummary(res Result) *dto.ExpenseSummaryDTO {
	s := res.Summarize()
	return &dto.ExpenseSummaryDTO{
		TotalGastos:       s.Total.Round(2),
		CostosDirectos:    s.Direct.Round(2),
		CostosIndirectos:  s.Indirect.Round(2),
		PorTipoGasto:      toAmounts(s.ByType),
		PorCategoria:      toAmounts(s.ByCategory),
		PorTipoNegocio:    toAmounts(s.ByBusiness),
		CantidadRegistros: s.Count,
		Diagnostico:       res.Diagnostic,
	}
}

func toAmounts(in []Amount) []dto.AmountDTO {
	out := make([]dto.AmountDTO, 0, len(in))
	for _, a := range in {
		out = append(out, dto.AmountDTO{Clave: a.Key, MontoSoles: a.Total.Round(2)})
	}
	return out
}
