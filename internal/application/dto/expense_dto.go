package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lux-ventas/internal/domain/entity"
)

// ExpenseDTO fila de la planilla de gastos.
type ExpenseDTO struct {
	Fecha       Date            `json:"fecha"`
	Semana      string          `json:"semana"`
	TipoGasto   string          `json:"tipo_gasto"`
	Categoria   string          `json:"categoria"`
	TipoNegocio string          `json:"tipo_negocio"`
	Descripcion string          `json:"descripcion"`
	MontoSoles  decimal.Decimal `json:"monto_soles"`
	VentaID     string          `json:"venta_id"`
}

// NewExpenseDTO mapea una fila leída.
func NewExpenseDTO(e entity.Expense) ExpenseDTO {
	return ExpenseDTO{
		Fecha:       NewDate(e.Fecha),
		Semana:      e.Semana,
		TipoGasto:   e.TipoGasto,
		Categoria:   e.Categoria,
		TipoNegocio: e.TipoNegocio,
		Descripcion: e.Descripcion,
		MontoSoles:  e.MontoSoles,
		VentaID:     e.VentaID,
	}
}

// ExpenseListResponse gastos filtrados. Diagnostico no vacío indica que la planilla
// no pudo leerse; la lista llega vacía en ese caso.
type ExpenseListResponse struct {
	Items       []ExpenseDTO `json:"items"`
	Total       int          `json:"total"`
	Diagnostico string       `json:"diagnostico,omitempty"`
}

// AmountDTO monto agregado bajo una clave.
type AmountDTO struct {
	Clave      string          `json:"clave"`
	MontoSoles decimal.Decimal `json:"monto_soles"`
}

// ExpenseSummaryDTO respuesta de GET /api/gastos/resumen.
type ExpenseSummaryDTO struct {
	TotalGastos       decimal.Decimal `json:"total_gastos"`
	CostosDirectos    decimal.Decimal `json:"costos_directos"`
	CostosIndirectos  decimal.Decimal `json:"costos_indirectos"`
	PorTipoGasto      []AmountDTO     `json:"por_tipo_gasto"`
	PorCategoria      []AmountDTO     `json:"por_categoria"`
	PorTipoNegocio    []AmountDTO     `json:"por_tipo_negocio"`
	CantidadRegistros int             `json:"cantidad_registros"`
	Diagnostico       string          `json:"diagnostico,omitempty"`
}

// SaleReconciliationDTO venta con sus costos asociados (GET /api/ventas/:id/gastos).
type SaleReconciliationDTO struct {
	Venta       SaleResponse    `json:"venta"`
	Gastos      []ExpenseDTO    `json:"gastos"`
	TotalCostos decimal.Decimal `json:"total_costos"`
	Margen      decimal.Decimal `json:"margen"`
	Diagnostico string          `json:"diagnostico,omitempty"`
}

// ExpenseUploadResponse respuesta de POST /api/gastos/upload.
type ExpenseUploadResponse struct {
	Gastos  ExpenseListResponse `json:"gastos"`
	Resumen ExpenseSummaryDTO   `json:"resumen"`
}
