package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de gasto reconocidas por el resumen de costos.
const (
	CostCategoryDirect   = "Costo Directo"
	CostCategoryIndirect = "Costo Indirecto"
)

// Expense fila normalizada de la hoja "Gastos" del contador.
type Expense struct {
	Fecha       time.Time
	Semana      string
	TipoGasto   string
	Categoria   string
	TipoNegocio string
	Descripcion string
	MontoSoles  decimal.Decimal
	VentaID     string
}
