package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleClosed único estado que toma una venta al registrarse.
const SaleClosed = "Cerrada"

// Sale venta cerrada. VentaID (LUX-2026-001) es inmutable.
type Sale struct {
	ID               int64
	VentaID          string
	BusinessID       int64
	FechaCierre      time.Time
	Semana           string
	M2Real           int
	Producto         string
	MontoSoles       decimal.Decimal
	FechaInstalacion *time.Time
	OportunidadID    *int64
	Estado           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SaleRecord venta con los datos de su negocio.
type SaleRecord struct {
	Sale
	BusinessInfo
}
