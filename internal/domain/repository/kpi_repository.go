package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesTotals agregados de ventas de un período.
type SalesTotals struct {
	Count      int
	MontoSoles decimal.Decimal
	M2Real     int64
}

// RepLoad oportunidades activas por vendedor.
type RepLoad struct {
	Rep    string
	Active int
}

// KPIRepository consultas de solo lectura para los indicadores del embudo.
type KPIRepository interface {
	CountVisits(ctx context.Context, start, end time.Time) (int, error)
	// CountOpportunities cuenta las oportunidades contactadas en el período, en cualquier estado.
	CountOpportunities(ctx context.Context, start, end time.Time) (int, error)
	CountActiveOpportunities(ctx context.Context) (int, error)
	SalesTotals(ctx context.Context, start, end time.Time) (SalesTotals, error)
	ActiveByRep(ctx context.Context) ([]RepLoad, error)
}
