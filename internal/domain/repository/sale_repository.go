package repository

import (
	"context"
	"time"

	"github.com/jhoicas/lux-ventas/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas. No hay borrado.
type SaleRepository interface {
	// Create devuelve domain.ErrDuplicate si venta_id ya existe.
	Create(ctx context.Context, s *entity.Sale) error
	// Update no modifica VentaID, OportunidadID ni Estado.
	Update(ctx context.Context, s *entity.Sale) error
	GetByID(ctx context.Context, id int64) (*entity.SaleRecord, error)
	ListByPeriod(ctx context.Context, start, end time.Time) ([]*entity.SaleRecord, error)
	// LastVentaID devuelve el mayor venta_id con el prefijo dado, "" si no hay.
	LastVentaID(ctx context.Context, prefix string) (string, error)
}
