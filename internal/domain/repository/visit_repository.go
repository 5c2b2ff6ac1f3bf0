package repository

import (
	"context"
	"time"

	"github.com/jhoicas/lux-ventas/internal/domain/entity"
)

// VisitRepository define el puerto de persistencia para visitas.
type VisitRepository interface {
	Create(ctx context.Context, v *entity.Visit) error
	// Update devuelve domain.ErrNotFound si la visita no existe.
	Update(ctx context.Context, v *entity.Visit) error
	// Delete idem.
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entity.VisitRecord, error)
	// ListByPeriod incluye ambos extremos; orden descendente por fecha.
	ListByPeriod(ctx context.Context, start, end time.Time) ([]*entity.VisitRecord, error)
}
