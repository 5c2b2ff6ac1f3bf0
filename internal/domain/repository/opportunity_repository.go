package repository

import (
	"context"
	"time"

	"github.com/jhoicas/lux-ventas/internal/domain/entity"
)

// OpportunityRepository define el puerto de persistencia para oportunidades.
type OpportunityRepository interface {
	Create(ctx context.Context, o *entity.Opportunity) error
	// Update reescribe los campos editables. No toca Estado ni VisitaID.
	Update(ctx context.Context, o *entity.Opportunity) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entity.OpportunityRecord, error)
	ListByPeriod(ctx context.Context, start, end time.Time) ([]*entity.OpportunityRecord, error)
	ListActive(ctx context.Context) ([]*entity.OpportunityRecord, error)
	// TransitionState cambia el estado solo si el actual es from. domain.ErrConflict si no coincide.
	TransitionState(ctx context.Context, id int64, from, to string, motivo *string) error
	// DetachVisit deja en NULL visita_id de las oportunidades que apuntan a la visita.
	DetachVisit(ctx context.Context, visitID int64) error
}
