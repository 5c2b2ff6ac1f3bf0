package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/lux-ventas/internal/application/dto"
	"github.com/jhoicas/lux-ventas/internal/application/ports"
	"github.com/jhoicas/lux-ventas/internal/domain"
	"github.com/jhoicas/lux-ventas/internal/domain/entity"
	"github.com/jhoicas/lux-ventas/internal/domain/pipeline"
	"github.com/jhoicas/lux-ventas/internal/domain/repository"
	"github.com/jhoicas/lux-ventas/pkg/logger"
)

// VisitUseCase alta, edición, baja y consulta de visitas.
type VisitUseCase struct {
	tx      TxRunner
	visits  repository.VisitRepository
	metrics ports.Metrics
	log     *logger.Logger
}

// NewVisitUseCase construye el caso de uso. visits se usa para lecturas fuera de transacción.
func NewVisitUseCase(tx TxRunner, visits repository.VisitRepository, metrics ports.Metrics, log *logger.Logger) *VisitUseCase {
	return &VisitUseCase{tx: tx, visits: visits, metrics: metrics, log: log.Component("visitas")}
}

// Create registra una visita resolviendo antes su negocio.
func (uc *VisitUseCase) Create(ctx context.Context, in dto.VisitRequest) (*dto.VisitResponse, error) {
	in.Normalize()
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	var rec *entity.VisitRecord
	err := uc.tx.RunPipeline(ctx, func(r Repos) error {
		businessID, err := NewBusinessResolver(r.Businesses).Resolve(ctx, in.Nombre, in.TipoNegocio, in.Direccion)
		if err != nil {
			return err
		}
		v := &entity.Visit{
			BusinessID: businessID,
			Fecha:      in.Fecha.Time,
			Semana:     pipeline.WeekLabel(in.Fecha.Time),
			Notas:      in.Notas,
		}
		if err := r.Visits.Create(ctx, v); err != nil {
			return err
		}
		rec, err = reloadVisit(ctx, r.Visits, v.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordCreated(ports.KindVisit)
	uc.log.Info().Int64("visita_id", rec.ID).Str("negocio", rec.Nombre).Msg("visita registrada")
	out := dto.NewVisitResponse(rec)
	return &out, nil
}

// Update reescribe negocio, fecha y notas. La semana se recalcula.
func (uc *VisitUseCase) Update(ctx context.Context, id int64, in dto.VisitRequest) (*dto.VisitResponse, error) {
	in.Normalize()
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	var rec *entity.VisitRecord
	err := uc.tx.RunPipeline(ctx, func(r Repos) error {
		businessID, err := NewBusinessResolver(r.Businesses).Resolve(ctx, in.Nombre, in.TipoNegocio, in.Direccion)
		if err != nil {
			return err
		}
		v := &entity.Visit{
			ID:         id,
			BusinessID: businessID,
			Fecha:      in.Fecha.Time,
			Semana:     pipeline.WeekLabel(in.Fecha.Time),
			Notas:      in.Notas,
		}
		if err := r.Visits.Update(ctx, v); err != nil {
			return err
		}
		rec, err = reloadVisit(ctx, r.Visits, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewVisitResponse(rec)
	return &out, nil
}

// Delete desvincula las oportunidades que referencian la visita y luego la elimina.
// Las oportunidades se conservan.
func (uc *VisitUseCase) Delete(ctx context.Context, id int64) error {
	err := uc.tx.RunPipeline(ctx, func(r Repos) error {
		if err := r.Opportunities.DetachVisit(ctx, id); err != nil {
			return err
		}
		return r.Visits.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("visita_id", id).Msg("visita eliminada")
	return nil
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *VisitUseCase) GetByID(ctx context.Context, id int64) (*dto.VisitResponse, error) {
	rec, err := reloadVisit(ctx, uc.visits, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewVisitResponse(rec)
	return &out, nil
}

// ListByPeriod visitas con fecha en [start, end], más recientes primero.
func (uc *VisitUseCase) ListByPeriod(ctx context.Context, start, end time.Time) (dto.ListResponse[dto.VisitResponse], error) {
	if err := checkPeriod(start, end); err != nil {
		return dto.ListResponse[dto.VisitResponse]{}, err
	}
	list, err := uc.visits.ListByPeriod(ctx, start, end)
	if err != nil {
		return dto.ListResponse[dto.VisitResponse]{}, err
	}
	items := make([]dto.VisitResponse, 0, len(list))
	for _, rec := range list {
		items = append(items, dto.NewVisitResponse(rec))
	}
	return dto.NewList(items), nil
}

func reloadVisit(ctx context.Context, repo repository.VisitRepository, id int64) (*entity.VisitRecord, error) {
	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: visita %d", domain.ErrNotFound, id)
	}
	return rec, nil
}
