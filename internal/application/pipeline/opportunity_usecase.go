package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/lux-ventas/internal/application/dto"
	"github.com/jhoicas/lux-ventas/internal/application/ports"
	"github.com/jhoicas/lux-ventas/internal/domain"
	"github.com/jhoicas/lux-ventas/internal/domain/entity"
	"github.com/jhoicas/lux-ventas/internal/domain/pipeline"
	"github.com/jhoicas/lux-ventas/internal/domain/repository"
	"github.com/jhoicas/lux-ventas/pkg/logger"
)

// OpportunityUseCase gestiona oportunidades: alta con sorteo de vendedor, edición,
// reasignación manual y cierre como perdida.
type OpportunityUseCase struct {
	tx       TxRunner
	opps     repository.OpportunityRepository
	assigner *pipeline.Assigner
	notifier ports.Notifier
	metrics  ports.Metrics
	log      *logger.Logger
}

// NewOpportunityUseCase construye el caso de uso.
func NewOpportunityUseCase(
	tx TxRunner,
	opps repository.OpportunityRepository,
	assigner *pipeline.Assigner,
	notifier ports.Notifier,
	metrics ports.Metrics,
	log *logger.Logger,
) *OpportunityUseCase {
	return &OpportunityUseCase{
		tx:       tx,
		opps:     opps,
		assigner: assigner,
		notifier: notifier,
		metrics:  metrics,
		log:      log.Component("oportunidades"),
	}
}

// Create registra la oportunidad en estado Activa y la asigna a un vendedor por sorteo ponderado.
// El aviso al vendedor sale después del commit y nunca afecta el resultado.
func (uc *OpportunityUseCase) Create(ctx context.Context, in dto.CreateOpportunityRequest) (*dto.OpportunityResponse, error) {
	in.Normalize()
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	rep := uc.assigner.Assign()
	var rec *entity.OpportunityRecord
	err := uc.tx.RunPipeline(ctx, func(r Repos) error {
		businessID, err := NewBusinessResolver(r.Businesses).Resolve(ctx, in.Nombre, in.TipoNegocio, in.Direccion)
		if err != nil {
			return err
		}
		o := opportunityFromFields(in.OpportunityFields, businessID)
		o.VisitaID = in.VisitaID
		o.AsignadoA = rep
		o.Estado = entity.OpportunityActive
		if err := r.Opportunities.Create(ctx, o); err != nil {
			return err
		}
		rec, err = reloadOpportunity(ctx, r.Opportunities, o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordCreated(ports.KindOpportunity)
	uc.log.Info().Int64("oportunidad_id", rec.ID).Str("rep", rep).Msg("oportunidad asignada")
	uc.notifier.NotifyNewAssignment(ctx, assignmentOf(rec))

	out := dto.NewOpportunityResponse(rec)
	return &out, nil
}

// Update reescribe los campos editables. Con AsignadoA informado se reasigna manualmente
// (el nombre debe existir en la nómina); nunca se vuelve a sortear. Estado y visita no cambian.
func (uc *OpportunityUseCase) Update(ctx context.Context, id int64, in dto.UpdateOpportunityRequest) (*dto.OpportunityResponse, error) {
	in.Normalize()
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var requested string
	if in.AsignadoA != nil {
		name, ok := uc.assigner.Lookup(*in.AsignadoA)
		if !ok {
			return nil, fmt.Errorf("%w: vendedor desconocido %q", domain.ErrInvalidInput, strings.TrimSpace(*in.AsignadoA))
		}
		requested = name
	}

	var (
		rec      *entity.OpportunityRecord
		previous string
	)
	err := uc.tx.RunPipeline(ctx, func(r Repos) error {
		current, err := reloadOpportunity(ctx, r.Opportunities, id)
		if err != nil {
			return err
		}
		businessID, err := NewBusinessResolver(r.Businesses).Resolve(ctx, in.Nombre, in.TipoNegocio, in.Direccion)
		if err != nil {
			return err
		}
		o := opportunityFromFields(in.OpportunityFields, businessID)
		o.ID = id
		o.VisitaID = current.VisitaID
		o.Estado = current.Estado
		o.MotivoPerdida = current.MotivoPerdida
		o.AsignadoA = current.AsignadoA
		if requested != "" && requested != current.AsignadoA {
			previous = current.AsignadoA
			o.AsignadoA = requested
		}
		if err := r.Opportunities.Update(ctx, o); err != nil {
			return err
		}
		rec, err = reloadOpportunity(ctx, r.Opportunities, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if previous != "" {
		uc.log.Info().Int64("oportunidad_id", id).Str("rep", rec.AsignadoA).Str("rep_anterior", previous).Msg("oportunidad reasignada")
		uc.notifier.NotifyReassignment(ctx, assignmentOf(rec), previous)
	}
	out := dto.NewOpportunityResponse(rec)
	return &out, nil
}

// MarkLost cierra una oportunidad Activa como Perdida guardando el motivo.
func (uc *OpportunityUseCase) MarkLost(ctx context.Context, id int64, in dto.MarkLostRequest) (*dto.OpportunityResponse, error) {
	in.Motivo = strings.TrimSpace(in.Motivo)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	var rec *entity.OpportunityRecord
	err := uc.tx.RunPipeline(ctx, func(r Repos) error {
		current, err := reloadOpportunity(ctx, r.Opportunities, id)
		if err != nil {
			return err
		}
		if err := pipeline.CheckLoss(current.Estado, in.Motivo); err != nil {
			return err
		}
		motivo := in.Motivo
		if err := r.Opportunities.TransitionState(ctx, id, current.Estado, entity.OpportunityLost, &motivo); err != nil {
			return err
		}
		rec, err = reloadOpportunity(ctx, r.Opportunities, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("oportunidad_id", id).Msg("oportunidad perdida")
	out := dto.NewOpportunityResponse(rec)
	return &out, nil
}

// Delete elimina la oportunidad. Las ventas que la referencian quedan sin oportunidad.
func (uc *OpportunityUseCase) Delete(ctx context.Context, id int64) error {
	return uc.tx.RunPipeline(ctx, func(r Repos) error {
		return r.Opportunities.Delete(ctx, id)
	})
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *OpportunityUseCase) GetByID(ctx context.Context, id int64) (*dto.OpportunityResponse, error) {
	rec, err := reloadOpportunity(ctx, uc.opps, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewOpportunityResponse(rec)
	return &out, nil
}

// ListByPeriod oportunidades con fecha de contacto en [start, end].
func (uc *OpportunityUseCase) ListByPeriod(ctx context.Context, start, end time.Time) (dto.ListResponse[dto.OpportunityResponse], error) {
	if err := checkPeriod(start, end); err != nil {
		return dto.ListResponse[dto.OpportunityResponse]{}, err
	}
	list, err := uc.opps.ListByPeriod(ctx, start, end)
	if err != nil {
		return dto.ListResponse[dto.OpportunityResponse]{}, err
	}
	return opportunityList(list), nil
}

// ListActive oportunidades en estado Activa, contacto más reciente primero.
func (uc *OpportunityUseCase) ListActive(ctx context.Context) (dto.ListResponse[dto.OpportunityResponse], error) {
	list, err := uc.opps.ListActive(ctx)
	if err != nil {
		return dto.ListResponse[dto.OpportunityResponse]{}, err
	}
	return opportunityList(list), nil
}

func opportunityFromFields(f dto.OpportunityFields, businessID int64) *entity.Opportunity {
	return &entity.Opportunity{
		BusinessID:      businessID,
		FechaContacto:   f.FechaContacto.Time,
		Semana:          pipeline.WeekLabel(f.FechaContacto.Time),
		M2Estimado:      f.M2Estimado,
		ProductoInteres: f.ProductoInteres,
		SiguienteAccion: f.SiguienteAccion,
		Source:          f.Source,
		NombreContacto:  f.NombreContacto,
		CargoContacto:   f.CargoContacto,
		CelularContacto: f.CelularContacto,
		EmailContacto:   f.EmailContacto,
	}
}

func opportunityList(list []*entity.OpportunityRecord) dto.ListResponse[dto.OpportunityResponse] {
	items := make([]dto.OpportunityResponse, 0, len(list))
	for _, rec := range list {
		items = append(items, dto.NewOpportunityResponse(rec))
	}
	return dto.NewList(items)
}

func assignmentOf(rec *entity.OpportunityRecord) ports.Assignment {
	return ports.Assignment{
		OpportunityID:   rec.ID,
		Rep:             rec.AsignadoA,
		Negocio:         rec.Nombre,
		ProductoInteres: rec.ProductoInteres,
		M2Estimado:      rec.M2Estimado,
		Source:          rec.Source,
		NombreContacto:  rec.NombreContacto,
		CelularContacto: rec.CelularContacto,
		SiguienteAccion: rec.SiguienteAccion,
	}
}

func reloadOpportunity(ctx context.Context, repo repository.OpportunityRepository, id int64) (*entity.OpportunityRecord, error) {
	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: oportunidad %d", domain.ErrNotFound, id)
	}
	return rec, nil
}
