package pipeline

import (
	"context"
	"errors"
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

// maxSaleIDAttempts reintentos de la transacción completa cuando otro alta tomó el mismo código.
const maxSaleIDAttempts = 5

// SaleUseCase registro y consulta de ventas cerradas.
type SaleUseCase struct {
	tx      TxRunner
	sales   repository.SaleRepository
	prefix  string
	now     Clock
	metrics ports.Metrics
	log     *logger.Logger
}

// SaleOption ajusta el caso de uso.
type SaleOption func(*SaleUseCase)

// WithClock fija el reloj usado para el año del código de venta.
func WithClock(c Clock) SaleOption {
	return func(uc *SaleUseCase) { uc.now = c }
}

// NewSaleUseCase construye el caso de uso. prefix vacío usa LUX.
func NewSaleUseCase(
	tx TxRunner,
	sales repository.SaleRepository,
	prefix string,
	metrics ports.Metrics,
	log *logger.Logger,
	opts ...SaleOption,
) *SaleUseCase {
	if prefix == "" {
		prefix = pipeline.DefaultSalePrefix
	}
	uc := &SaleUseCase{
		tx:      tx,
		sales:   sales,
		prefix:  prefix,
		now:     time.Now,
		metrics: metrics,
		log:     log.Component("ventas"),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Create registra la venta con el siguiente código LUX-<año>-NNN. Si viene ligada a una
// oportunidad, esta pasa de Activa a Convertida en la misma transacción.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	in.Normalize()
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	year := uc.now().Year()
	var (
		rec *entity.SaleRecord
		err error
	)
	for attempt := 1; attempt <= maxSaleIDAttempts; attempt++ {
		rec, err = uc.createOnce(ctx, in, year)
		if err == nil || !errors.Is(err, domain.ErrDuplicate) {
			break
		}
		uc.log.Warn().Int("intento", attempt).Msg("código de venta ocupado, reintentando")
	}
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordCreated(ports.KindSale)
	uc.log.Info().Str("venta_id", rec.VentaID).Str("monto", rec.MontoSoles.StringFixed(2)).Msg("venta registrada")
	out := dto.NewSaleResponse(rec)
	return &out, nil
}

func (uc *SaleUseCase) createOnce(ctx context.Context, in dto.CreateSaleRequest, year int) (*entity.SaleRecord, error) {
	var rec *entity.SaleRecord
	err := uc.tx.RunPipeline(ctx, func(r Repos) error {
		businessID, err := NewBusinessResolver(r.Businesses).Resolve(ctx, in.Nombre, in.TipoNegocio, in.Direccion)
		if err != nil {
			return err
		}
		if in.OportunidadID != nil {
			opp, err := reloadOpportunity(ctx, r.Opportunities, *in.OportunidadID)
			if err != nil {
				return err
			}
			if err := pipeline.CheckTransition(opp.Estado, entity.OpportunityConverted); err != nil {
				return err
			}
		}

		last, err := r.Sales.LastVentaID(ctx, pipeline.SaleIDPrefix(uc.prefix, year))
		if err != nil {
			return err
		}
		s := saleFromFields(in.SaleFields, businessID)
		s.VentaID = pipeline.NextSaleID(uc.prefix, year, last)
		s.OportunidadID = in.OportunidadID
		s.Estado = entity.SaleClosed
		if err := r.Sales.Create(ctx, s); err != nil {
			return err
		}

		if in.OportunidadID != nil {
			err := r.Opportunities.TransitionState(ctx, *in.OportunidadID,
				entity.OpportunityActive, entity.OpportunityConverted, nil)
			if err != nil {
				return err
			}
		}
		rec, err = reloadSale(ctx, r.Sales, s.ID)
		return err
	})
	return rec, err
}

// Update reescribe negocio, fecha, m², producto, monto e instalación.
// El código, la oportunidad y el estado no cambian.
func (uc *SaleUseCase) Update(ctx context.Context, id int64, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	in.Normalize()
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	var rec *entity.SaleRecord
	err := uc.tx.RunPipeline(ctx, func(r Repos) error {
		businessID, err := NewBusinessResolver(r.Businesses).Resolve(ctx, in.Nombre, in.TipoNegocio, in.Direccion)
		if err != nil {
			return err
		}
		s := saleFromFields(in.SaleFields, businessID)
		s.ID = id
		if err := r.Sales.Update(ctx, s); err != nil {
			return err
		}
		rec, err = reloadSale(ctx, r.Sales, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewSaleResponse(rec)
	return &out, nil
}

// PeekNextID código que tomaría la próxima venta. Solo informativo: el definitivo
// se calcula al registrar.
func (uc *SaleUseCase) PeekNextID(ctx context.Context) (string, error) {
	year := uc.now().Year()
	last, err := uc.sales.LastVentaID(ctx, pipeline.SaleIDPrefix(uc.prefix, year))
	if err != nil {
		return "", err
	}
	return pipeline.NextSaleID(uc.prefix, year, last), nil
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *SaleUseCase) GetByID(ctx context.Context, id int64) (*dto.SaleResponse, error) {
	rec, err := reloadSale(ctx, uc.sales, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewSaleResponse(rec)
	return &out, nil
}

// ListByPeriod ventas con fecha de cierre en [start, end].
func (uc *SaleUseCase) ListByPeriod(ctx context.Context, start, end time.Time) (dto.ListResponse[dto.SaleResponse], error) {
	if err := checkPeriod(start, end); err != nil {
		return dto.ListResponse[dto.SaleResponse]{}, err
	}
	list, err := uc.sales.ListByPeriod(ctx, start, end)
	if err != nil {
		return dto.ListResponse[dto.SaleResponse]{}, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, rec := range list {
		items = append(items, dto.NewSaleResponse(rec))
	}
	return dto.NewList(items), nil
}

func saleFromFields(f dto.SaleFields, businessID int64) *entity.Sale {
	return &entity.Sale{
		BusinessID:       businessID,
		FechaCierre:      f.FechaCierre.Time,
		Semana:           pipeline.WeekLabel(f.FechaCierre.Time),
		M2Real:           f.M2Real,
		Producto:         f.Producto,
		MontoSoles:       f.MontoSoles.Round(2),
		FechaInstalacion: f.FechaInstalacion.TimePtr(),
	}
}

func reloadSale(ctx context.Context, repo repository.SaleRepository, id int64) (*entity.SaleRecord, error) {
	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: venta %d", domain.ErrNotFound, id)
	}
	return rec, nil
}
