package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lux-ventas/internal/application/dto"
	"github.com/jhoicas/lux-ventas/internal/application/pipeline"
	"github.com/jhoicas/lux-ventas/internal/application/ports"
	"github.com/jhoicas/lux-ventas/internal/domain"
	"github.com/jhoicas/lux-ventas/internal/domain/entity"
	rules "github.com/jhoicas/lux-ventas/internal/domain/pipeline"
	"github.com/jhoicas/lux-ventas/pkg/logger"
)

type fixture struct {
	store    *memStore
	notifier *recordingNotifier
	metrics  *countingMetrics
	visits   *pipeline.VisitUseCase
	opps     *pipeline.OpportunityUseCase
	sales    *pipeline.SaleUseCase
}

// newFixture arma los casos de uso sobre memoria. El sorteo siempre cae en 0.5 (Sebastian).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	assigner, err := rules.NewAssigner(rules.DefaultReps, func() float64 { return 0.5 })
	require.NoError(t, err)
	f := &fixture{store: store, notifier: &recordingNotifier{}, metrics: &countingMetrics{}}
	log := logger.Nop()
	repos := store.repos()
	clock := func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }
	f.visits = pipeline.NewVisitUseCase(store, repos.Visits, f.metrics, log)
	f.opps = pipeline.NewOpportunityUseCase(store, repos.Opportunities, assigner, f.notifier, f.metrics, log)
	f.sales = pipeline.NewSaleUseCase(store, repos.Sales, "LUX", f.metrics, log, pipeline.WithClock(clock))
	return f
}

func day(y int, m time.Month, d int) dto.Date {
	return dto.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func str(s string) *string { return &s }

func business(nombre string) dto.BusinessFields {
	return dto.BusinessFields{Nombre: nombre, TipoNegocio: "Hotel", Direccion: "Av. Larco 123"}
}

func visitReq(nombre string, fecha dto.Date) dto.VisitRequest {
	return dto.VisitRequest{BusinessFields: business(nombre), Fecha: fecha}
}

func oppReq(nombre string, fecha dto.Date) dto.CreateOpportunityRequest {
	m2 := 120
	return dto.CreateOpportunityRequest{OpportunityFields: dto.OpportunityFields{
		BusinessFields:  business(nombre),
		FechaContacto:   fecha,
		M2Estimado:      &m2,
		ProductoInteres: str("Piso vinílico"),
		Source:          str("Referral"),
		NombreContacto:  str("Ana Torres"),
		CelularContacto: str("999888777"),
	}}
}

func saleReq(nombre string, fecha dto.Date) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{SaleFields: dto.SaleFields{
		BusinessFields: business(nombre),
		FechaCierre:    fecha,
		M2Real:         100,
		Producto:       "Piso vinílico",
		MontoSoles:     decimal.RequireFromString("10000.50"),
	}}
}

// ────────────────────────────────────────────────────────────────────────────
// Visitas
// ────────────────────────────────────────────────────────────────────────────

func TestVisitCreate_CalculaSemanaYDenormaliza(t *testing.T) {
	f := newFixture(t)
	in := visitReq("Hotel X", day(2026, 1, 1))
	in.Notas = str("  ")

	got, err := f.visits.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "W01", got.Semana)
	assert.Equal(t, "Hotel X", got.Nombre)
	assert.Equal(t, "Hotel", got.TipoNegocio)
	assert.Nil(t, got.Notas, "notas en blanco se guardan como nulas")
	assert.Equal(t, 1, f.metrics.created[ports.KindVisit])
}

func TestVisitCreate_ValidaCampos(t *testing.T) {
	f := newFixture(t)
	in := visitReq("", dto.Date{})

	_, err := f.visits.Create(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var verr *dto.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "nombre")
	assert.Contains(t, verr.Fields, "fecha")
	assert.Empty(t, f.store.visits)
}

func TestVisitUpdate_RecalculaSemanaYResuelveNegocio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.visits.Create(ctx, visitReq("Hotel X", day(2026, 1, 1)))
	require.NoError(t, err)

	in := visitReq("Hotel Y", day(2026, 2, 16))
	got, err := f.visits.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "W08", got.Semana)
	assert.Equal(t, "Hotel Y", got.Nombre)
	assert.NotEqual(t, created.BusinessID, got.BusinessID)
}

func TestVisitUpdate_Inexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.visits.Update(context.Background(), 99, visitReq("Hotel X", day(2026, 1, 1)))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVisitDelete_DesvinculaOportunidades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.visits.Create(ctx, visitReq("Hotel X", day(2026, 1, 5)))
	require.NoError(t, err)

	in := oppReq("Hotel X", day(2026, 1, 6))
	in.VisitaID = &v.ID
	o, err := f.opps.Create(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, o.VisitaID)

	require.NoError(t, f.visits.Delete(ctx, v.ID))

	_, err = f.visits.GetByID(ctx, v.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := f.opps.GetByID(ctx, o.ID)
	require.NoError(t, err, "la oportunidad sobrevive")
	assert.Nil(t, got.VisitaID)
}

func TestVisitDelete_Inexistente(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.visits.Delete(context.Background(), 42), domain.ErrNotFound)
}

func TestListByPeriod_IncluyeExtremos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, d := range []dto.Date{day(2026, 1, 31), day(2026, 2, 1), day(2026, 2, 14), day(2026, 2, 28), day(2026, 3, 1)} {
		_, err := f.visits.Create(ctx, visitReq("Hotel X", d))
		require.NoError(t, err)
	}

	got, err := f.visits.ListByPeriod(ctx, day(2026, 2, 1).Time, day(2026, 2, 28).Time)
	require.NoError(t, err)
	require.Equal(t, 3, got.Total)
	assert.Equal(t, "2026-02-28", got.Items[0].Fecha.String(), "más reciente primero")
	assert.Equal(t, "2026-02-01", got.Items[2].Fecha.String())
}

func TestListByPeriod_InicioPosteriorAlFin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := day(2026, 3, 1).Time, day(2026, 2, 1).Time

	_, err := f.visits.ListByPeriod(ctx, start, end)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.opps.ListByPeriod(ctx, start, end)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.sales.ListByPeriod(ctx, start, end)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ────────────────────────────────────────────────────────────────────────────
// Oportunidades
// ────────────────────────────────────────────────────────────────────────────

func TestOpportunityCreate_AsignaYNotifica(t *testing.T) {
	f := newFixture(t)
	got, err := f.opps.Create(context.Background(), oppReq("Hotel X", day(2026, 1, 13)))
	require.NoError(t, err)

	assert.Equal(t, "Sebastian", got.AsignadoA)
	assert.Equal(t, entity.OpportunityActive, got.Estado)
	assert.Equal(t, "W03", got.Semana)

	require.Len(t, f.notifier.calls, 1)
	call := f.notifier.calls[0]
	assert.Equal(t, got.ID, call.Assignment.OpportunityID)
	assert.Equal(t, "Sebastian", call.Assignment.Rep)
	assert.Equal(t, "Hotel X", call.Assignment.Negocio)
	assert.Empty(t, call.Previous)
}

func TestOpportunityCreate_SourceObligatorioYConocido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := oppReq("Hotel X", day(2026, 1, 13))
	in.Source = nil
	_, err := f.opps.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in.Source = str("Volante")
	_, err = f.opps.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in.Source = str("F2F Contact")
	in.EmailContacto = str("no-es-email")
	_, err = f.opps.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, f.notifier.calls)
}

func TestOpportunityCreate_VisitaInexistente(t *testing.T) {
	f := newFixture(t)
	in := oppReq("Hotel X", day(2026, 1, 13))
	id := int64(404)
	in.VisitaID = &id

	_, err := f.opps.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.store.opps)
	assert.Empty(t, f.store.businesses, "rollback del negocio creado")
}

func TestOpportunityUpdate_ReasignaYNotifica(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.opps.Create(ctx, oppReq("Hotel X", day(2026, 1, 13)))
	require.NoError(t, err)

	in := dto.UpdateOpportunityRequest{OpportunityFields: oppReq("Hotel X", day(2026, 1, 14)).OpportunityFields}
	in.AsignadoA = str("adolfo")
	got, err := f.opps.Update(ctx, o.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Adolfo", got.AsignadoA, "nombre canónico de la nómina")
	require.Len(t, f.notifier.calls, 2)
	assert.Equal(t, "Adolfo", f.notifier.calls[1].Assignment.Rep)
	assert.Equal(t, "Sebastian", f.notifier.calls[1].Previous)
}

func TestOpportunityUpdate_SinAsignadoConservaVendedor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.opps.Create(ctx, oppReq("Hotel X", day(2026, 1, 13)))
	require.NoError(t, err)

	in := dto.UpdateOpportunityRequest{OpportunityFields: oppReq("Hotel X", day(2026, 1, 13)).OpportunityFields}
	in.SiguienteAccion = str("Enviar cotización")
	got, err := f.opps.Update(ctx, o.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Sebastian", got.AsignadoA)
	assert.Equal(t, "Enviar cotización", *got.SiguienteAccion)
	assert.Len(t, f.notifier.calls, 1, "sin reasignación no hay aviso")
}

func TestOpportunityUpdate_VendedorInvalido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.opps.Create(ctx, oppReq("Hotel X", day(2026, 1, 13)))
	require.NoError(t, err)

	for _, name := range []string{"", "  ", "Pedro"} {
		in := dto.UpdateOpportunityRequest{OpportunityFields: oppReq("Hotel X", day(2026, 1, 13)).OpportunityFields}
		in.AsignadoA = str(name)
		_, err := f.opps.Update(ctx, o.ID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

func TestOpportunityMarkLost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.opps.Create(ctx, oppReq("Hotel X", day(2026, 1, 13)))
	require.NoError(t, err)

	_, err = f.opps.MarkLost(ctx, o.ID, dto.MarkLostRequest{Motivo: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.opps.MarkLost(ctx, o.ID, dto.MarkLostRequest{Motivo: "Eligió a la competencia"})
	require.NoError(t, err)
	assert.Equal(t, entity.OpportunityLost, got.Estado)
	require.NotNil(t, got.MotivoPerdida)
	assert.Equal(t, "Eligió a la competencia", *got.MotivoPerdida)

	_, err = f.opps.MarkLost(ctx, o.ID, dto.MarkLostRequest{Motivo: "otra vez"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, err, domain.ErrConflict)

	active, err := f.opps.ListActive(ctx)
	require.NoError(t, err)
	assert.Zero(t, active.Total)
}

func TestOpportunityUpdate_NoCambiaEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.opps.Create(ctx, oppReq("Hotel X", day(2026, 1, 13)))
	require.NoError(t, err)
	_, err = f.opps.MarkLost(ctx, o.ID, dto.MarkLostRequest{Motivo: "Sin presupuesto"})
	require.NoError(t, err)

	in := dto.UpdateOpportunityRequest{OpportunityFields: oppReq("Hotel X", day(2026, 1, 20)).OpportunityFields}
	got, err := f.opps.Update(ctx, o.ID, in)
	require.NoError(t, err)
	assert.Equal(t, entity.OpportunityLost, got.Estado)
	assert.Equal(t, "Sin presupuesto", *got.MotivoPerdida)
}

func TestOpportunityDelete_VentaQuedaSinOportunidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.opps.Create(ctx, oppReq("Hotel X", day(2026, 1, 13)))
	require.NoError(t, err)
	in := saleReq("Hotel X", day(2026, 2, 2))
	in.OportunidadID = &o.ID
	s, err := f.sales.Create(ctx, in)
	require.NoError(t, err)

	require.NoError(t, f.opps.Delete(ctx, o.ID))
	got, err := f.sales.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got.OportunidadID)

	assert.ErrorIs(t, f.opps.Delete(ctx, o.ID), domain.ErrNotFound)
}

// ────────────────────────────────────────────────────────────────────────────
// Ventas
// ────────────────────────────────────────────────────────────────────────────

func TestSaleCreate_CodigosConsecutivos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		s, err := f.sales.Create(ctx, saleReq("Hotel X", day(2026, 2, 2)))
		require.NoError(t, err)
		ids = append(ids, s.VentaID)
	}
	assert.Equal(t, []string{"LUX-2026-001", "LUX-2026-002", "LUX-2026-003"}, ids)

	next, err := f.sales.PeekNextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "LUX-2026-004", next)
	assert.Equal(t, 3, f.metrics.created[ports.KindSale])
}

func TestSaleCreate_ReintentaSiElCodigoYaExiste(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.sales.Create(ctx, saleReq("Hotel X", day(2026, 2, 2)))
	require.NoError(t, err)

	// La primera lectura no ve la venta ya registrada: choca contra el índice único.
	f.store.staleLastVentaID = 1
	reads := f.store.lastVentaReads
	s, err := f.sales.Create(ctx, saleReq("Hotel Y", day(2026, 2, 3)))
	require.NoError(t, err)
	assert.Equal(t, "LUX-2026-002", s.VentaID)
	assert.Equal(t, 2, f.store.lastVentaReads-reads)
	assert.Len(t, f.store.sales, 2)
}

func TestSaleCreate_AgotaReintentos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.sales.Create(ctx, saleReq("Hotel X", day(2026, 2, 2)))
	require.NoError(t, err)

	f.store.staleLastVentaID = 10
	_, err = f.sales.Create(ctx, saleReq("Hotel Y", day(2026, 2, 3)))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, f.store.sales, 1)
}

func TestSaleCreate_ConvierteOportunidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.opps.Create(ctx, oppReq("Hotel X", day(2026, 1, 13)))
	require.NoError(t, err)

	in := saleReq("Hotel X", day(2026, 2, 2))
	in.OportunidadID = &o.ID
	s, err := f.sales.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleClosed, s.Estado)
	assert.Equal(t, o.ID, *s.OportunidadID)

	got, err := f.opps.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OpportunityConverted, got.Estado)

	// Convertida es final.
	_, err = f.sales.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.opps.MarkLost(ctx, o.ID, dto.MarkLostRequest{Motivo: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Len(t, f.store.sales, 1)
}

func TestSaleCreate_OportunidadPerdidaNoSeConvierte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.opps.Create(ctx, oppReq("Hotel X", day(2026, 1, 13)))
	require.NoError(t, err)
	_, err = f.opps.MarkLost(ctx, o.ID, dto.MarkLostRequest{Motivo: "Sin presupuesto"})
	require.NoError(t, err)

	in := saleReq("Hotel X", day(2026, 2, 2))
	in.OportunidadID = &o.ID
	_, err = f.sales.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, f.store.sales)
}

func TestSaleCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := saleReq("Hotel X", day(2026, 2, 2))
	in.M2Real = 0
	_, err := f.sales.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = saleReq("Hotel X", day(2026, 2, 2))
	in.MontoSoles = decimal.Zero
	_, err = f.sales.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = saleReq("Hotel X", day(2026, 2, 2))
	in.Producto = "   "
	_, err = f.sales.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, f.store.sales)
}

func TestSaleUpdate_NoCambiaCodigo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s, err := f.sales.Create(ctx, saleReq("Hotel X", day(2026, 2, 2)))
	require.NoError(t, err)

	in := dto.UpdateSaleRequest{SaleFields: saleReq("Hotel X", day(2026, 2, 9)).SaleFields}
	in.MontoSoles = decimal.RequireFromString("12500")
	inst := day(2026, 3, 1)
	in.FechaInstalacion = &inst
	got, err := f.sales.Update(ctx, s.ID, in)
	require.NoError(t, err)

	assert.Equal(t, s.VentaID, got.VentaID)
	assert.Equal(t, "W07", got.Semana)
	assert.True(t, decimal.RequireFromString("12500").Equal(got.MontoSoles))
	require.NotNil(t, got.FechaInstalacion)
	assert.Equal(t, "2026-03-01", got.FechaInstalacion.String())

	_, err = f.sales.Update(ctx, 999, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
