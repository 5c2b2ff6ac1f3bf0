// Package analytics contiene los indicadores del embudo comercial
// (pantallas de Inicio y KPIs).
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lux-ventas/internal/application/dto"
	"github.com/jhoicas/lux-ventas/internal/domain"
	"github.com/jhoicas/lux-ventas/internal/domain/pipeline"
	"github.com/jhoicas/lux-ventas/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// KPIUseCase calcula los indicadores del período y el resumen de la pantalla de inicio.
//
// Fuente de datos: KPIRepository (consultas read-only).
type KPIUseCase struct {
	repo repository.KPIRepository
	reps []string
}

// NewKPIUseCase construye el caso de uso. reps es la nómina de vendedores: los que no tienen
// oportunidades activas aparecen con cero.
func NewKPIUseCase(repo repository.KPIRepository, reps []string) *KPIUseCase {
	return &KPIUseCase{repo: repo, reps: reps}
}

type countResult struct {
	n   int
	err error
}

func count(ch chan<- countResult, fn func() (int, error)) {
	n, err := fn()
	ch <- countResult{n, err}
}

// Summary indicadores del período [start, end].
//
// Cinco consultas en paralelo:
//  1. CountVisits(período)
//  2. CountOpportunities(período)
//  3. CountActiveOpportunities()
//  4. SalesTotals(período)
//  5. ActiveByRep()
func (uc *KPIUseCase) Summary(ctx context.Context, start, end time.Time) (*dto.KPISummaryDTO, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: desde es posterior a hasta", domain.ErrInvalidInput)
	}

	type salesResult struct {
		totals repository.SalesTotals
		err    error
	}
	type repsResult struct {
		loads []repository.RepLoad
		err   error
	}

	visitsCh := make(chan countResult, 1)
	oppsCh := make(chan countResult, 1)
	activeCh := make(chan countResult, 1)
	salesCh := make(chan salesResult, 1)
	repsCh := make(chan repsResult, 1)

	go count(visitsCh, func() (int, error) { return uc.repo.CountVisits(ctx, start, end) })
	go count(oppsCh, func() (int, error) { return uc.repo.CountOpportunities(ctx, start, end) })
	go count(activeCh, func() (int, error) { return uc.repo.CountActiveOpportunities(ctx) })
	go func() {
		t, err := uc.repo.SalesTotals(ctx, start, end)
		salesCh <- salesResult{t, err}
	}()
	go func() {
		loads, err := uc.repo.ActiveByRep(ctx)
		repsCh <- repsResult{loads, err}
	}()

	visits, opps, active := <-visitsCh, <-oppsCh, <-activeCh
	sales, reps := <-salesCh, <-repsCh

	if visits.err != nil {
		return nil, fmt.Errorf("kpis: visitas: %w", visits.err)
	}
	if opps.err != nil {
		return nil, fmt.Errorf("kpis: oportunidades: %w", opps.err)
	}
	if active.err != nil {
		return nil, fmt.Errorf("kpis: oportunidades activas: %w", active.err)
	}
	if sales.err != nil {
		return nil, fmt.Errorf("kpis: ventas: %w", sales.err)
	}
	if reps.err != nil {
		return nil, fmt.Errorf("kpis: carga por vendedor: %w", reps.err)
	}

	return &dto.KPISummaryDTO{
		Desde:                 dto.NewDate(start),
		Hasta:                 dto.NewDate(end),
		Visitas:               int64(visits.n),
		OportunidadesNuevas:   int64(opps.n),
		OportunidadesActivas:  int64(active.n),
		Ventas:                int64(sales.totals.Count),
		IngresosSoles:         sales.totals.MontoSoles.Round(2),
		M2Vendidos:            sales.totals.M2Real,
		TasaVisitaOportunidad: Rate(opps.n, visits.n),
		TasaOportunidadVenta:  Rate(sales.totals.Count, opps.n),
		ActivasPorVendedor:    uc.repLoads(reps.loads),
	}, nil
}

// Home resumen de la pantalla de inicio: semana ISO en curso (lunes → hoy) y mes a la fecha.
func (uc *KPIUseCase) Home(ctx context.Context, today time.Time) (*dto.HomeDTO, error) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := pipeline.WeekStart(today)
	monthStart := pipeline.MonthStart(today)

	type salesResult struct {
		totals repository.SalesTotals
		err    error
	}
	weekCh := make(chan countResult, 1)
	monthCh := make(chan countResult, 1)
	activeCh := make(chan countResult, 1)
	salesCh := make(chan salesResult, 1)

	go count(weekCh, func() (int, error) { return uc.repo.CountVisits(ctx, weekStart, today) })
	go count(monthCh, func() (int, error) { return uc.repo.CountVisits(ctx, monthStart, today) })
	go count(activeCh, func() (int, error) { return uc.repo.CountActiveOpportunities(ctx) })
	go func() {
		t, err := uc.repo.SalesTotals(ctx, weekStart, today)
		salesCh <- salesResult{t, err}
	}()

	week, month, active, sales := <-weekCh, <-monthCh, <-activeCh, <-salesCh
	for _, err := range []error{week.err, month.err, active.err, sales.err} {
		if err != nil {
			return nil, fmt.Errorf("inicio: %w", err)
		}
	}

	return &dto.HomeDTO{
		Fecha:                dto.NewDate(today),
		Semana:               pipeline.WeekLabel(today),
		VisitasSemana:        int64(week.n),
		VisitasMes:           int64(month.n),
		OportunidadesActivas: int64(active.n),
		VentasSemana:         int64(sales.totals.Count),
		DateLabel:            monthLabel(today),
	}, nil
}

// Rate porcentaje num/den con un decimal; cero si den es cero.
func Rate(num, den int) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(num)).Mul(hundred).Div(decimal.NewFromInt(int64(den))).Round(1)
}

// repLoads completa la nómina con ceros y agrega al final vendedores fuera de ella
// (oportunidades asignadas antes de un cambio de SALES_REPS).
func (uc *KPIUseCase) repLoads(loads []repository.RepLoad) []dto.RepLoadDTO {
	byRep := make(map[string]int, len(loads))
	for _, l := range loads {
		byRep[l.Rep] = l.Active
	}
	out := make([]dto.RepLoadDTO, 0, len(uc.reps)+len(loads))
	seen := make(map[string]bool, len(uc.reps))
	for _, name := range uc.reps {
		out = append(out, dto.RepLoadDTO{Vendedor: name, Activas: int64(byRep[name])})
		seen[name] = true
	}
	for _, l := range loads {
		if !seen[l.Rep] {
			out = append(out, dto.RepLoadDTO{Vendedor: l.Rep, Activas: int64(l.Active)})
		}
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
