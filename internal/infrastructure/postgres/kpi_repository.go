package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/lux-ventas/internal/domain/entity"
	"github.com/jhoicas/lux-ventas/internal/domain/repository"
)

var _ repository.KPIRepository = (*KPIRepo)(nil)

// KPIRepo consultas de solo lectura para los indicadores del embudo.
// Va contra el pool: las consultas del tablero corren en paralelo.
type KPIRepo struct {
	pool *pgxpool.Pool
}

// NewKPIRepository construye el adaptador de KPIs.
func NewKPIRepository(pool *pgxpool.Pool) *KPIRepo {
	return &KPIRepo{pool: pool}
}

func (r *KPIRepo) CountVisits(ctx context.Context, start, end time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM visitas WHERE fecha BETWEEN $1 AND $2`, start, end).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("kpi.CountVisits: %w", err)
	}
	return n, nil
}

func (r *KPIRepo) CountOpportunities(ctx context.Context, start, end time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM oportunidades WHERE fecha_contacto BETWEEN $1 AND $2`, start, end).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("kpi.CountOpportunities: %w", err)
	}
	return n, nil
}

func (r *KPIRepo) CountActiveOpportunities(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM oportunidades WHERE estado = $1`, entity.OpportunityActive).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("kpi.CountActiveOpportunities: %w", err)
	}
	return n, nil
}

// SalesTotals usa COALESCE para devolver cero si no hay ventas en el período.
func (r *KPIRepo) SalesTotals(ctx context.Context, start, end time.Time) (repository.SalesTotals, error) {
	const query = `
	SELECT
	    COUNT(*)                        AS ventas,
	    COALESCE(SUM(monto_soles), 0)   AS monto_soles,
	    COALESCE(SUM(m2_real), 0)::BIGINT AS m2_real
	FROM ventas
	WHERE fecha_cierre BETWEEN $1 AND $2`

	var t repository.SalesTotals
	err := r.pool.QueryRow(ctx, query, start, end).Scan(&t.Count, &t.MontoSoles, &t.M2Real)
	if err != nil {
		return repository.SalesTotals{}, fmt.Errorf("kpi.SalesTotals: %w", err)
	}
	return t, nil
}

// ActiveByRep oportunidades activas agrupadas por vendedor, de mayor a menor carga.
func (r *KPIRepo) ActiveByRep(ctx context.Context) ([]repository.RepLoad, error) {
	const query = `
	SELECT asignado_a, COUNT(*) AS activas
	FROM oportunidades
	WHERE estado = $1
	GROUP BY asignado_a
	ORDER BY activas DESC, asignado_a`

	rows, err := r.pool.Query(ctx, query, entity.OpportunityActive)
	if err != nil {
		return nil, fmt.Errorf("kpi.ActiveByRep: %w", err)
	}
	defer rows.Close()

	var loads []repository.RepLoad
	for rows.Next() {
		var l repository.RepLoad
		if err := rows.Scan(&l.Rep, &l.Active); err != nil {
			return nil, fmt.Errorf("kpi.ActiveByRep scan: %w", err)
		}
		loads = append(loads, l)
	}
	return loads, rows.Err()
}
