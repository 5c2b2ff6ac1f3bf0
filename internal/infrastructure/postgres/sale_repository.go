package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/lux-ventas/internal/domain"
	"github.com/jhoicas/lux-ventas/internal/domain/entity"
	"github.com/jhoicas/lux-ventas/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleSelect = `
	SELECT s.id, s.venta_id, s.business_id, s.fecha_cierre, s.semana, s.m2_real, s.producto,
	       s.monto_soles, s.fecha_instalacion, s.oportunidad_id, s.estado, s.created_at, s.updated_at,
	       b.nombre, b.tipo_negocio, b.direccion
	FROM ventas s
	JOIN businesses b ON b.id = s.business_id`

// SaleRepo implementación de SaleRepository.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la venta. Si venta_id ya existe devuelve domain.ErrDuplicate sin abortar
// la transacción, para que el caso de uso pueda reintentar con otro código.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO ventas (venta_id, business_id, fecha_cierre, semana, m2_real, producto,
			monto_soles, fecha_instalacion, oportunidad_id, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (venta_id) DO NOTHING
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		s.VentaID, s.BusinessID, s.FechaCierre, s.Semana, s.M2Real, s.Producto,
		s.MontoSoles, s.FechaInstalacion, s.OportunidadID, s.Estado,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows), isUniqueViolation(err):
			return fmt.Errorf("%w: venta_id %s", domain.ErrDuplicate, s.VentaID)
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: oportunidad o negocio referenciado", domain.ErrNotFound)
		}
		return fmt.Errorf("insert venta: %w", err)
	}
	return nil
}

// Update no modifica venta_id, oportunidad_id ni estado.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE ventas SET business_id = $2, fecha_cierre = $3, semana = $4, m2_real = $5,
			producto = $6, monto_soles = $7, fecha_instalacion = $8, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.BusinessID, s.FechaCierre, s.Semana, s.M2Real, s.Producto, s.MontoSoles, s.FechaInstalacion,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: negocio %d", domain.ErrNotFound, s.BusinessID)
		}
		return fmt.Errorf("update venta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: venta %d", domain.ErrNotFound, s.ID)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.SaleRecord, error) {
	rec, err := scanSale(r.q.QueryRow(ctx, saleSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}
	return rec, nil
}

func (r *SaleRepo) ListByPeriod(ctx context.Context, start, end time.Time) ([]*entity.SaleRecord, error) {
	rows, err := r.q.Query(ctx, saleSelect+`
		WHERE s.fecha_cierre BETWEEN $1 AND $2
		ORDER BY s.fecha_cierre DESC, s.id DESC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleRecord
	for rows.Next() {
		rec, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// LastVentaID mayor código con el prefijo dado. Se ordena primero por longitud para que
// LUX-2026-1000 quede por encima de LUX-2026-999.
func (r *SaleRepo) LastVentaID(ctx context.Context, prefix string) (string, error) {
	query := `
		SELECT venta_id FROM ventas
		WHERE left(venta_id, length($1)) = $1
		ORDER BY length(venta_id) DESC, venta_id DESC
		LIMIT 1`
	var id string
	err := r.q.QueryRow(ctx, query, prefix).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last venta_id: %w", err)
	}
	return id, nil
}

func scanSale(row pgx.Row) (*entity.SaleRecord, error) {
	var s entity.SaleRecord
	err := row.Scan(
		&s.ID, &s.VentaID, &s.BusinessID, &s.FechaCierre, &s.Semana, &s.M2Real, &s.Producto,
		&s.MontoSoles, &s.FechaInstalacion, &s.OportunidadID, &s.Estado, &s.CreatedAt, &s.UpdatedAt,
		&s.Nombre, &s.TipoNegocio, &s.Direccion,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
