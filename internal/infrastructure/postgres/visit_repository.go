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

var _ repository.VisitRepository = (*VisitRepo)(nil)

const visitSelect = `
	SELECT v.id, v.business_id, v.fecha, v.semana, v.notas, v.created_at, v.updated_at,
	       b.nombre, b.tipo_negocio, b.direccion
	FROM visitas v
	JOIN businesses b ON b.id = v.business_id`

// VisitRepo implementación de VisitRepository.
type VisitRepo struct {
	q Querier
}

// NewVisitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVisitRepository(q Querier) *VisitRepo {
	return &VisitRepo{q: q}
}

func (r *VisitRepo) Create(ctx context.Context, v *entity.Visit) error {
	query := `
		INSERT INTO visitas (business_id, fecha, semana, notas)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, v.BusinessID, v.Fecha, v.Semana, v.Notas).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: negocio %d", domain.ErrNotFound, v.BusinessID)
		}
		return fmt.Errorf("insert visita: %w", err)
	}
	return nil
}

func (r *VisitRepo) Update(ctx context.Context, v *entity.Visit) error {
	query := `
		UPDATE visitas SET business_id = $2, fecha = $3, semana = $4, notas = $5, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, v.ID, v.BusinessID, v.Fecha, v.Semana, v.Notas)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: negocio %d", domain.ErrNotFound, v.BusinessID)
		}
		return fmt.Errorf("update visita: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: visita %d", domain.ErrNotFound, v.ID)
	}
	return nil
}

// Delete falla con violación de FK si alguna oportunidad sigue apuntando a la visita;
// el caso de uso desliga antes con OpportunityRepo.DetachVisit.
func (r *VisitRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM visitas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete visita: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: visita %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *VisitRepo) GetByID(ctx context.Context, id int64) (*entity.VisitRecord, error) {
	rec, err := scanVisit(r.q.QueryRow(ctx, visitSelect+` WHERE v.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get visita: %w", err)
	}
	return rec, nil
}

func (r *VisitRepo) ListByPeriod(ctx context.Context, start, end time.Time) ([]*entity.VisitRecord, error) {
	rows, err := r.q.Query(ctx, visitSelect+`
		WHERE v.fecha BETWEEN $1 AND $2
		ORDER BY v.fecha DESC, v.id DESC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list visitas: %w", err)
	}
	defer rows.Close()
	var list []*entity.VisitRecord
	for rows.Next() {
		rec, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visita: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func scanVisit(row pgx.Row) (*entity.VisitRecord, error) {
	var v entity.VisitRecord
	err := row.Scan(
		&v.ID, &v.BusinessID, &v.Fecha, &v.Semana, &v.Notas, &v.CreatedAt, &v.UpdatedAt,
		&v.Nombre, &v.TipoNegocio, &v.Direccion,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
