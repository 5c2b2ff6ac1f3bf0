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

var _ repository.OpportunityRepository = (*OpportunityRepo)(nil)

const opportunitySelect = `
	SELECT o.id, o.business_id, o.fecha_contacto, o.semana, o.m2_estimado, o.producto_interes,
	       o.siguiente_accion, o.visita_id, o.source, o.nombre_contacto, o.cargo_contacto,
	       o.celular_contacto, o.email_contacto, o.asignado_a, o.estado, o.motivo_perdida,
	       o.created_at, o.updated_at,
	       b.nombre, b.tipo_negocio, b.direccion
	FROM oportunidades o
	JOIN businesses b ON b.id = o.business_id`

// OpportunityRepo implementación de OpportunityRepository.
type OpportunityRepo struct {
	q Querier
}

// NewOpportunityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOpportunityRepository(q Querier) *OpportunityRepo {
	return &OpportunityRepo{q: q}
}

// Create inserta la oportunidad. Una visita o negocio inexistente es domain.ErrNotFound.
func (r *OpportunityRepo) Create(ctx context.Context, o *entity.Opportunity) error {
	query := `
		INSERT INTO oportunidades (business_id, fecha_contacto, semana, m2_estimado, producto_interes,
			siguiente_accion, visita_id, source, nombre_contacto, cargo_contacto, celular_contacto,
			email_contacto, asignado_a, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		o.BusinessID, o.FechaContacto, o.Semana, o.M2Estimado, o.ProductoInteres,
		o.SiguienteAccion, o.VisitaID, o.Source, o.NombreContacto, o.CargoContacto, o.CelularContacto,
		o.EmailContacto, o.AsignadoA, o.Estado,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: visita o negocio referenciado", domain.ErrNotFound)
		}
		return fmt.Errorf("insert oportunidad: %w", err)
	}
	return nil
}

// Update reescribe los campos editables; estado, visita_id y motivo_perdida quedan como están.
func (r *OpportunityRepo) Update(ctx context.Context, o *entity.Opportunity) error {
	query := `
		UPDATE oportunidades SET business_id = $2, fecha_contacto = $3, semana = $4, m2_estimado = $5,
			producto_interes = $6, siguiente_accion = $7, source = $8, nombre_contacto = $9,
			cargo_contacto = $10, celular_contacto = $11, email_contacto = $12, asignado_a = $13,
			updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, o.BusinessID, o.FechaContacto, o.Semana, o.M2Estimado,
		o.ProductoInteres, o.SiguienteAccion, o.Source, o.NombreContacto,
		o.CargoContacto, o.CelularContacto, o.EmailContacto, o.AsignadoA,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: negocio %d", domain.ErrNotFound, o.BusinessID)
		}
		return fmt.Errorf("update oportunidad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: oportunidad %d", domain.ErrNotFound, o.ID)
	}
	return nil
}

// Delete elimina la oportunidad; las ventas que la referencian quedan con oportunidad_id NULL.
func (r *OpportunityRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM oportunidades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete oportunidad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: oportunidad %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *OpportunityRepo) GetByID(ctx context.Context, id int64) (*entity.OpportunityRecord, error) {
	rec, err := scanOpportunity(r.q.QueryRow(ctx, opportunitySelect+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get oportunidad: %w", err)
	}
	return rec, nil
}

func (r *OpportunityRepo) ListByPeriod(ctx context.Context, start, end time.Time) ([]*entity.OpportunityRecord, error) {
	return r.list(ctx, opportunitySelect+`
		WHERE o.fecha_contacto BETWEEN $1 AND $2
		ORDER BY o.fecha_contacto DESC, o.id DESC`, start, end)
}

// ListActive oportunidades en estado Activa, la de contacto más reciente primero.
func (r *OpportunityRepo) ListActive(ctx context.Context) ([]*entity.OpportunityRecord, error) {
	return r.list(ctx, opportunitySelect+`
		WHERE o.estado = $1
		ORDER BY o.fecha_contacto DESC, o.id DESC`, entity.OpportunityActive)
}

func (r *OpportunityRepo) list(ctx context.Context, query string, args ...any) ([]*entity.OpportunityRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list oportunidades: %w", err)
	}
	defer rows.Close()
	var list []*entity.OpportunityRecord
	for rows.Next() {
		rec, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan oportunidad: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// TransitionState cambia el estado solo si el actual es from (UPDATE condicional, sin carrera).
func (r *OpportunityRepo) TransitionState(ctx context.Context, id int64, from, to string, motivo *string) error {
	query := `
		UPDATE oportunidades SET estado = $3, motivo_perdida = COALESCE($4, motivo_perdida), updated_at = now()
		WHERE id = $1 AND estado = $2`
	tag, err := r.q.Exec(ctx, query, id, from, to, motivo)
	if err != nil {
		return fmt.Errorf("update estado oportunidad: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current string
	err = r.q.QueryRow(ctx, `SELECT estado FROM oportunidades WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: oportunidad %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("get estado oportunidad: %w", err)
	}
	return fmt.Errorf("%w: oportunidad %d en estado %s", domain.ErrConflict, id, current)
}

// DetachVisit deja en NULL visita_id de las oportunidades que apuntan a la visita.
func (r *OpportunityRepo) DetachVisit(ctx context.Context, visitID int64) error {
	_, err := r.q.Exec(ctx,
		`UPDATE oportunidades SET visita_id = NULL, updated_at = now() WHERE visita_id = $1`, visitID)
	if err != nil {
		return fmt.Errorf("detach visita: %w", err)
	}
	return nil
}

func scanOpportunity(row pgx.Row) (*entity.OpportunityRecord, error) {
	var o entity.OpportunityRecord
	err := row.Scan(
		&o.ID, &o.BusinessID, &o.FechaContacto, &o.Semana, &o.M2Estimado, &o.ProductoInteres,
		&o.SiguienteAccion, &o.VisitaID, &o.Source, &o.NombreContacto, &o.CargoContacto,
		&o.CelularContacto, &o.EmailContacto, &o.AsignadoA, &o.Estado, &o.MotivoPerdida,
		&o.CreatedAt, &o.UpdatedAt,
		&o.Nombre, &o.TipoNegocio, &o.Direccion,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
