package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/lux-ventas/internal/domain"
	"github.com/jhoicas/lux-ventas/internal/domain/entity"
	"github.com/jhoicas/lux-ventas/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación de BusinessRepository (usable con pool o tx).
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

// FindByIdentity busca por nombre y dirección sin distinguir mayúsculas.
func (r *BusinessRepo) FindByIdentity(ctx context.Context, nombre, direccion string) (*entity.Business, error) {
	query := `
		SELECT id, nombre, tipo_negocio, direccion, created_at, updated_at
		FROM businesses WHERE lower(nombre) = lower($1) AND lower(direccion) = lower($2)`
	var b entity.Business
	err := r.q.QueryRow(ctx, query, nombre, direccion).Scan(
		&b.ID, &b.Nombre, &b.TipoNegocio, &b.Direccion, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

// Create inserta el negocio. ON CONFLICT evita que el choque con el índice único
// aborte la transacción del llamador; en ese caso devuelve domain.ErrDuplicate.
func (r *BusinessRepo) Create(ctx context.Context, b *entity.Business) error {
	query := `
		INSERT INTO businesses (nombre, tipo_negocio, direccion)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, b.Nombre, b.TipoNegocio, b.Direccion).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return fmt.Errorf("%w: negocio %q en %q", domain.ErrDuplicate, b.Nombre, b.Direccion)
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// UpdateTipoNegocio sobrescribe el tipo con el último informado.
func (r *BusinessRepo) UpdateTipoNegocio(ctx context.Context, id int64, tipoNegocio string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE businesses SET tipo_negocio = $2, updated_at = now() WHERE id = $1`, id, tipoNegocio)
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: negocio %d", domain.ErrNotFound, id)
	}
	return nil
}
