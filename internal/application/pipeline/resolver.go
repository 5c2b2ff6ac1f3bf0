package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/lux-ventas/internal/domain"
	"github.com/jhoicas/lux-ventas/internal/domain/entity"
	"github.com/jhoicas/lux-ventas/internal/domain/repository"
)

const maxResolveAttempts = 3

// BusinessResolver obtiene o crea el negocio identificado por (nombre, dirección),
// sin distinguir mayúsculas. El tipo de negocio se sobrescribe en cada resolución.
type BusinessResolver struct {
	repo repository.BusinessRepository
}

// NewBusinessResolver construye el resolver sobre el repositorio de la transacción en curso.
func NewBusinessResolver(repo repository.BusinessRepository) *BusinessResolver {
	return &BusinessResolver{repo: repo}
}

// Resolve devuelve el ID del negocio. Si otra escritura concurrente lo inserta primero
// (domain.ErrDuplicate) se vuelve a buscar.
func (r *BusinessResolver) Resolve(ctx context.Context, nombre, tipoNegocio, direccion string) (int64, error) {
	nombre = strings.TrimSpace(nombre)
	tipoNegocio = strings.TrimSpace(tipoNegocio)
	direccion = strings.TrimSpace(direccion)
	if nombre == "" || tipoNegocio == "" || direccion == "" {
		return 0, fmt.Errorf("%w: nombre, tipo de negocio y dirección son obligatorios", domain.ErrInvalidInput)
	}

	for attempt := 0; attempt < maxResolveAttempts; attempt++ {
		existing, err := r.repo.FindByIdentity(ctx, nombre, direccion)
		if err != nil {
			return 0, fmt.Errorf("resolver negocio: buscar: %w", err)
		}
		if existing != nil {
			if err := r.repo.UpdateTipoNegocio(ctx, existing.ID, tipoNegocio); err != nil {
				return 0, fmt.Errorf("resolver negocio: actualizar tipo: %w", err)
			}
			return existing.ID, nil
		}

		b := &entity.Business{Nombre: nombre, TipoNegocio: tipoNegocio, Direccion: direccion}
		err = r.repo.Create(ctx, b)
		if err == nil {
			return b.ID, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return 0, fmt.Errorf("resolver negocio: crear: %w", err)
		}
	}
	return 0, fmt.Errorf("%w: no se pudo resolver el negocio %q", domain.ErrConflict, nombre)
}
