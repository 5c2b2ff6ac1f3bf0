package repository

import (
	"context"

	"github.com/jhoicas/lux-ventas/internal/domain/entity"
)

// BusinessRepository define el puerto de persistencia para Business.
type BusinessRepository interface {
	// FindByIdentity busca por nombre y dirección sin distinguir mayúsculas. (nil, nil) si no existe.
	FindByIdentity(ctx context.Context, nombre, direccion string) (*entity.Business, error)
	// Create inserta y asigna ID. domain.ErrDuplicate si la identidad ya existe.
	Create(ctx context.Context, b *entity.Business) error
	UpdateTipoNegocio(ctx context.Context, id int64, tipoNegocio string) error
}
