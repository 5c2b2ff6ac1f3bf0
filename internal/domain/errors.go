package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrInvalidTransition se devuelve cuando una oportunidad no puede pasar al estado pedido.
	ErrInvalidTransition = fmt.Errorf("%w: transición de estado no permitida", ErrConflict)
)
