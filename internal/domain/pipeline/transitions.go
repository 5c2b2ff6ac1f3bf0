package pipeline

import (
	"fmt"
	"strings"

	"github.com/jhoicas/lux-ventas/internal/domain"
	"github.com/jhoicas/lux-ventas/internal/domain/entity"
)

// opportunityTransitions transiciones permitidas. Convertida y Perdida son finales;
// editar una oportunidad no cambia su estado.
var opportunityTransitions = map[string]map[string]bool{
	entity.OpportunityActive:    {entity.OpportunityConverted: true, entity.OpportunityLost: true},
	entity.OpportunityConverted: {},
	entity.OpportunityLost:      {},
}

// CanTransition indica si una oportunidad puede pasar de from a to.
func CanTransition(from, to string) bool {
	nexts, ok := opportunityTransitions[from]
	if !ok {
		return false
	}
	return nexts[to]
}

// CheckTransition devuelve domain.ErrInvalidTransition si el cambio no está permitido.
func CheckTransition(from, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, to)
	}
	return nil
}

// CheckLoss valida el paso a Perdida: motivo obligatorio y oportunidad activa.
func CheckLoss(estado, motivo string) error {
	if strings.TrimSpace(motivo) == "" {
		return fmt.Errorf("%w: el motivo de la pérdida es obligatorio", domain.ErrInvalidInput)
	}
	return CheckTransition(estado, entity.OpportunityLost)
}
