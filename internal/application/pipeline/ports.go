// Package pipeline contiene los casos de uso del embudo comercial:
// visitas, oportunidades y ventas, siempre ligadas a un negocio.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/lux-ventas/internal/domain"
	"github.com/jhoicas/lux-ventas/internal/domain/repository"
)

// Repos repositorios ligados a una misma transacción.
type Repos struct {
	Businesses    repository.BusinessRepository
	Visits        repository.VisitRepository
	Opportunities repository.OpportunityRepository
	Sales         repository.SaleRepository
}

// TxRunner ejecuta fn dentro de una transacción. Si fn devuelve error se hace rollback.
type TxRunner interface {
	RunPipeline(ctx context.Context, fn func(r Repos) error) error
}

// Clock fuente de la hora actual, inyectable en tests.
type Clock func() time.Time

// checkPeriod exige desde ≤ hasta.
func checkPeriod(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: desde y hasta son obligatorios", domain.ErrInvalidInput)
	}
	if start.After(end) {
		return fmt.Errorf("%w: desde (%s) es posterior a hasta (%s)",
			domain.ErrInvalidInput, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return nil
}
