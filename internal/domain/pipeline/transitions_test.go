package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/lux-ventas/internal/domain"
	"github.com/jhoicas/lux-ventas/internal/domain/entity"
	"github.com/jhoicas/lux-ventas/internal/domain/pipeline"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, pipeline.CanTransition(entity.OpportunityActive, entity.OpportunityConverted))
	assert.True(t, pipeline.CanTransition(entity.OpportunityActive, entity.OpportunityLost))

	for _, final := range []string{entity.OpportunityConverted, entity.OpportunityLost} {
		for _, to := range []string{entity.OpportunityActive, entity.OpportunityConverted, entity.OpportunityLost} {
			assert.False(t, pipeline.CanTransition(final, to), "%s → %s", final, to)
		}
	}
	assert.False(t, pipeline.CanTransition("Desconocido", entity.OpportunityLost))
}

func TestCheckLoss(t *testing.T) {
	assert.NoError(t, pipeline.CheckLoss(entity.OpportunityActive, "Precio muy alto"))
	assert.ErrorIs(t, pipeline.CheckLoss(entity.OpportunityActive, "   "), domain.ErrInvalidInput)

	err := pipeline.CheckLoss(entity.OpportunityConverted, "Competencia")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
