package entity

import "time"

// Estados de una oportunidad.
const (
	OpportunityActive    = "Activa"
	OpportunityConverted = "Convertida"
	OpportunityLost      = "Perdida"
)

// Opportunity lead calificado, derivado o no de una visita.
type Opportunity struct {
	ID              int64
	BusinessID      int64
	FechaContacto   time.Time
	Semana          string
	M2Estimado      *int
	ProductoInteres *string
	SiguienteAccion *string
	VisitaID        *int64
	Source          *string
	NombreContacto  *string
	CargoContacto   *string
	CelularContacto *string
	EmailContacto   *string
	AsignadoA       string
	Estado          string
	MotivoPerdida   *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OpportunityRecord oportunidad con los datos de su negocio.
type OpportunityRecord struct {
	Opportunity
	BusinessInfo
}
