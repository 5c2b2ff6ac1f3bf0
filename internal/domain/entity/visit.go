package entity

import "time"

// Visit visita de prospección registrada por un vendedor.
type Visit struct {
	ID         int64
	BusinessID int64
	Fecha      time.Time
	Semana     string
	Notas      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// VisitRecord visita con los datos de su negocio.
type VisitRecord struct {
	Visit
	BusinessInfo
}
