package entity

import "time"

// Business es la contraparte deduplicada (taller, detailing, factoría...) a la que apuntan
// visitas, oportunidades y ventas. Su identidad es (Nombre, Direccion) sin distinguir mayúsculas.
type Business struct {
	ID          int64
	Nombre      string
	TipoNegocio string
	Direccion   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BusinessInfo campos del negocio aplanados sobre cada registro leído.
type BusinessInfo struct {
	Nombre      string
	TipoNegocio string
	Direccion   string
}
