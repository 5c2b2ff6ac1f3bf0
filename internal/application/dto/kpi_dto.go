package dto

import "github.com/shopspring/decimal"

// KPISummaryDTO respuesta de GET /api/kpis.
type KPISummaryDTO struct {
	Desde Date `json:"desde"`
	Hasta Date `json:"hasta"`

	Visitas              int64           `json:"visitas"`
	OportunidadesNuevas  int64           `json:"oportunidades_nuevas"`
	OportunidadesActivas int64           `json:"oportunidades_activas"`
	Ventas               int64           `json:"ventas"`
	IngresosSoles        decimal.Decimal `json:"ingresos_soles"`
	M2Vendidos           int64           `json:"m2_vendidos"`

	// Porcentajes con un decimal; 0 cuando el denominador es 0.
	TasaVisitaOportunidad decimal.Decimal `json:"tasa_visita_oportunidad"`
	TasaOportunidadVenta  decimal.Decimal `json:"tasa_oportunidad_venta"`

	ActivasPorVendedor []RepLoadDTO `json:"activas_por_vendedor"`
}

// RepLoadDTO oportunidades activas de un vendedor.
type RepLoadDTO struct {
	Vendedor string `json:"vendedor"`
	Activas  int64  `json:"activas"`
}

// HomeDTO respuesta de GET /api/kpis/inicio.
type HomeDTO struct {
	Fecha                Date   `json:"fecha"`
	Semana               string `json:"semana"`
	VisitasSemana        int64  `json:"visitas_semana"`
	VisitasMes           int64  `json:"visitas_mes"`
	OportunidadesActivas int64  `json:"oportunidades_activas"`
	VentasSemana         int64  `json:"ventas_semana"`
	DateLabel            string `json:"date_label"` // ej: "Octubre 2026"
}
