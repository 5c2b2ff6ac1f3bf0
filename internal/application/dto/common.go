package dto

// PeriodQuery rango de fechas inclusivo (?desde=2026-01-01&hasta=2026-01-31).
type PeriodQuery struct {
	Desde Date `query:"desde"`
	Hasta Date `query:"hasta"`
}

// ListResponse envoltorio de listados con su total.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewList construye el envoltorio; nunca serializa items como null.
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
