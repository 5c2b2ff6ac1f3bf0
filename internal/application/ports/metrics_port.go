package ports

// Metrics contadores de negocio expuestos en /metrics.
type Metrics interface {
	RecordCreated(kind string)
	RecordNotification(result string)
}

// Tipos de registro contados por RecordCreated.
const (
	KindVisit       = "visita"
	KindOpportunity = "oportunidad"
	KindSale        = "venta"
)

// Resultados de envío contados por RecordNotification.
const (
	NotificationSent     = "sent"
	NotificationFailed   = "failed"
	NotificationDisabled = "disabled"
	NotificationNoCreds  = "no_credentials"
	NotificationDropped  = "dropped"
)

// NopMetrics descarta las mediciones.
type NopMetrics struct{}

func (NopMetrics) RecordCreated(string)      {}
func (NopMetrics) RecordNotification(string) {}
