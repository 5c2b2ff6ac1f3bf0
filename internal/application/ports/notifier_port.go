package ports

import "context"

// Assignment datos de una oportunidad que se comunican al vendedor asignado.
type Assignment struct {
	OpportunityID   int64
	Rep             string
	Negocio         string
	ProductoInteres *string
	M2Estimado      *int
	Source          *string
	NombreContacto  *string
	CelularContacto *string
	SiguienteAccion *string
}

// Notifier avisa a los vendedores de nuevas asignaciones.
// Las implementaciones nunca devuelven error: un aviso fallido se registra y se descarta,
// y jamás revierte la escritura que lo originó.
type Notifier interface {
	NotifyNewAssignment(ctx context.Context, a Assignment)
	NotifyReassignment(ctx context.Context, a Assignment, previousRep string)
}

// NopNotifier descarta todos los avisos.
type NopNotifier struct{}

func (NopNotifier) NotifyNewAssignment(context.Context, Assignment)        {}
func (NopNotifier) NotifyReassignment(context.Context, Assignment, string) {}

// MessageSender canal de salida de mensajes de WhatsApp (CallMeBot u otro).
// El contexto debe llevar un timeout para no bloquear al worker.
type MessageSender interface {
	Send(ctx context.Context, phone, apiKey, text string) error
}
