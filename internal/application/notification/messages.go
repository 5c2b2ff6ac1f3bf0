package notification

import (
	"fmt"
	"strings"

	"github.com/jhoicas/lux-ventas/internal/application/ports"
)

// NewAssignmentMessage texto del aviso de oportunidad recién asignada.
func NewAssignmentMessage(a ports.Assignment) string {
	var b strings.Builder
	b.WriteString("🎯 *Nueva Oportunidad Asignada* | Lux Dashboard\n\n")
	fmt.Fprintf(&b, "Hola %s! Se te acaba de asignar una nueva oportunidad.\n\n", a.Rep)
	fmt.Fprintf(&b, "🏢 *Negocio:* %s\n", a.Negocio)
	fmt.Fprintf(&b, "🆔 *ID Oportunidad:* #%d\n", a.OpportunityID)
	fmt.Fprintf(&b, "📦 *Producto:* %s\n", or(a.ProductoInteres, "Sin especificar"))
	fmt.Fprintf(&b, "📐 *m² Estimado:* %s\n", m2(a.M2Estimado))
	fmt.Fprintf(&b, "📣 *Fuente:* %s\n", or(a.Source, "-"))
	fmt.Fprintf(&b, "👤 *Contacto:* %s | %s\n", or(a.NombreContacto, "Sin nombre"), or(a.CelularContacto, "Sin número"))
	fmt.Fprintf(&b, "➡️ *Siguiente Acción:* %s\n\n", or(a.SiguienteAccion, "Pendiente definir"))
	b.WriteString("Ingresa al Dashboard para ver los detalles completos.")
	return b.String()
}

// ReassignmentMessage texto del aviso de reasignación al nuevo vendedor.
func ReassignmentMessage(a ports.Assignment, previousRep string) string {
	var b strings.Builder
	b.WriteString("🔄 *Reasignación de Oportunidad* | Lux Dashboard\n\n")
	fmt.Fprintf(&b, "Hola %s! La oportunidad #%d ha sido reasignada a ti (antes: %s).\n\n", a.Rep, a.OpportunityID, previousRep)
	fmt.Fprintf(&b, "🏢 *Negocio:* %s\n", a.Negocio)
	fmt.Fprintf(&b, "📦 *Producto:* %s\n", or(a.ProductoInteres, "Sin especificar"))
	fmt.Fprintf(&b, "📐 *m² Estimado:* %s\n", m2(a.M2Estimado))
	fmt.Fprintf(&b, "👤 *Contacto:* %s | %s\n", or(a.NombreContacto, "Sin nombre"), or(a.CelularContacto, "Sin número"))
	fmt.Fprintf(&b, "➡️ *Siguiente Acción:* %s\n\n", or(a.SiguienteAccion, "Pendiente definir"))
	b.WriteString("Ingresa al Dashboard para ver los detalles completos.")
	return b.String()
}

func or(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}

func m2(v *int) string {
	if v == nil || *v == 0 {
		return "Sin especificar"
	}
	return fmt.Sprintf("%d m²", *v)
}
