package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lux-ventas/internal/domain/entity"
)

// Sources canales de origen aceptados para una oportunidad.
var Sources = []string{"Digital Advertising", "F2F Contact", "Known Client", "Referral"}

// BusinessFields datos del negocio que acompañan a cada alta o edición.
type BusinessFields struct {
	Nombre      string `json:"nombre" validate:"required,max=200"`
	TipoNegocio string `json:"tipo_negocio" validate:"required,max=100"`
	Direccion   string `json:"direccion" validate:"required,max=300"`
}

// Normalize recorta espacios.
func (b *BusinessFields) Normalize() {
	b.Nombre = strings.TrimSpace(b.Nombre)
	b.TipoNegocio = strings.TrimSpace(b.TipoNegocio)
	b.Direccion = strings.TrimSpace(b.Direccion)
}

// ── Visitas ───────────────────────────────────────────────────────────────────

// VisitRequest alta o edición de una visita. La semana se calcula en el servidor.
type VisitRequest struct {
	BusinessFields
	Fecha Date    `json:"fecha" validate:"required"`
	Notas *string `json:"notas,omitempty" validate:"omitempty,max=2000"`
}

// Normalize recorta espacios y convierte opcionales vacíos en nil.
func (r *VisitRequest) Normalize() {
	r.BusinessFields.Normalize()
	r.Notas = optString(r.Notas)
}

// VisitResponse visita con su negocio aplanado.
type VisitResponse struct {
	ID          int64     `json:"id"`
	BusinessID  int64     `json:"business_id"`
	Nombre      string    `json:"nombre"`
	TipoNegocio string    `json:"tipo_negocio"`
	Direccion   string    `json:"direccion"`
	Fecha       Date      `json:"fecha"`
	Semana      string    `json:"semana"`
	Notas       *string   `json:"notas"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewVisitResponse mapea el registro de dominio.
func NewVisitResponse(r *entity.VisitRecord) VisitResponse {
	return VisitResponse{
		ID:          r.ID,
		BusinessID:  r.BusinessID,
		Nombre:      r.Nombre,
		TipoNegocio: r.TipoNegocio,
		Direccion:   r.Direccion,
		Fecha:       NewDate(r.Fecha),
		Semana:      r.Semana,
		Notas:       r.Notas,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ── Oportunidades ─────────────────────────────────────────────────────────────

// OpportunityFields campos editables de una oportunidad.
type OpportunityFields struct {
	BusinessFields
	FechaContacto   Date    `json:"fecha_contacto" validate:"required"`
	M2Estimado      *int    `json:"m2_estimado,omitempty" validate:"omitempty,gt=0"`
	ProductoInteres *string `json:"producto_interes,omitempty" validate:"omitempty,max=200"`
	SiguienteAccion *string `json:"siguiente_accion,omitempty" validate:"omitempty,max=500"`
	Source          *string `json:"source" validate:"required,oneof='Digital Advertising' 'F2F Contact' 'Known Client' 'Referral'"`
	NombreContacto  *string `json:"nombre_contacto,omitempty" validate:"omitempty,max=200"`
	CargoContacto   *string `json:"cargo_contacto,omitempty" validate:"omitempty,max=100"`
	CelularContacto *string `json:"celular_contacto,omitempty" validate:"omitempty,max=30"`
	EmailContacto   *string `json:"email_contacto,omitempty" validate:"omitempty,email"`
}

// Normalize recorta espacios y convierte opcionales vacíos en nil. m2 = 0 equivale a "sin dato".
func (f *OpportunityFields) Normalize() {
	f.BusinessFields.Normalize()
	f.ProductoInteres = optString(f.ProductoInteres)
	f.SiguienteAccion = optString(f.SiguienteAccion)
	f.Source = optString(f.Source)
	f.NombreContacto = optString(f.NombreContacto)
	f.CargoContacto = optString(f.CargoContacto)
	f.CelularContacto = optString(f.CelularContacto)
	f.EmailContacto = optString(f.EmailContacto)
	if f.M2Estimado != nil && *f.M2Estimado == 0 {
		f.M2Estimado = nil
	}
}

// CreateOpportunityRequest alta de oportunidad. No admite vendedor: se sortea en el servidor.
type CreateOpportunityRequest struct {
	OpportunityFields
	VisitaID *int64 `json:"visita_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateOpportunityRequest edición. AsignadoA nil conserva el vendedor actual.
type UpdateOpportunityRequest struct {
	OpportunityFields
	AsignadoA *string `json:"asignado_a,omitempty"`
}

// MarkLostRequest cierre de una oportunidad como perdida.
type MarkLostRequest struct {
	Motivo string `json:"motivo" validate:"required,max=1000"`
}

// OpportunityResponse oportunidad con su negocio aplanado.
type OpportunityResponse struct {
	ID              int64     `json:"id"`
	BusinessID      int64     `json:"business_id"`
	Nombre          string    `json:"nombre"`
	TipoNegocio     string    `json:"tipo_negocio"`
	Direccion       string    `json:"direccion"`
	FechaContacto   Date      `json:"fecha_contacto"`
	Semana          string    `json:"semana"`
	M2Estimado      *int      `json:"m2_estimado"`
	ProductoInteres *string   `json:"producto_interes"`
	SiguienteAccion *string   `json:"siguiente_accion"`
	VisitaID        *int64    `json:"visita_id"`
	Source          *string   `json:"source"`
	NombreContacto  *string   `json:"nombre_contacto"`
	CargoContacto   *string   `json:"cargo_contacto"`
	CelularContacto *string   `json:"celular_contacto"`
	EmailContacto   *string   `json:"email_contacto"`
	AsignadoA       string    `json:"asignado_a"`
	Estado          string    `json:"estado"`
	MotivoPerdida   *string   `json:"motivo_perdida"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewOpportunityResponse mapea el registro de dominio.
func NewOpportunityResponse(r *entity.OpportunityRecord) OpportunityResponse {
	return OpportunityResponse{
		ID:              r.ID,
		BusinessID:      r.BusinessID,
		Nombre:          r.Nombre,
		TipoNegocio:     r.TipoNegocio,
		Direccion:       r.Direccion,
		FechaContacto:   NewDate(r.FechaContacto),
		Semana:          r.Semana,
		M2Estimado:      r.M2Estimado,
		ProductoInteres: r.ProductoInteres,
		SiguienteAccion: r.SiguienteAccion,
		VisitaID:        r.VisitaID,
		Source:          r.Source,
		NombreContacto:  r.NombreContacto,
		CargoContacto:   r.CargoContacto,
		CelularContacto: r.CelularContacto,
		EmailContacto:   r.EmailContacto,
		AsignadoA:       r.AsignadoA,
		Estado:          r.Estado,
		MotivoPerdida:   r.MotivoPerdida,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ── Ventas ────────────────────────────────────────────────────────────────────

// SaleFields campos editables de una venta.
type SaleFields struct {
	BusinessFields
	FechaCierre      Date            `json:"fecha_cierre" validate:"required"`
	M2Real           int             `json:"m2_real" validate:"gt=0"`
	Producto         string          `json:"producto" validate:"required,max=200"`
	MontoSoles       decimal.Decimal `json:"monto_soles" validate:"gt=0"`
	FechaInstalacion *Date           `json:"fecha_instalacion,omitempty"`
}

// Normalize recorta espacios.
func (f *SaleFields) Normalize() {
	f.BusinessFields.Normalize()
	f.Producto = strings.TrimSpace(f.Producto)
	if f.FechaInstalacion != nil && f.FechaInstalacion.IsZero() {
		f.FechaInstalacion = nil
	}
}

// CreateSaleRequest alta de venta. El código LUX-AAAA-NNN se genera en el servidor.
type CreateSaleRequest struct {
	SaleFields
	OportunidadID *int64 `json:"oportunidad_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateSaleRequest edición de venta: no cambia código, oportunidad ni estado.
type UpdateSaleRequest struct {
	SaleFields
}

// SaleResponse venta con su negocio aplanado.
type SaleResponse struct {
	ID               int64           `json:"id"`
	VentaID          string          `json:"venta_id"`
	BusinessID       int64           `json:"business_id"`
	Nombre           string          `json:"nombre"`
	TipoNegocio      string          `json:"tipo_negocio"`
	Direccion        string          `json:"direccion"`
	FechaCierre      Date            `json:"fecha_cierre"`
	Semana           string          `json:"semana"`
	M2Real           int             `json:"m2_real"`
	Producto         string          `json:"producto"`
	MontoSoles       decimal.Decimal `json:"monto_soles"`
	FechaInstalacion *Date           `json:"fecha_instalacion"`
	OportunidadID    *int64          `json:"oportunidad_id"`
	Estado           string          `json:"estado"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NewSaleResponse mapea el registro de dominio.
func NewSaleResponse(r *entity.SaleRecord) SaleResponse {
	return SaleResponse{
		ID:               r.ID,
		VentaID:          r.VentaID,
		BusinessID:       r.BusinessID,
		Nombre:           r.Nombre,
		TipoNegocio:      r.TipoNegocio,
		Direccion:        r.Direccion,
		FechaCierre:      NewDate(r.FechaCierre),
		Semana:           r.Semana,
		M2Real:           r.M2Real,
		Producto:         r.Producto,
		MontoSoles:       r.MontoSoles,
		FechaInstalacion: DatePtr(r.FechaInstalacion),
		OportunidadID:    r.OportunidadID,
		Estado:           r.Estado,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// NextSaleIDResponse vista previa del próximo código.
type NextSaleIDResponse struct {
	VentaID string `json:"venta_id"`
}

// WeekResponse semana ISO de una fecha.
type WeekResponse struct {
	Fecha  Date   `json:"fecha"`
	Semana string `json:"semana"`
}

func optString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
