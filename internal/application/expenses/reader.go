// Package expenses expone la planilla de gastos del contador: lectura tolerante a fallos,
// filtros, resumen de costos y conciliación contra ventas.
package expenses

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lux-ventas/internal/domain/entity"
	"github.com/jhoicas/lux-ventas/pkg/logger"
)

// ErrNoSource no hay planilla configurada (ni EXPENSES_PATH ni bucket).
var ErrNoSource = errors.New("planilla de gastos no configurada")

// Source entrega el libro crudo y su nombre (la extensión decide el formato).
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, string, error)
}

// Parser convierte el libro en filas de gasto.
type Parser interface {
	Parse(r io.Reader, name string) ([]entity.Expense, error)
}

// NoSource fuente vacía para cuando no hay planilla configurada.
type NoSource struct{}

func (NoSource) Open(context.Context) (io.ReadCloser, string, error) {
	return nil, "", ErrNoSource
}

// Result filas leídas. Diagnostic no vacío indica que la lectura falló y Expenses está vacío.
type Result struct {
	Expenses   []entity.Expense
	Diagnostic string
}

// Reader lee la planilla sin propagar errores: cualquier fallo termina en un Result vacío.
type Reader struct {
	source Source
	parser Parser
	log    *logger.Logger
}

// NewReader construye el lector.
func NewReader(source Source, parser Parser, log *logger.Logger) *Reader {
	return &Reader{source: source, parser: parser, log: log.Component("gastos")}
}

// Read abre la fuente configurada y la interpreta.
func (r *Reader) Read(ctx context.Context) Result {
	rc, name, err := r.source.Open(ctx)
	if err != nil {
		return r.fail(err)
	}
	defer rc.Close()
	return r.parse(rc, name)
}

// ReadUpload interpreta un libro subido por el usuario.
func (r *Reader) ReadUpload(body io.Reader, name string) Result {
	return r.parse(body, name)
}

func (r *Reader) parse(body io.Reader, name string) Result {
	rows, err := r.parser.Parse(body, name)
	if err != nil {
		return r.fail(err)
	}
	return Result{Expenses: rows}
}

func (r *Reader) fail(err error) Result {
	if errors.Is(err, ErrNoSource) {
		r.log.Debug().Msg("sin planilla de gastos configurada")
	} else {
		r.log.Warn().Err(err).Msg("no se pudo leer la planilla de gastos")
	}
	return Result{Expenses: []entity.Expense{}, Diagnostic: err.Error()}
}

// ── Filtros ───────────────────────────────────────────────────────────────────

// ByPeriod gastos con fecha en [start, end].
func (res Result) ByPeriod(start, end time.Time) Result {
	return res.filter(func(e entity.Expense) bool {
		return !e.Fecha.Before(start) && !e.Fecha.After(end)
	})
}

// ByWeek gastos de la semana ("W03"), sin distinguir mayúsculas.
func (res Result) ByWeek(semana string) Result {
	semana = strings.TrimSpace(semana)
	return res.filter(func(e entity.Expense) bool { return strings.EqualFold(e.Semana, semana) })
}

// BySale gastos imputados a una venta (LUX-2026-001).
func (res Result) BySale(ventaID string) Result {
	ventaID = strings.TrimSpace(ventaID)
	return res.filter(func(e entity.Expense) bool { return strings.EqualFold(e.VentaID, ventaID) })
}

func (res Result) filter(keep func(entity.Expense) bool) Result {
	out := Result{Expenses: make([]entity.Expense, 0, len(res.Expenses)), Diagnostic: res.Diagnostic}
	for _, e := range res.Expenses {
		if keep(e) {
			out.Expenses = append(out.Expenses, e)
		}
	}
	return out
}

// ── Resumen ───────────────────────────────────────────────────────────────────

// Amount monto agregado bajo una clave.
type Amount struct {
	Key   string
	Total decimal.Decimal
}

// Summary totales de costos.
type Summary struct {
	Total      decimal.Decimal
	Direct     decimal.Decimal
	Indirect   decimal.Decimal
	ByType     []Amount // Tipo_Gasto
	ByCategory []Amount // Categoría
	ByBusiness []Amount // Tipo_Negocio
	Count      int
}

// Summarize suma los montos y los agrupa. Los grupos salen de mayor a menor monto.
func (res Result) Summarize() Summary {
	s := Summary{Total: decimal.Zero, Direct: decimal.Zero, Indirect: decimal.Zero, Count: len(res.Expenses)}
	byType := map[string]decimal.Decimal{}
	byCategory := map[string]decimal.Decimal{}
	byBusiness := map[string]decimal.Decimal{}
	for _, e := range res.Expenses {
		s.Total = s.Total.Add(e.MontoSoles)
		switch e.Categoria {
		case entity.CostCategoryDirect:
			s.Direct = s.Direct.Add(e.MontoSoles)
		case entity.CostCategoryIndirect:
			s.Indirect = s.Indirect.Add(e.MontoSoles)
		}
		byType[e.TipoGasto] = byType[e.TipoGasto].Add(e.MontoSoles)
		byCategory[e.Categoria] = byCategory[e.Categoria].Add(e.MontoSoles)
		byBusiness[e.TipoNegocio] = byBusiness[e.TipoNegocio].Add(e.MontoSoles)
	}
	s.ByType = sortedAmounts(byType)
	s.ByCategory = sortedAmounts(byCategory)
	s.ByBusiness = sortedAmounts(byBusiness)
	return s
}

func sortedAmounts(m map[string]decimal.Decimal) []Amount {
	out := make([]Amount, 0, len(m))
	for k, v := range m {
		out = append(out, Amount{Key: k, Total: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}
