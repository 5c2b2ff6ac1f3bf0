// Package spreadsheet lee la planilla de gastos del contador en XLSX (excelize) o CSV.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/lux-ventas/internal/domain/entity"
	"github.com/jhoicas/lux-ventas/internal/domain/pipeline"
)

// DefaultSheet hoja que se lee de los libros XLSX.
const DefaultSheet = "Gastos"

// Columnas obligatorias de la planilla.
const (
	ColFecha       = "Fecha"
	ColSemana      = "Semana"
	ColTipoGasto   = "Tipo_Gasto"
	ColCategoria   = "Categoría"
	ColTipoNegocio = "Tipo_Negocio"
	ColDescripcion = "Descripción"
	ColMontoSoles  = "Monto_Soles"
	ColVentaID     = "Venta_ID"
)

// RequiredColumns en el orden de la plantilla.
var RequiredColumns = []string{
	ColFecha, ColSemana, ColTipoGasto, ColCategoria,
	ColTipoNegocio, ColDescripcion, ColMontoSoles, ColVentaID,
}

var (
	// ErrMissingColumns la cabecera no trae todas las columnas obligatorias.
	ErrMissingColumns = errors.New("planilla sin columnas obligatorias")
	// ErrUnsupportedFormat extensión distinta de .xlsx o .csv.
	ErrUnsupportedFormat = errors.New("formato de planilla no soportado")
)

// Parser convierte un libro en filas de gasto.
type Parser struct {
	Sheet string
}

// NewParser crea el parser. sheet vacío usa "Gastos".
func NewParser(sheet string) *Parser {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &Parser{Sheet: sheet}
}

// Parse lee r según la extensión de name (.xlsx/.xlsm o .csv). Las filas sin Fecha o con
// una fecha ilegible se descartan.
func (p *Parser) Parse(r io.Reader, name string) ([]entity.Expense, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		rows, err = p.xlsxRows(r)
	case ".csv":
		rows, err = csvRows(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}

func (p *Parser) xlsxRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir libro: %w", err)
	}
	defer f.Close()

	// Valores crudos: fechas como número de serie y montos sin formato de moneda.
	rows, err := f.GetRows(p.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", p.Sheet, err)
	}
	return rows, nil
}

func csvRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func parseRows(rows [][]string) ([]entity.Expense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: hoja vacía", ErrMissingColumns)
	}
	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[norm.NFC.String(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	out := make([]entity.Expense, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(col string) string {
			i := index[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		fecha, ok := ParseDate(cell(ColFecha))
		if !ok {
			continue
		}
		semana := strings.ToUpper(cell(ColSemana))
		if semana == "" {
			semana = pipeline.WeekLabel(fecha)
		}
		out = append(out, entity.Expense{
			Fecha:       fecha,
			Semana:      semana,
			TipoGasto:   cell(ColTipoGasto),
			Categoria:   cell(ColCategoria),
			TipoNegocio: cell(ColTipoNegocio),
			Descripcion: cell(ColDescripcion),
			MontoSoles:  ParseAmount(cell(ColMontoSoles)),
			VentaID:     cell(ColVentaID),
		})
	}
	return out, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006",
	"2/1/2006",
	"01-02-06",
}

// ParseDate acepta fecha ISO, dd/mm/aaaa, mm-dd-aa (formato por defecto de Excel)
// y números de serie de Excel. Devuelve la fecha a medianoche UTC.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncate(t), true
		}
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial < 1 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return truncate(t), true
}

// ParseAmount interpreta montos como "1250.5", "S/. 1,250.50" o vacío. Ilegible = 0.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "S/.")
	s = strings.TrimPrefix(s, "S/")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
