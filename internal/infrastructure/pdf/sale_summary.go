// Package pdf genera el "Resumen de la Venta" imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Lux + título        │  Código de venta + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre / Tipo de negocio / Dirección               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE: Producto | m² | Monto                              │
//	│  INSTALACIÓN + semana                                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/lux-ventas/internal/application/pipeline"
	"github.com/jhoicas/lux-ventas/internal/domain/entity"
	"github.com/jhoicas/lux-ventas/pkg/money"
)

var _ pipeline.SalePDFGenerator = (*SaleSummaryGenerator)(nil)

const dateLayout = "02/01/2006"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 20, Green: 20, Blue: 20}
	colorAccent  = &props.Color{Red: 200, Green: 150, Blue: 30}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// SaleSummaryGenerator implementa pipeline.SalePDFGenerator con Maroto v2.
type SaleSummaryGenerator struct {
	company string
}

// NewSaleSummaryGenerator construye el generador. company aparece en el encabezado.
func NewSaleSummaryGenerator(company string) *SaleSummaryGenerator {
	if company == "" {
		company = "Lux"
	}
	return &SaleSummaryGenerator{company: company}
}

// GenerateSaleSummary genera el PDF y devuelve sus bytes.
func (g *SaleSummaryGenerator) GenerateSaleSummary(sale *entity.SaleRecord) ([]byte, error) {
	if sale == nil {
		return nil, fmt.Errorf("pdf: venta nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Resumen de la Venta "+sale.VentaID, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(g.company, sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorAccent, Thickness: 0.6}))
	m.AddRows(clientRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(detailHeaderRow(), detailRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(installationRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(company string, sale *entity.SaleRecord) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(company, props.Text{Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 1}),
			text.New("Resumen de la Venta", props.Text{Size: 10, Top: 10, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(sale.VentaID, props.Text{Style: fontstyle.Bold, Size: 13, Align: align.Right, Top: 1}),
			text.New("Cierre: "+sale.FechaCierre.Format(dateLayout)+"  ("+sale.Semana+")", props.Text{
				Size: 9, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func clientRow(sale *entity.SaleRecord) core.Row {
	return row.New(20).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorAccent, Top: 1}),
			text.New(sale.Nombre, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6}),
			text.New(fmt.Sprintf("%s   |   %s", sale.TipoNegocio, sale.Direccion), props.Text{
				Size: 9, Top: 13, Color: colorGray,
			}),
		),
	)
}

func detailHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 6, align.Left),
		h("m²", 2, align.Center),
		h("Monto", 4, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func detailRow(sale *entity.SaleRecord) core.Row {
	return row.New(9).Add(
		col.New(6).Add(text.New(sale.Producto, props.Text{Size: 10, Top: 2, Left: 1})),
		col.New(2).Add(text.New(money.Number(int64(sale.M2Real)), props.Text{Size: 10, Align: align.Center, Top: 2})),
		col.New(4).Add(text.New(money.Soles(sale.MontoSoles), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2, Right: 1,
		})),
	)
}

func installationRow(sale *entity.SaleRecord) core.Row {
	return row.New(12).Add(
		col.New(12).Add(text.New("Instalación: "+installationDate(sale), props.Text{
			Size: 10, Top: 3, Color: colorPrimary,
		})),
	)
}

func installationDate(sale *entity.SaleRecord) string {
	if sale.FechaInstalacion == nil {
		return "Pendiente"
	}
	return sale.FechaInstalacion.Format(dateLayout)
}
