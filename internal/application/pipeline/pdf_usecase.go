package pipeline

import (
	"context"
	"fmt"

	"github.com/jhoicas/lux-ventas/internal/domain/entity"
	"github.com/jhoicas/lux-ventas/internal/domain/repository"
)

// SalePDFGenerator genera el resumen imprimible de una venta.
type SalePDFGenerator interface {
	GenerateSaleSummary(sale *entity.SaleRecord) ([]byte, error)
}

// PDFUseCase descarga del resumen de venta en PDF.
type PDFUseCase struct {
	sales     repository.SaleRepository
	generator SalePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(sales repository.SaleRepository, generator SalePDFGenerator) *PDFUseCase {
	return &PDFUseCase{sales: sales, generator: generator}
}

// DownloadSalePDF devuelve el PDF y el nombre de archivo (LUX-2026-001.pdf).
func (uc *PDFUseCase) DownloadSalePDF(ctx context.Context, id int64) (pdfBytes []byte, filename string, err error) {
	rec, err := reloadSale(ctx, uc.sales, id)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateSaleSummary(rec)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar resumen %s: %w", rec.VentaID, err)
	}
	return pdfBytes, rec.VentaID + ".pdf", nil
}
