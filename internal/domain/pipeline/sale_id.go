package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSalePrefix prefijo de los códigos de venta (LUX-2026-001).
const DefaultSalePrefix = "LUX"

// SaleIDPrefix devuelve el prefijo anual, ej. "LUX-2026-".
func SaleIDPrefix(prefix string, year int) string {
	return fmt.Sprintf("%s-%d-", prefix, year)
}

// FormatSaleID arma el código con la secuencia rellenada a 3 dígitos.
// Más allá de 999 el número crece sin truncarse (LUX-2026-1000).
func FormatSaleID(prefix string, year, seq int) string {
	return fmt.Sprintf("%s%03d", SaleIDPrefix(prefix, year), seq)
}

// ParseSaleSeq extrae la secuencia de un código del año indicado.
func ParseSaleSeq(prefix string, year int, id string) (int, bool) {
	p := SaleIDPrefix(prefix, year)
	if len(id) <= len(p) || !strings.EqualFold(id[:len(p)], p) {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(p):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextSaleID calcula el siguiente código a partir del último existente del año.
// Sin código previo, o con uno ilegible, la secuencia arranca en 1.
func NextSaleID(prefix string, year int, last string) string {
	seq, ok := ParseSaleSeq(prefix, year, last)
	if !ok {
		seq = 0
	}
	return FormatSaleID(prefix, year, seq+1)
}
