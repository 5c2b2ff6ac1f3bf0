// Package money formatea montos en soles para mensajes y documentos.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// En Perú los montos se escriben con coma de miles y punto decimal (10,000.00).
var printer = message.NewPrinter(language.English)

// Soles formatea d como "S/. 10,000.00".
func Soles(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprintf("S/. %.2f", f)
}

// Number formatea un entero con separador de miles (1,250).
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}
