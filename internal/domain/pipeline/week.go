// Package pipeline reúne las reglas puras del embudo de ventas: etiquetas de semana ISO,
// códigos de venta, asignación ponderada de vendedores y transiciones de estado.
package pipeline

import (
	"fmt"
	"time"
)

// WeekLabel devuelve la semana ISO-8601 de t como "W07".
// Semanas de lunes a domingo; la semana 1 es la que contiene el primer jueves del año.
func WeekLabel(t time.Time) string {
	_, week := t.ISOWeek()
	return fmt.Sprintf("W%02d", week)
}

// WeekStart devuelve el lunes (00:00) de la semana ISO de t.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// MonthStart devuelve el día 1 del mes de t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
