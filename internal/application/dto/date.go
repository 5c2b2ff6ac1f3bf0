package dto

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout formato ISO-8601 de fecha calendario.
const DateLayout = "2006-01-02"

// Date fecha sin hora serializada como "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate trunca t a la fecha (UTC).
func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate interpreta "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("fecha inválida %q: se espera AAAA-MM-DD", s)
	}
	return Date{Time: t}, nil
}

// DatePtr convierte un *time.Time opcional.
func DatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := NewDate(*t)
	return &d
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON serializa como "YYYY-MM-DD" o null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON acepta "YYYY-MM-DD", "" o null.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalText permite usar Date en query params y formularios.
func (d *Date) UnmarshalText(b []byte) error {
	return d.UnmarshalJSON(b)
}

// TimePtr devuelve nil para la fecha cero.
func (d *Date) TimePtr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
