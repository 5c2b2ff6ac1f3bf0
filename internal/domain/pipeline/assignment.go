package pipeline

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Rep vendedor elegible para asignación automática con su peso relativo.
type Rep struct {
	Name   string
	Weight float64
}

// DefaultReps reparto comercial vigente.
var DefaultReps = []Rep{
	{Name: "Emmanuel", Weight: 0.40},
	{Name: "Sebastian", Weight: 0.30},
	{Name: "Ingemar", Weight: 0.20},
	{Name: "Adolfo", Weight: 0.10},
}

// ErrInvalidReps la lista de vendedores no permite sortear.
var ErrInvalidReps = errors.New("lista de vendedores inválida")

// Assigner sortea un vendedor con reemplazo según los pesos (normalizados, no tienen que sumar 1).
// No es round-robin ni balanceo por carga: cada llamada es un sorteo independiente.
type Assigner struct {
	reps []Rep
	cum  []float64 // umbrales acumulados normalizados; el último con peso > 0 es 1
	rnd  func() float64
}

// NewAssigner valida la lista. rnd debe devolver valores en [0, 1); nil usa math/rand/v2.
func NewAssigner(reps []Rep, rnd func() float64) (*Assigner, error) {
	if len(reps) == 0 {
		return nil, fmt.Errorf("%w: vacía", ErrInvalidReps)
	}
	var total float64
	seen := make(map[string]bool, len(reps))
	for _, r := range reps {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("%w: nombre vacío", ErrInvalidReps)
		}
		if r.Weight < 0 {
			return nil, fmt.Errorf("%w: peso negativo para %s", ErrInvalidReps, r.Name)
		}
		key := strings.ToLower(r.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %s repetido", ErrInvalidReps, r.Name)
		}
		seen[key] = true
		total += r.Weight
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: la suma de pesos es cero", ErrInvalidReps)
	}
	if rnd == nil {
		rnd = rand.Float64
	}
	out := make([]Rep, len(reps))
	copy(out, reps)
	return &Assigner{reps: out, cum: thresholds(out, total), rnd: rnd}, nil
}

// thresholds normaliza los pesos acumulados. Se redondean a 12 decimales para que
// 0.4+0.3 sea exactamente el 0.7 que escribiría un humano.
func thresholds(reps []Rep, total float64) []float64 {
	cum := make([]float64, len(reps))
	last := 0
	var acc float64
	for i, r := range reps {
		acc += r.Weight
		cum[i] = math.Round(acc/total*1e12) / 1e12
		if r.Weight > 0 {
			last = i
		}
	}
	for i := last; i < len(cum); i++ {
		cum[i] = 1
	}
	return cum
}

// Assign devuelve el nombre sorteado.
func (a *Assigner) Assign() string {
	x := a.rnd()
	for i, r := range a.reps {
		if r.Weight > 0 && x < a.cum[i] {
			return r.Name
		}
	}
	for i := len(a.reps) - 1; i >= 0; i-- {
		if a.reps[i].Weight > 0 {
			return a.reps[i].Name
		}
	}
	return a.reps[len(a.reps)-1].Name
}

// Lookup devuelve el nombre canónico de un vendedor del padrón (sin distinguir mayúsculas).
func (a *Assigner) Lookup(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, r := range a.reps {
		if strings.EqualFold(r.Name, name) {
			return r.Name, true
		}
	}
	return "", false
}

// Reps devuelve una copia del padrón.
func (a *Assigner) Reps() []Rep {
	out := make([]Rep, len(a.reps))
	copy(out, a.reps)
	return out
}

// ParseReps interpreta "Emmanuel:0.40,Sebastian:0.30". Cadena vacía devuelve DefaultReps.
func ParseReps(s string) ([]Rep, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		out := make([]Rep, len(DefaultReps))
		copy(out, DefaultReps)
		return out, nil
	}
	var reps []Rep
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, weight, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q sin peso", ErrInvalidReps, part)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: peso de %q: %v", ErrInvalidReps, name, err)
		}
		reps = append(reps, Rep{Name: strings.TrimSpace(name), Weight: w})
	}
	if len(reps) == 0 {
		return nil, fmt.Errorf("%w: vacía", ErrInvalidReps)
	}
	return reps, nil
}
