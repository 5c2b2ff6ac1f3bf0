package pipeline_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/lux-ventas/internal/application/pipeline"
	"github.com/jhoicas/lux-ventas/internal/application/ports"
	"github.com/jhoicas/lux-ventas/internal/domain"
	"github.com/jhoicas/lux-ventas/internal/domain/entity"
)

// memStore base en memoria con rollback por snapshot.
type memStore struct {
	mu     sync.Mutex
	nextID int64

	businesses map[int64]entity.Business
	visits     map[int64]entity.Visit
	opps       map[int64]entity.Opportunity
	sales      map[int64]entity.Sale

	// staleLastVentaID: cuántas lecturas de LastVentaID devuelven "" (lectura vieja).
	staleLastVentaID int
	// businessRace: el próximo Create de negocio lo "gana" otra transacción.
	businessRace bool

	businessCreates int
	lastVentaReads  int
}

func newMemStore() *memStore {
	return &memStore{
		businesses: map[int64]entity.Business{},
		visits:     map[int64]entity.Visit{},
		opps:       map[int64]entity.Opportunity{},
		sales:      map[int64]entity.Sale{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) repos() pipeline.Repos {
	return pipeline.Repos{
		Businesses:    memBusinessRepo{s},
		Visits:        memVisitRepo{s},
		Opportunities: memOpportunityRepo{s},
		Sales:         memSaleRepo{s},
	}
}

// RunPipeline serializa las transacciones y restaura el estado si fn falla.
func (s *memStore) RunPipeline(ctx context.Context, fn func(r pipeline.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(s.repos()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	nextID     int64
	businesses map[int64]entity.Business
	visits     map[int64]entity.Visit
	opps       map[int64]entity.Opportunity
	sales      map[int64]entity.Sale
}

func (s *memStore) snapshot() snapshot {
	return snapshot{
		nextID:     s.nextID,
		businesses: copyMap(s.businesses),
		visits:     copyMap(s.visits),
		opps:       copyMap(s.opps),
		sales:      copyMap(s.sales),
	}
}

func (s *memStore) restore(snap snapshot) {
	s.nextID = snap.nextID
	s.businesses = snap.businesses
	s.visits = snap.visits
	s.opps = snap.opps
	s.sales = snap.sales
}

func copyMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) info(businessID int64) entity.BusinessInfo {
	b := s.businesses[businessID]
	return entity.BusinessInfo{Nombre: b.Nombre, TipoNegocio: b.TipoNegocio, Direccion: b.Direccion}
}

func inPeriod(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// ── Negocios ──────────────────────────────────────────────────────────────────

type memBusinessRepo struct{ s *memStore }

func (r memBusinessRepo) FindByIdentity(_ context.Context, nombre, direccion string) (*entity.Business, error) {
	for _, b := range r.s.businesses {
		if strings.EqualFold(b.Nombre, nombre) && strings.EqualFold(b.Direccion, direccion) {
			out := b
			return &out, nil
		}
	}
	return nil, nil
}

func (r memBusinessRepo) Create(_ context.Context, b *entity.Business) error {
	r.s.businessCreates++
	if r.s.businessRace {
		r.s.businessRace = false
		other := *b
		other.ID = r.s.id()
		r.s.businesses[other.ID] = other
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.businesses {
		if strings.EqualFold(existing.Nombre, b.Nombre) && strings.EqualFold(existing.Direccion, b.Direccion) {
			return domain.ErrDuplicate
		}
	}
	b.ID = r.s.id()
	b.CreatedAt, b.UpdatedAt = time.Now(), time.Now()
	r.s.businesses[b.ID] = *b
	return nil
}

func (r memBusinessRepo) UpdateTipoNegocio(_ context.Context, id int64, tipo string) error {
	b, ok := r.s.businesses[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.TipoNegocio = tipo
	b.UpdatedAt = time.Now()
	r.s.businesses[id] = b
	return nil
}

// ── Visitas ───────────────────────────────────────────────────────────────────

type memVisitRepo struct{ s *memStore }

func (r memVisitRepo) Create(_ context.Context, v *entity.Visit) error {
	v.ID = r.s.id()
	r.s.visits[v.ID] = *v
	return nil
}

func (r memVisitRepo) Update(_ context.Context, v *entity.Visit) error {
	if _, ok := r.s.visits[v.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.visits[v.ID] = *v
	return nil
}

func (r memVisitRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.visits[id]; !ok {
		return domain.ErrNotFound
	}
	for _, o := range r.s.opps {
		if o.VisitaID != nil && *o.VisitaID == id {
			return fmt.Errorf("violates foreign key: oportunidad %d", o.ID)
		}
	}
	delete(r.s.visits, id)
	return nil
}

func (r memVisitRepo) GetByID(_ context.Context, id int64) (*entity.VisitRecord, error) {
	v, ok := r.s.visits[id]
	if !ok {
		return nil, nil
	}
	return &entity.VisitRecord{Visit: v, BusinessInfo: r.s.info(v.BusinessID)}, nil
}

func (r memVisitRepo) ListByPeriod(_ context.Context, start, end time.Time) ([]*entity.VisitRecord, error) {
	var out []*entity.VisitRecord
	for _, v := range r.s.visits {
		if inPeriod(v.Fecha, start, end) {
			out = append(out, &entity.VisitRecord{Visit: v, BusinessInfo: r.s.info(v.BusinessID)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Fecha.Equal(out[j].Fecha) {
			return out[i].Fecha.After(out[j].Fecha)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// ── Oportunidades ─────────────────────────────────────────────────────────────

type memOpportunityRepo struct{ s *memStore }

func (r memOpportunityRepo) Create(_ context.Context, o *entity.Opportunity) error {
	if o.VisitaID != nil {
		if _, ok := r.s.visits[*o.VisitaID]; !ok {
			return fmt.Errorf("%w: visita %d", domain.ErrNotFound, *o.VisitaID)
		}
	}
	o.ID = r.s.id()
	r.s.opps[o.ID] = *o
	return nil
}

func (r memOpportunityRepo) Update(_ context.Context, o *entity.Opportunity) error {
	cur, ok := r.s.opps[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Estado, o.VisitaID, o.MotivoPerdida = cur.Estado, cur.VisitaID, cur.MotivoPerdida
	r.s.opps[o.ID] = *o
	return nil
}

func (r memOpportunityRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.opps[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.opps, id)
	for sid, sale := range r.s.sales {
		if sale.OportunidadID != nil && *sale.OportunidadID == id {
			sale.OportunidadID = nil
			r.s.sales[sid] = sale
		}
	}
	return nil
}

func (r memOpportunityRepo) GetByID(_ context.Context, id int64) (*entity.OpportunityRecord, error) {
	o, ok := r.s.opps[id]
	if !ok {
		return nil, nil
	}
	return &entity.OpportunityRecord{Opportunity: o, BusinessInfo: r.s.info(o.BusinessID)}, nil
}

func (r memOpportunityRepo) ListByPeriod(_ context.Context, start, end time.Time) ([]*entity.OpportunityRecord, error) {
	return r.list(func(o entity.Opportunity) bool { return inPeriod(o.FechaContacto, start, end) }), nil
}

func (r memOpportunityRepo) ListActive(_ context.Context) ([]*entity.OpportunityRecord, error) {
	return r.list(func(o entity.Opportunity) bool { return o.Estado == entity.OpportunityActive }), nil
}

func (r memOpportunityRepo) list(keep func(entity.Opportunity) bool) []*entity.OpportunityRecord {
	var out []*entity.OpportunityRecord
	for _, o := range r.s.opps {
		if keep(o) {
			out = append(out, &entity.OpportunityRecord{Opportunity: o, BusinessInfo: r.s.info(o.BusinessID)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FechaContacto.Equal(out[j].FechaContacto) {
			return out[i].FechaContacto.After(out[j].FechaContacto)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r memOpportunityRepo) TransitionState(_ context.Context, id int64, from, to string, motivo *string) error {
	o, ok := r.s.opps[id]
	if !ok {
		return domain.ErrNotFound
	}
	if o.Estado != from {
		return fmt.Errorf("%w: estado actual %s", domain.ErrConflict, o.Estado)
	}
	o.Estado = to
	if motivo != nil {
		o.MotivoPerdida = motivo
	}
	r.s.opps[id] = o
	return nil
}

func (r memOpportunityRepo) DetachVisit(_ context.Context, visitID int64) error {
	for id, o := range r.s.opps {
		if o.VisitaID != nil && *o.VisitaID == visitID {
			o.VisitaID = nil
			r.s.opps[id] = o
		}
	}
	return nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

type memSaleRepo struct{ s *memStore }

func (r memSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	for _, existing := range r.s.sales {
		if existing.VentaID == sale.VentaID {
			return fmt.Errorf("%w: venta_id %s", domain.ErrDuplicate, sale.VentaID)
		}
	}
	sale.ID = r.s.id()
	r.s.sales[sale.ID] = *sale
	return nil
}

func (r memSaleRepo) Update(_ context.Context, sale *entity.Sale) error {
	cur, ok := r.s.sales[sale.ID]
	if !ok {
		return domain.ErrNotFound
	}
	sale.VentaID, sale.OportunidadID, sale.Estado = cur.VentaID, cur.OportunidadID, cur.Estado
	r.s.sales[sale.ID] = *sale
	return nil
}

func (r memSaleRepo) GetByID(_ context.Context, id int64) (*entity.SaleRecord, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return &entity.SaleRecord{Sale: sale, BusinessInfo: r.s.info(sale.BusinessID)}, nil
}

func (r memSaleRepo) ListByPeriod(_ context.Context, start, end time.Time) ([]*entity.SaleRecord, error) {
	var out []*entity.SaleRecord
	for _, sale := range r.s.sales {
		if inPeriod(sale.FechaCierre, start, end) {
			out = append(out, &entity.SaleRecord{Sale: sale, BusinessInfo: r.s.info(sale.BusinessID)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FechaCierre.Equal(out[j].FechaCierre) {
			return out[i].FechaCierre.After(out[j].FechaCierre)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r memSaleRepo) LastVentaID(_ context.Context, prefix string) (string, error) {
	r.s.lastVentaReads++
	if r.s.staleLastVentaID > 0 {
		r.s.staleLastVentaID--
		return "", nil
	}
	last := ""
	for _, sale := range r.s.sales {
		if !strings.HasPrefix(sale.VentaID, prefix) {
			continue
		}
		if len(sale.VentaID) > len(last) || (len(sale.VentaID) == len(last) && sale.VentaID > last) {
			last = sale.VentaID
		}
	}
	return last, nil
}

// ── Puertos ───────────────────────────────────────────────────────────────────

type notification struct {
	Assignment ports.Assignment
	Previous   string
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notification
}

func (n *recordingNotifier) NotifyNewAssignment(_ context.Context, a ports.Assignment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{Assignment: a})
}

func (n *recordingNotifier) NotifyReassignment(_ context.Context, a ports.Assignment, previous string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{Assignment: a, Previous: previous})
}

type countingMetrics struct {
	created map[string]int
}

func (m *countingMetrics) RecordCreated(kind string) {
	if m.created == nil {
		m.created = map[string]int{}
	}
	m.created[kind]++
}

func (m *countingMetrics) RecordNotification(string) {}
