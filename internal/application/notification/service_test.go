package notification_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lux-ventas/internal/application/notification"
	"github.com/jhoicas/lux-ventas/internal/application/ports"
	"github.com/jhoicas/lux-ventas/internal/worker"
	"github.com/jhoicas/lux-ventas/pkg/logger"
)

// syncQueue entrega cada trabajo al instante al handler registrado.
type syncQueue struct {
	handler worker.Handler
	err     error
	jobs    []worker.Job
}

func (q *syncQueue) Enqueue(ctx context.Context, jobType string, payload any) error {
	if q.err != nil {
		return q.err
	}
	job, err := worker.NewJob(jobType, payload)
	if err != nil {
		return err
	}
	q.jobs = append(q.jobs, job)
	if q.handler != nil {
		_ = q.handler(ctx, job)
	}
	return nil
}

func (q *syncQueue) Start(_ context.Context, _ int, h worker.Handler) { q.handler = h }
func (q *syncQueue) Wait()                                            {}

type sent struct{ phone, apiKey, text string }

type fakeSender struct {
	mu    sync.Mutex
	sent  []sent
	err   error
	block bool
}

func (s *fakeSender) Send(ctx context.Context, phone, apiKey, text string) error {
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sent{phone, apiKey, text})
	return s.err
}

type metrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (m *metrics) RecordCreated(string) {}
func (m *metrics) RecordNotification(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = map[string]int{}
	}
	m.results[result]++
}

func str(s string) *string { return &s }

func assignment() ports.Assignment {
	m2 := 120
	return ports.Assignment{
		OpportunityID:   12,
		Rep:             "Sebastian",
		Negocio:         "Hotel X",
		ProductoInteres: str("Piso vinílico"),
		M2Estimado:      &m2,
		Source:          str("Referral"),
		NombreContacto:  str("Ana Torres"),
		CelularContacto: str("999888777"),
	}
}

func newService(cfg notification.Config, q *syncQueue, s *fakeSender, m *metrics) *notification.Service {
	svc := notification.NewService(cfg, q, s, m, logger.Nop())
	q.Start(context.Background(), 1, svc.Deliver)
	return svc
}

func enabled() notification.Config {
	return notification.Config{
		Enabled: true,
		Credentials: map[string]notification.Credentials{
			"sebastian": {Phone: "+51999000111", APIKey: "123456"},
		},
		Timeout: time.Second,
	}
}

func TestNewAssignmentMessage(t *testing.T) {
	want := "🎯 *Nueva Oportunidad Asignada* | Lux Dashboard\n\n" +
		"Hola Sebastian! Se te acaba de asignar una nueva oportunidad.\n\n" +
		"🏢 *Negocio:* Hotel X\n" +
		"🆔 *ID Oportunidad:* #12\n" +
		"📦 *Producto:* Piso vinílico\n" +
		"📐 *m² Estimado:* 120 m²\n" +
		"📣 *Fuente:* Referral\n" +
		"👤 *Contacto:* Ana Torres | 999888777\n" +
		"➡️ *Siguiente Acción:* Pendiente definir\n\n" +
		"Ingresa al Dashboard para ver los detalles completos."
	assert.Equal(t, want, notification.NewAssignmentMessage(assignment()))
}

func TestNewAssignmentMessage_Fallbacks(t *testing.T) {
	zero := 0
	msg := notification.NewAssignmentMessage(ports.Assignment{OpportunityID: 3, Rep: "Adolfo", Negocio: "Bodega", M2Estimado: &zero})
	assert.Contains(t, msg, "📦 *Producto:* Sin especificar\n")
	assert.Contains(t, msg, "📐 *m² Estimado:* Sin especificar\n")
	assert.Contains(t, msg, "📣 *Fuente:* -\n")
	assert.Contains(t, msg, "👤 *Contacto:* Sin nombre | Sin número\n")
	assert.Contains(t, msg, "➡️ *Siguiente Acción:* Pendiente definir\n")
}

func TestReassignmentMessage(t *testing.T) {
	msg := notification.ReassignmentMessage(assignment(), "Emmanuel")
	assert.Contains(t, msg, "🔄 *Reasignación de Oportunidad* | Lux Dashboard\n\n")
	assert.Contains(t, msg, "Hola Sebastian! La oportunidad #12 ha sido reasignada a ti (antes: Emmanuel).\n\n")
	assert.NotContains(t, msg, "Fuente")
}

func TestNotify_EnviaConCredenciales(t *testing.T) {
	q, s, m := &syncQueue{}, &fakeSender{}, &metrics{}
	svc := newService(enabled(), q, s, m)

	svc.NotifyNewAssignment(context.Background(), assignment())

	require.Len(t, s.sent, 1)
	assert.Equal(t, "+51999000111", s.sent[0].phone)
	assert.Equal(t, "123456", s.sent[0].apiKey)
	assert.Contains(t, s.sent[0].text, "#12")
	assert.Equal(t, 1, m.results[ports.NotificationSent])
}

func TestNotify_PayloadSinCredenciales(t *testing.T) {
	q, s, m := &syncQueue{}, &fakeSender{}, &metrics{}
	svc := newService(enabled(), q, s, m)

	svc.NotifyNewAssignment(context.Background(), assignment())

	require.Len(t, q.jobs, 1)
	payload := string(q.jobs[0].Payload)
	assert.NotContains(t, payload, "123456")
	assert.NotContains(t, payload, "+51999000111")
	assert.Contains(t, payload, `"rep":"Sebastian"`)
}

func TestDeliver_VendedorSinCredencialesNoEnvia(t *testing.T) {
	m, s := &metrics{}, &fakeSender{}
	svc := notification.NewService(enabled(), &syncQueue{}, s, m, logger.Nop())

	job, err := worker.NewJob(notification.JobType, notification.Message{Rep: "Ingemar", Text: "hola"})
	require.NoError(t, err)
	assert.Error(t, svc.Deliver(context.Background(), job))
	assert.Empty(t, s.sent)
	assert.Equal(t, 1, m.results[ports.NotificationNoCreds])
}

func TestNotify_Deshabilitado(t *testing.T) {
	q, s, m := &syncQueue{}, &fakeSender{}, &metrics{}
	cfg := enabled()
	cfg.Enabled = false
	svc := newService(cfg, q, s, m)

	svc.NotifyNewAssignment(context.Background(), assignment())
	assert.Empty(t, q.jobs)
	assert.Empty(t, s.sent)
	assert.Equal(t, 1, m.results[ports.NotificationDisabled])
}

func TestNotify_SinCredenciales(t *testing.T) {
	q, s, m := &syncQueue{}, &fakeSender{}, &metrics{}
	svc := newService(enabled(), q, s, m)

	a := assignment()
	a.Rep = "Ingemar"
	svc.NotifyReassignment(context.Background(), a, "Sebastian")
	assert.Empty(t, q.jobs)
	assert.Equal(t, 1, m.results[ports.NotificationNoCreds])
}

func TestNotify_ColaLlena(t *testing.T) {
	q, s, m := &syncQueue{err: worker.ErrQueueFull}, &fakeSender{}, &metrics{}
	svc := newService(enabled(), q, s, m)

	svc.NotifyNewAssignment(context.Background(), assignment())
	assert.Empty(t, s.sent)
	assert.Equal(t, 1, m.results[ports.NotificationDropped])
}

func TestDeliver_FalloYTimeoutNoSeReintentan(t *testing.T) {
	m := &metrics{}
	s := &fakeSender{err: errors.New("callmebot: status 500")}
	svc := notification.NewService(enabled(), &syncQueue{}, s, m, logger.Nop())

	job, err := worker.NewJob(notification.JobType, notification.Message{Rep: "Sebastian", Text: "hola"})
	require.NoError(t, err)
	assert.Error(t, svc.Deliver(context.Background(), job))
	assert.Len(t, s.sent, 1)

	cfg := enabled()
	cfg.Timeout = 20 * time.Millisecond
	slow := notification.NewService(cfg, &syncQueue{}, &fakeSender{block: true}, m, logger.Nop())
	err = slow.Deliver(context.Background(), job)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, m.results[ports.NotificationFailed])
}
