// Package notification avisa por WhatsApp a los vendedores cuando se les asigna
// o reasigna una oportunidad.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/lux-ventas/internal/application/ports"
	"github.com/jhoicas/lux-ventas/internal/worker"
	"github.com/jhoicas/lux-ventas/pkg/logger"
)

// JobType tipo de trabajo en la cola.
const JobType = "whatsapp"

var _ ports.Notifier = (*Service)(nil)

// Credentials teléfono y apikey de CallMeBot de un vendedor.
type Credentials struct {
	Phone  string
	APIKey string
}

// Message payload encolado. Las credenciales no viajan por la cola: Deliver las busca por Rep.
type Message struct {
	OpportunityID int64  `json:"oportunidad_id"`
	Rep           string `json:"rep"`
	Text          string `json:"text"`
}

// Config ajustes del servicio. Credentials se indexa por nombre en minúsculas.
type Config struct {
	Enabled     bool
	Credentials map[string]Credentials
	Timeout     time.Duration
}

// Service encola los avisos y los entrega desde los workers. Nunca devuelve error al
// llamador: los fallos se registran y se cuentan.
type Service struct {
	cfg     Config
	queue   worker.Queue
	sender  ports.MessageSender
	metrics ports.Metrics
	log     *logger.Logger
}

// NewService construye el servicio. Timeout ≤ 0 usa 10 s.
func NewService(cfg Config, queue worker.Queue, sender ports.MessageSender, metrics ports.Metrics, log *logger.Logger) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Service{cfg: cfg, queue: queue, sender: sender, metrics: metrics, log: log.Component("whatsapp")}
}

// NotifyNewAssignment avisa al vendedor asignado al crear la oportunidad.
func (s *Service) NotifyNewAssignment(ctx context.Context, a ports.Assignment) {
	s.dispatch(ctx, a, NewAssignmentMessage(a))
}

// NotifyReassignment avisa al nuevo vendedor tras una reasignación manual.
func (s *Service) NotifyReassignment(ctx context.Context, a ports.Assignment, previousRep string) {
	s.dispatch(ctx, a, ReassignmentMessage(a, previousRep))
}

func (s *Service) dispatch(ctx context.Context, a ports.Assignment, text string) {
	if !s.cfg.Enabled {
		s.metrics.RecordNotification(ports.NotificationDisabled)
		return
	}
	if _, ok := s.credentials(a.Rep); !ok {
		s.metrics.RecordNotification(ports.NotificationNoCreds)
		s.log.Warn().Str("rep", a.Rep).Msg("sin credenciales de whatsapp, aviso omitido")
		return
	}

	msg := Message{OpportunityID: a.OpportunityID, Rep: a.Rep, Text: text}
	if err := s.queue.Enqueue(ctx, JobType, msg); err != nil {
		s.metrics.RecordNotification(ports.NotificationDropped)
		s.log.Warn().Err(err).Str("rep", a.Rep).Int64("oportunidad_id", a.OpportunityID).Msg("aviso descartado")
	}
}

// Deliver handler de la cola: envía un mensaje con timeout. No se reintenta.
func (s *Service) Deliver(ctx context.Context, job worker.Job) error {
	if job.Type != JobType {
		return fmt.Errorf("tipo de trabajo inesperado %q", job.Type)
	}
	var msg Message
	if err := json.Unmarshal(job.Payload, &msg); err != nil {
		s.metrics.RecordNotification(ports.NotificationFailed)
		return fmt.Errorf("payload whatsapp: %w", err)
	}
	creds, ok := s.credentials(msg.Rep)
	if !ok {
		s.metrics.RecordNotification(ports.NotificationNoCreds)
		return fmt.Errorf("whatsapp a %s: sin credenciales", msg.Rep)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	if err := s.sender.Send(sendCtx, creds.Phone, creds.APIKey, msg.Text); err != nil {
		s.metrics.RecordNotification(ports.NotificationFailed)
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("whatsapp a %s: timeout: %w", msg.Rep, err)
		}
		return fmt.Errorf("whatsapp a %s: %w", msg.Rep, err)
	}
	s.metrics.RecordNotification(ports.NotificationSent)
	s.log.Info().Str("rep", msg.Rep).Int64("oportunidad_id", msg.OpportunityID).Msg("aviso enviado")
	return nil
}

func (s *Service) credentials(rep string) (Credentials, bool) {
	creds, ok := s.cfg.Credentials[strings.ToLower(rep)]
	if !ok || creds.Phone == "" || creds.APIKey == "" {
		return Credentials{}, false
	}
	return creds, true
}
