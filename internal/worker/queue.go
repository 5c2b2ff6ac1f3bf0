// Package worker cola de tareas asíncronas: en memoria por defecto o sobre una lista de Redis.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrQueueFull la cola en memoria no admite más trabajos.
var ErrQueueFull = errors.New("cola llena")

// Job sobre genérico de una tarea.
type Job struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Handler procesa un trabajo. Un error se registra; el trabajo no se reintenta.
type Handler func(ctx context.Context, job Job) error

// Queue encola trabajos y los reparte entre workers.
type Queue interface {
	Enqueue(ctx context.Context, jobType string, payload any) error
	// Start lanza los workers; terminan al cancelarse ctx.
	Start(ctx context.Context, workers int, h Handler)
	// Wait bloquea hasta que todos los workers terminaron.
	Wait()
}

// NewJob arma el sobre con un ID nuevo.
func NewJob(jobType string, payload any) (Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Job{}, fmt.Errorf("serializar %s: %w", jobType, err)
	}
	return Job{
		ID:         uuid.NewString(),
		Type:       jobType,
		Payload:    data,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}
