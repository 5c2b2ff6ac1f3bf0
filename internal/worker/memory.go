package worker

import (
	"context"
	"sync"

	"github.com/jhoicas/lux-ventas/pkg/logger"
)

// MemoryQueue cola en proceso sobre un canal con capacidad fija.
// Los trabajos pendientes se pierden al apagar.
type MemoryQueue struct {
	jobs chan Job
	wg   sync.WaitGroup
	log  *logger.Logger
}

// NewMemoryQueue crea la cola. size ≤ 0 usa 100.
func NewMemoryQueue(size int, log *logger.Logger) *MemoryQueue {
	if size <= 0 {
		size = 100
	}
	return &MemoryQueue{jobs: make(chan Job, size), log: log.Component("worker")}
}

// Enqueue no bloquea: con la cola llena devuelve ErrQueueFull.
func (q *MemoryQueue) Enqueue(_ context.Context, jobType string, payload any) error {
	job, err := NewJob(jobType, payload)
	if err != nil {
		return err
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start lanza workers goroutines que consumen el canal hasta que ctx se cancela.
func (q *MemoryQueue) Start(ctx context.Context, workers int, h Handler) {
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go func(id int) {
			defer q.wg.Done()
			for {
				select {
				case <-ctx.Done():
					q.log.Debug().Int("worker", id).Msg("worker detenido")
					return
				case job := <-q.jobs:
					process(ctx, q.log, job, h)
				}
			}
		}(i)
	}
	q.log.Info().Int("workers", workers).Msg("cola en memoria iniciada")
}

// Wait espera a que terminen los workers.
func (q *MemoryQueue) Wait() { q.wg.Wait() }

func process(ctx context.Context, log *logger.Logger, job Job, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("job_id", job.ID).Interface("panic", r).Msg("trabajo abortado")
		}
	}()
	if err := h(ctx, job); err != nil {
		log.Warn().Err(err).Str("job_id", job.ID).Str("type", job.Type).Msg("trabajo fallido")
	}
}
