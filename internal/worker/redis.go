package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/lux-ventas/pkg/logger"
)

const popTimeout = 5 * time.Second

// RedisQueue cola sobre una lista de Redis (LPUSH / BRPOP). Sobrevive a reinicios del proceso.
type RedisQueue struct {
	rdb  *redis.Client
	name string
	wg   sync.WaitGroup
	log  *logger.Logger
}

// NewRedisQueue crea la cola sobre la lista name (p. ej. "jobs:whatsapp").
func NewRedisQueue(rdb *redis.Client, name string, log *logger.Logger) *RedisQueue {
	return &RedisQueue{rdb: rdb, name: name, log: log.Component("worker")}
}

// Enqueue serializa el trabajo y lo agrega a la lista.
func (q *RedisQueue) Enqueue(ctx context.Context, jobType string, payload any) error {
	job, err := NewJob(jobType, payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := q.rdb.LPush(ctx, q.name, encoded).Err(); err != nil {
		return fmt.Errorf("redis lpush %s: %w", q.name, err)
	}
	return nil
}

// Start lanza workers bloqueados en BRPOP; sin trabajos no consumen CPU.
func (q *RedisQueue) Start(ctx context.Context, workers int, h Handler) {
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go func(id int) {
			defer q.wg.Done()
			q.run(ctx, id, h)
		}(i)
	}
	q.log.Info().Int("workers", workers).Str("queue", q.name).Msg("cola redis iniciada")
}

func (q *RedisQueue) run(ctx context.Context, id int, h Handler) {
	for {
		if ctx.Err() != nil {
			q.log.Debug().Int("worker", id).Msg("worker detenido")
			return
		}
		result, err := q.rdb.BRPop(ctx, popTimeout, q.name).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				q.log.Warn().Err(err).Str("queue", q.name).Msg("brpop falló")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		job, err := DecodeJob(result[1])
		if err != nil {
			q.log.Error().Err(err).Str("queue", q.name).Msg("trabajo ilegible descartado")
			continue
		}
		process(ctx, q.log, job, h)
	}
}

// Wait espera a que terminen los workers.
func (q *RedisQueue) Wait() { q.wg.Wait() }

// DecodeJob interpreta un sobre leído de la lista.
func DecodeJob(raw string) (Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return Job{}, fmt.Errorf("decodificar trabajo: %w", err)
	}
	return job, nil
}
