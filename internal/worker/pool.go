package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueEmail = "jobs:email"

const JobTermoEmail = "termo_email"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Processor handles one job type. A returned error means the job exhausted
// its attempts and belongs in the DLQ.
type Processor interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueTermoEmail asks the pool to render the compliance term of a sale and mail it.
func (d *Dispatcher) EnqueueTermoEmail(ctx context.Context, payload TermoEmailPayload) error {
	return d.enqueue(ctx, QueueEmail, JobTermoEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes QueueEmail and routes jobs to processors by type.
type Pool struct {
	rdb        *redis.Client
	processors map[string]Processor
	popTimeout time.Duration
}

func NewPool(rdb *redis.Client, processors map[string]Processor) *Pool {
	return &Pool{rdb: rdb, processors: processors, popTimeout: 5 * time.Second}
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, so idle workers cost nothing.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Str("fila", QueueEmail).Msg("pool de workers iniciado")
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker encerrado")
			return
		default:
			result, err := p.rdb.BRPop(ctx, p.popTimeout, QueueEmail).Result()
			if err != nil || len(result) < 2 {
				continue // timeout or context cancelled
			}
			p.handle(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) handle(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("fila", queue).Err(err).Msg("job ilegível descartado")
		return
	}
	proc, ok := p.processors[job.Type]
	if !ok {
		deadLetter(ctx, p.rdb, queue, job, "tipo de job desconhecido", 0)
		return
	}
	log.Debug().Str("tipo", job.Type).Str("fila", queue).Msg("processando job")
	if err := proc.Process(ctx, job.Payload); err != nil {
		deadLetter(ctx, p.rdb, queue, job, err.Error(), maxAttempts)
	}
}
