package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// dlqMax caps each dead letter list; older failures are trimmed away.
const dlqMax = 500

// DLQEntry is a job that will not be retried, kept for an operator to inspect.
type DLQEntry struct {
	Fila       string          `json:"fila"`
	Tipo       string          `json:"tipo"`
	Payload    json.RawMessage `json:"payload"`
	Motivo     string          `json:"motivo"`
	Tentativas int             `json:"tentativas"`
	FalhouEm   time.Time       `json:"falhou_em"`
}

func dlqKey(queue string) string { return DLQPrefix + queue }

// deadLetter stores job under dlq:{queue}. Failures to store are only logged,
// the job is already lost for the pool at this point.
func deadLetter(ctx context.Context, rdb *redis.Client, queue string, job Job, motivo string, tentativas int) {
	data, err := json.Marshal(DLQEntry{
		Fila:       queue,
		Tipo:       job.Type,
		Payload:    job.Payload,
		Motivo:     motivo,
		Tentativas: tentativas,
		FalhouEm:   time.Now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("fila", queue).Msg("dlq: entrada inválida")
		return
	}

	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, dlqKey(queue), data)
	pipe.LTrim(ctx, dlqKey(queue), 0, dlqMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("fila", queue).Msg("dlq: falha ao gravar")
		return
	}
	log.Warn().Str("fila", queue).Str("tipo", job.Type).Str("motivo", motivo).
		Int("tentativas", tentativas).Msg("job descartado para a dlq")
}

// DLQLength is reported by /health.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, dlqKey(queue)).Result()
}

// ListDLQ returns up to limit entries, newest first. Unreadable entries are skipped.
func ListDLQ(ctx context.Context, rdb *redis.Client, queue string, limit int64) ([]DLQEntry, error) {
	if limit <= 0 || limit > dlqMax {
		limit = dlqMax
	}
	raw, err := rdb.LRange(ctx, dlqKey(queue), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]DLQEntry, 0, len(raw))
	for _, r := range raw {
		var e DLQEntry
		if json.Unmarshal([]byte(r), &e) == nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
