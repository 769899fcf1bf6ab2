package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"viveiro/internal/infra"
	"viveiro/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

type fakeProcessor struct {
	calls int
	err   error
}

func (p *fakeProcessor) Process(_ context.Context, _ json.RawMessage) error {
	p.calls++
	return p.err
}

type fakeLoader struct{ venda *model.Venda }

func (l *fakeLoader) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	if l.venda == nil || l.venda.ID != id {
		return nil, errors.New("not found")
	}
	return l.venda, nil
}

type fakeSender struct {
	failures int
	sent     []infra.Anexo
	to       string
}

func (s *fakeSender) Enviar(to, _, _ string, anexos ...infra.Anexo) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("smtp down")
	}
	s.to = to
	s.sent = append(s.sent, anexos...)
	return nil
}

func TestDispatcher_EnqueueTermoEmail(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, NewDispatcher(rdb).EnqueueTermoEmail(ctx, TermoEmailPayload{VendaID: "x", Email: "a@b.com"}))

	raw, err := rdb.RPop(ctx, QueueEmail).Result()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, JobTermoEmail, job.Type)
	assert.JSONEq(t, `{"venda_id":"x","email":"a@b.com"}`, string(job.Payload))
}

func TestPool_RoutesAndDeadLetters(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	ok := &fakeProcessor{}
	failing := &fakeProcessor{err: errors.New("boom")}
	pool := NewPool(rdb, map[string]Processor{"ok": ok, "falha": failing})

	pool.handle(ctx, QueueEmail, `{"type":"ok","payload":{}}`)
	pool.handle(ctx, QueueEmail, `{"type":"falha","payload":{}}`)
	pool.handle(ctx, QueueEmail, `{"type":"desconhecido","payload":{}}`)

	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, failing.calls)

	n, err := DLQLength(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	entries, err := ListDLQ(ctx, rdb, QueueEmail, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "desconhecido", entries[0].Tipo)
	assert.Equal(t, "boom", entries[1].Motivo)
}

func TestEmailWorker_RetriesThenSends(t *testing.T) {
	retryBase = time.Millisecond
	t.Cleanup(func() { retryBase = time.Second })

	venda := &model.Venda{ID: uuid.New(), Numero: 7, Status: model.VendaFinalizada, Total: decimal.NewFromInt(40), DataVenda: time.Now()}
	sender := &fakeSender{failures: 2}
	w := NewEmailWorker(&fakeLoader{venda: venda}, sender, infra.Empresa{Nome: "Viveiro"})

	raw, _ := json.Marshal(TermoEmailPayload{VendaID: venda.ID.String(), Email: "cliente@example.com"})
	require.NoError(t, w.Process(context.Background(), raw))

	assert.Equal(t, "cliente@example.com", sender.to)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "termo_venda_7.pdf", sender.sent[0].Nome)
	assert.Equal(t, "%PDF", string(sender.sent[0].Dados[:4]))
}

func TestEmailWorker_GivesUpAfterMaxAttempts(t *testing.T) {
	retryBase = time.Millisecond
	t.Cleanup(func() { retryBase = time.Second })

	venda := &model.Venda{ID: uuid.New(), Numero: 8, DataVenda: time.Now()}
	sender := &fakeSender{failures: maxAttempts}
	w := NewEmailWorker(&fakeLoader{venda: venda}, sender, infra.Empresa{})

	raw, _ := json.Marshal(TermoEmailPayload{VendaID: venda.ID.String(), Email: "x@example.com"})
	assert.Error(t, w.Process(context.Background(), raw))
	assert.Empty(t, sender.sent)
}

func TestEmailWorker_UnknownSale(t *testing.T) {
	w := NewEmailWorker(&fakeLoader{}, &fakeSender{}, infra.Empresa{})
	raw, _ := json.Marshal(TermoEmailPayload{VendaID: uuid.NewString(), Email: "x@example.com"})
	assert.Error(t, w.Process(context.Background(), raw))
}
