package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"viveiro/internal/infra"
	"viveiro/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TermoEmailPayload is the job body sent to QueueEmail.
type TermoEmailPayload struct {
	VendaID string `json:"venda_id"`
	Email   string `json:"email"`
}

// VendaLoader is the slice of the sale repository the worker needs.
type VendaLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
}

// Sender delivers one message; infra.Mailer satisfies it.
type Sender interface {
	Enviar(to, assunto, corpo string, anexos ...infra.Anexo) error
}

// EmailWorker renders the compliance term of a sale and mails it as a PDF attachment.
type EmailWorker struct {
	vendas  VendaLoader
	mailer  Sender
	empresa infra.Empresa
}

func NewEmailWorker(vendas VendaLoader, mailer Sender, empresa infra.Empresa) *EmailWorker {
	return &EmailWorker{vendas: vendas, mailer: mailer, empresa: empresa}
}

// Process returns an error only when the job should be dead-lettered.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload TermoEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("payload inválido: %w", err)
	}
	if payload.Email == "" {
		log.Warn().Str("venda_id", payload.VendaID).Msg("email_worker: empty email, skipping")
		return nil
	}
	id, err := uuid.Parse(payload.VendaID)
	if err != nil {
		return fmt.Errorf("venda_id inválido: %w", err)
	}

	venda, err := w.vendas.FindByID(ctx, id)
	if err != nil {
		return err
	}
	pdf, err := infra.RenderTermoConformidade(w.empresa, venda)
	if err != nil {
		return err
	}

	assunto := fmt.Sprintf("Termo de Conformidade - Venda #%d", venda.Numero)
	corpo := fmt.Sprintf("Segue em anexo o termo de conformidade referente à venda #%d.\n\n%s", venda.Numero, w.empresa.Nome)
	anexo := infra.Anexo{
		Nome:        fmt.Sprintf("termo_venda_%d.pdf", venda.Numero),
		ContentType: "application/pdf",
		Dados:       pdf,
	}

	err = withRetry(ctx, maxAttempts, func(attempt int) error {
		err := w.mailer.Enviar(payload.Email, assunto, corpo, anexo)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("to", payload.Email).Msg("email_worker: send failed")
		}
		if errors.Is(err, infra.ErrMailerNaoConfigurado) {
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	log.Info().Str("to", payload.Email).Int("numero", venda.Numero).Msg("email_worker: termo sent")
	return nil
}
