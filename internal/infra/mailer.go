package infra

import (
	"bytes"
	"errors"
	"fmt"
	"net/smtp"

	"viveiro/internal/config"

	"github.com/jordan-wright/email"
)

var ErrMailerNaoConfigurado = errors.New("smtp não configurado")

// Anexo is an in-memory attachment.
type Anexo struct {
	Nome        string
	ContentType string
	Dados       []byte
}

// Mailer sends mail through the configured SMTP relay.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

func (m *Mailer) Configurado() bool { return m != nil && m.host != "" }

// Enviar sends a plain-text message with optional attachments.
func (m *Mailer) Enviar(to, assunto, corpo string, anexos ...Anexo) error {
	if !m.Configurado() {
		return ErrMailerNaoConfigurado
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = assunto
	e.Text = []byte(corpo)

	for _, a := range anexos {
		if _, err := e.Attach(bytes.NewReader(a.Dados), a.Nome, a.ContentType); err != nil {
			return fmt.Errorf("mailer: anexar %s: %w", a.Nome, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
