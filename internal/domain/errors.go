// Package domain holds the error taxonomy shared by services and handlers.
package domain

import "errors"

var (
	ErrNotFound          = errors.New("registro não encontrado")
	ErrInvalidInput      = errors.New("dados inválidos")
	ErrInsufficientStock = errors.New("estoque insuficiente")
	ErrConflict          = errors.New("conflito")
	ErrUnavailable       = errors.New("serviço externo indisponível")
	ErrUnauthorized      = errors.New("não autorizado")
)
