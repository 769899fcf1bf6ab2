package service

import (
	"context"
	"fmt"
	"time"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/model"
	"viveiro/internal/repository"

	"github.com/google/uuid"
)

type CaixaService interface {
	Historico(ctx context.Context) (*dto.HistoricoCaixaResponse, error)
	RegistrarMovimento(ctx context.Context, usuarioID *uuid.UUID, req dto.MovimentoCaixaRequest) (*dto.MovimentoCaixaResponse, error)
}

type caixaService struct {
	repo   repository.CaixaRepository
	vendas repository.VendaRepository
}

func NewCaixaService(repo repository.CaixaRepository, vendas repository.VendaRepository) CaixaService {
	return &caixaService{repo: repo, vendas: vendas}
}

// Historico computes saldo = Σ finalized sales − Σ withdrawals. Entries are
// totalled for display only.
func (s *caixaService) Historico(ctx context.Context) (*dto.HistoricoCaixaResponse, error) {
	vendas, err := s.vendas.SomaFinalizadas(ctx)
	if err != nil {
		return nil, err
	}
	retiradas, err := s.repo.SomaPorTipo(ctx, model.MovimentoRetirada)
	if err != nil {
		return nil, err
	}
	entradas, err := s.repo.SomaPorTipo(ctx, model.MovimentoEntrada)
	if err != nil {
		return nil, err
	}
	movs, err := s.repo.ListMovimentos(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.HistoricoCaixaResponse{
		Saldo:          vendas.Sub(retiradas),
		TotalVendas:    vendas,
		TotalRetiradas: retiradas,
		TotalEntradas:  entradas,
		Movimentos:     make([]dto.MovimentoCaixaResponse, len(movs)),
	}
	for i := range movs {
		resp.Movimentos[i] = movimentoCaixaToResponse(&movs[i])
	}
	return resp, nil
}

func (s *caixaService) RegistrarMovimento(ctx context.Context, usuarioID *uuid.UUID, req dto.MovimentoCaixaRequest) (*dto.MovimentoCaixaResponse, error) {
	if req.Tipo != model.MovimentoEntrada && req.Tipo != model.MovimentoRetirada {
		return nil, fmt.Errorf("%w: tipo deve ser entrada ou retirada", domain.ErrInvalidInput)
	}
	if req.Valor == nil || !req.Valor.IsPositive() {
		return nil, fmt.Errorf("%w: valor deve ser maior que zero", domain.ErrInvalidInput)
	}
	mov := &model.MovimentoCaixa{
		Tipo:      req.Tipo,
		Valor:     req.Valor.Round(2),
		Descricao: req.Descricao,
		UsuarioID: usuarioID,
		DataHora:  time.Now(),
	}
	if err := s.repo.CreateMovimento(ctx, mov); err != nil {
		return nil, err
	}
	resp := movimentoCaixaToResponse(mov)
	return &resp, nil
}

func movimentoCaixaToResponse(m *model.MovimentoCaixa) dto.MovimentoCaixaResponse {
	return dto.MovimentoCaixaResponse{
		ID:        m.ID.String(),
		Tipo:      m.Tipo,
		Valor:     m.Valor,
		Descricao: m.Descricao,
		DataHora:  m.DataHora.Format(time.RFC3339),
	}
}
