package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/model"
	"viveiro/internal/repository"

	"github.com/google/uuid"
)

// FrotaService manages vehicles, machines and their maintenance history.
type FrotaService interface {
	CriarVeiculo(ctx context.Context, req dto.VeiculoRequest) (*dto.VeiculoResponse, error)
	ListarVeiculos(ctx context.Context) ([]dto.VeiculoResponse, error)
	AtualizarVeiculo(ctx context.Context, id uuid.UUID, req dto.VeiculoRequest) (*dto.VeiculoResponse, error)
	ExcluirVeiculo(ctx context.Context, id uuid.UUID) error

	CriarMaquina(ctx context.Context, req dto.MaquinaRequest) (*dto.MaquinaResponse, error)
	ListarMaquinas(ctx context.Context) ([]dto.MaquinaResponse, error)
	AtualizarMaquina(ctx context.Context, id uuid.UUID, req dto.MaquinaRequest) (*dto.MaquinaResponse, error)
	ExcluirMaquina(ctx context.Context, id uuid.UUID) error

	CriarManutencao(ctx context.Context, req dto.ManutencaoRequest) (*dto.ManutencaoResponse, error)
	ObterManutencao(ctx context.Context, id uuid.UUID) (*dto.ManutencaoResponse, error)
	ListarManutencoes(ctx context.Context, filter dto.ManutencaoFilter) (*dto.Lista[dto.ManutencaoResponse], error)
	AtualizarManutencao(ctx context.Context, id uuid.UUID, req dto.ManutencaoRequest) (*dto.ManutencaoResponse, error)
	ExcluirManutencao(ctx context.Context, id uuid.UUID) error
}

type frotaService struct {
	repo repository.FrotaRepository
}

func NewFrotaService(repo repository.FrotaRepository) FrotaService {
	return &frotaService{repo: repo}
}

// ── Veículos ─────────────────────────────────────────────────────────────────

func (s *frotaService) CriarVeiculo(ctx context.Context, req dto.VeiculoRequest) (*dto.VeiculoResponse, error) {
	v := &model.Veiculo{}
	aplicarVeiculo(v, req)
	if err := s.repo.CreateVeiculo(ctx, v); err != nil {
		return nil, err
	}
	resp := veiculoToResponse(v)
	return &resp, nil
}

func (s *frotaService) ListarVeiculos(ctx context.Context) ([]dto.VeiculoResponse, error) {
	vs, err := s.repo.ListVeiculos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VeiculoResponse, len(vs))
	for i := range vs {
		out[i] = veiculoToResponse(&vs[i])
	}
	return out, nil
}

func (s *frotaService) AtualizarVeiculo(ctx context.Context, id uuid.UUID, req dto.VeiculoRequest) (*dto.VeiculoResponse, error) {
	v, err := s.repo.FindVeiculo(ctx, id)
	if err != nil {
		return nil, err
	}
	aplicarVeiculo(v, req)
	if err := s.repo.UpdateVeiculo(ctx, v); err != nil {
		return nil, err
	}
	resp := veiculoToResponse(v)
	return &resp, nil
}

func (s *frotaService) ExcluirVeiculo(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteVeiculo(ctx, id)
}

func aplicarVeiculo(v *model.Veiculo, req dto.VeiculoRequest) {
	v.Nome = req.Nome
	v.Placa = upperPtr(vazioNil(req.Placa))
	v.Modelo = req.Modelo
	v.Ano = req.Ano
	v.TipoCombustivel = req.TipoCombustivel
	if v.TipoCombustivel == "" {
		v.TipoCombustivel = "OUTRO"
	}
	v.Observacoes = req.Observacoes
}

// ── Máquinas ─────────────────────────────────────────────────────────────────

func (s *frotaService) CriarMaquina(ctx context.Context, req dto.MaquinaRequest) (*dto.MaquinaResponse, error) {
	m := &model.Maquina{}
	aplicarMaquina(m, req)
	if err := s.repo.CreateMaquina(ctx, m); err != nil {
		return nil, err
	}
	resp := maquinaToResponse(m)
	return &resp, nil
}

func (s *frotaService) ListarMaquinas(ctx context.Context) ([]dto.MaquinaResponse, error) {
	ms, err := s.repo.ListMaquinas(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaquinaResponse, len(ms))
	for i := range ms {
		out[i] = maquinaToResponse(&ms[i])
	}
	return out, nil
}

func (s *frotaService) AtualizarMaquina(ctx context.Context, id uuid.UUID, req dto.MaquinaRequest) (*dto.MaquinaResponse, error) {
	m, err := s.repo.FindMaquina(ctx, id)
	if err != nil {
		return nil, err
	}
	aplicarMaquina(m, req)
	if err := s.repo.UpdateMaquina(ctx, m); err != nil {
		return nil, err
	}
	resp := maquinaToResponse(m)
	return &resp, nil
}

func (s *frotaService) ExcluirMaquina(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteMaquina(ctx, id)
}

func aplicarMaquina(m *model.Maquina, req dto.MaquinaRequest) {
	m.Nome = req.Nome
	m.Tipo = req.Tipo
	if m.Tipo == "" {
		m.Tipo = "OUTRO"
	}
	m.Identificacao = vazioNil(req.Identificacao)
	m.Ano = req.Ano
	m.Observacoes = req.Observacoes
}

// ── Manutenções ──────────────────────────────────────────────────────────────

func (s *frotaService) CriarManutencao(ctx context.Context, req dto.ManutencaoRequest) (*dto.ManutencaoResponse, error) {
	m := &model.Manutencao{}
	if err := s.aplicarManutencao(ctx, m, req); err != nil {
		return nil, err
	}
	if err := s.repo.CreateManutencao(ctx, m); err != nil {
		return nil, err
	}
	return s.ObterManutencao(ctx, m.ID)
}

func (s *frotaService) ObterManutencao(ctx context.Context, id uuid.UUID) (*dto.ManutencaoResponse, error) {
	m, err := s.repo.FindManutencao(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := manutencaoToResponse(m)
	return &resp, nil
}

func (s *frotaService) ListarManutencoes(ctx context.Context, filter dto.ManutencaoFilter) (*dto.Lista[dto.ManutencaoResponse], error) {
	filter.Normalizar(10, 100)
	for _, raw := range []string{filter.VeiculoID, filter.MaquinaID} {
		if raw == "" {
			continue
		}
		if _, err := uuid.Parse(raw); err != nil {
			return nil, fmt.Errorf("%w: filtro com id inválido", domain.ErrInvalidInput)
		}
	}
	ms, total, err := s.repo.ListManutencoes(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ManutencaoResponse, len(ms))
	for i := range ms {
		items[i] = manutencaoToResponse(&ms[i])
	}
	return dto.NovaLista(items, total, filter.Paginacao), nil
}

func (s *frotaService) AtualizarManutencao(ctx context.Context, id uuid.UUID, req dto.ManutencaoRequest) (*dto.ManutencaoResponse, error) {
	m, err := s.repo.FindManutencao(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.aplicarManutencao(ctx, m, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateManutencao(ctx, m); err != nil {
		return nil, err
	}
	return s.ObterManutencao(ctx, id)
}

func (s *frotaService) ExcluirManutencao(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteManutencao(ctx, id)
}

func (s *frotaService) aplicarManutencao(ctx context.Context, m *model.Manutencao, req dto.ManutencaoRequest) error {
	if req.Custo.IsNegative() {
		return fmt.Errorf("%w: custo não pode ser negativo", domain.ErrInvalidInput)
	}
	data, err := time.Parse(dto.DataLayout, req.DataManutencao)
	if err != nil {
		return fmt.Errorf("%w: data_manutencao deve estar no formato AAAA-MM-DD", domain.ErrInvalidInput)
	}
	veiculoID, err := parseOptionalID(req.VeiculoID, "veiculo_id")
	if err != nil {
		return err
	}
	maquinaID, err := parseOptionalID(req.MaquinaID, "maquina_id")
	if err != nil {
		return err
	}
	if veiculoID != nil {
		if _, err := s.repo.FindVeiculo(ctx, *veiculoID); err != nil {
			return err
		}
	}
	if maquinaID != nil {
		if _, err := s.repo.FindMaquina(ctx, *maquinaID); err != nil {
			return err
		}
	}

	m.VeiculoID, m.MaquinaID = veiculoID, maquinaID
	m.Veiculo, m.Maquina = nil, nil
	m.DataManutencao = data
	m.Tipo = req.Tipo
	m.Descricao = req.Descricao
	m.Custo = req.Custo.Round(2)
	m.RealizadaPor = req.RealizadaPor
	return nil
}

func vazioNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func veiculoToResponse(v *model.Veiculo) dto.VeiculoResponse {
	return dto.VeiculoResponse{
		ID:              v.ID.String(),
		Nome:            v.Nome,
		Placa:           v.Placa,
		Modelo:          v.Modelo,
		Ano:             v.Ano,
		TipoCombustivel: v.TipoCombustivel,
		Observacoes:     v.Observacoes,
	}
}

func maquinaToResponse(m *model.Maquina) dto.MaquinaResponse {
	return dto.MaquinaResponse{
		ID:            m.ID.String(),
		Nome:          m.Nome,
		Tipo:          m.Tipo,
		Identificacao: m.Identificacao,
		Ano:           m.Ano,
		Observacoes:   m.Observacoes,
	}
}

func manutencaoToResponse(m *model.Manutencao) dto.ManutencaoResponse {
	resp := dto.ManutencaoResponse{
		DataManutencao: m.DataManutencao.Format(dto.DataLayout),
		ID:             m.ID.String(),
		Tipo:           m.Tipo,
		Descricao:      m.Descricao,
		Custo:          m.Custo,
		RealizadaPor:   m.RealizadaPor,
	}
	if m.VeiculoID != nil {
		id := m.VeiculoID.String()
		resp.VeiculoID = &id
	}
	if m.MaquinaID != nil {
		id := m.MaquinaID.String()
		resp.MaquinaID = &id
	}
	if m.Veiculo != nil {
		resp.Veiculo = m.Veiculo.Nome
	}
	if m.Maquina != nil {
		resp.Maquina = m.Maquina.Nome
	}
	return resp
}
