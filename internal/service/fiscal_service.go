package service

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/model"
	"viveiro/internal/repository"
)

const limiteBuscaFiscal = 10

// FiscalService searches and loads the NCM and CFOP reference tables.
type FiscalService interface {
	BuscarNCM(ctx context.Context, q string) ([]dto.OpcaoBusca, error)
	BuscarCFOP(ctx context.Context, q string) ([]dto.OpcaoBusca, error)
	ImportarNCM(ctx context.Context, r io.Reader) (int64, error)
	ImportarCFOP(ctx context.Context, r io.Reader) (int, error)
}

type fiscalService struct {
	repo repository.FiscalRepository
}

func NewFiscalService(repo repository.FiscalRepository) FiscalService {
	return &fiscalService{repo: repo}
}

func (s *fiscalService) BuscarNCM(ctx context.Context, q string) ([]dto.OpcaoBusca, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []dto.OpcaoBusca{}, nil
	}
	codigo := ""
	if d := strings.ReplaceAll(q, ".", ""); len(d) == 8 && soDigitos(d) {
		codigo = d
	}
	ncms, err := s.repo.SearchNCM(ctx, codigo, q, limiteBuscaFiscal)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OpcaoBusca, len(ncms))
	for i, n := range ncms {
		out[i] = dto.OpcaoBusca{ID: n.ID.String(), Text: n.Codigo + " - " + n.Descricao}
	}
	return out, nil
}

func (s *fiscalService) BuscarCFOP(ctx context.Context, q string) ([]dto.OpcaoBusca, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []dto.OpcaoBusca{}, nil
	}
	codigo := ""
	if d := strings.ReplaceAll(q, ".", ""); (len(d) == 4 || len(d) == 5) && soDigitos(d) {
		codigo = d
	}
	cfops, err := s.repo.SearchCFOP(ctx, codigo, q, limiteBuscaFiscal)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OpcaoBusca, len(cfops))
	for i, c := range cfops {
		out[i] = dto.OpcaoBusca{ID: c.ID.String(), Text: c.Codigo + " - " + c.Descricao}
	}
	return out, nil
}

// nomenclaturas is the layout of the Siscomex NCM JSON export.
type nomenclaturas struct {
	Nomenclaturas []struct {
		Codigo    string `json:"Codigo"`
		Descricao string `json:"Descricao"`
	} `json:"Nomenclaturas"`
}

// ImportarNCM inserts every entry, ignoring codes already present.
func (s *fiscalService) ImportarNCM(ctx context.Context, r io.Reader) (int64, error) {
	var doc nomenclaturas
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("%w: json de NCM: %v", domain.ErrInvalidInput, err)
	}
	ncms := make([]model.NCM, 0, len(doc.Nomenclaturas))
	for _, n := range doc.Nomenclaturas {
		codigo, desc := strings.TrimSpace(n.Codigo), strings.TrimSpace(n.Descricao)
		if codigo == "" || desc == "" {
			continue
		}
		ncms = append(ncms, model.NCM{Codigo: codigo, Descricao: desc})
	}
	return s.repo.ImportNCM(ctx, ncms)
}

// ImportarCFOP replaces the table with lines "CODIGO - DESCRICAO". Blank
// lines, '#' comments and lines without the separator are skipped.
func (s *fiscalService) ImportarCFOP(ctx context.Context, r io.Reader) (int, error) {
	cfops, err := parseCFOP(r)
	if err != nil {
		return 0, err
	}
	if err := s.repo.ReplaceCFOP(ctx, cfops); err != nil {
		return 0, err
	}
	return len(cfops), nil
}

func parseCFOP(r io.Reader) ([]model.CFOP, error) {
	var out []model.CFOP
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		linha := strings.TrimSpace(sc.Text())
		if linha == "" || strings.HasPrefix(linha, "#") {
			continue
		}
		codigo, desc, ok := strings.Cut(linha, " - ")
		if !ok {
			continue
		}
		codigo, desc = strings.TrimSpace(codigo), strings.TrimSpace(desc)
		if codigo == "" || desc == "" {
			continue
		}
		out = append(out, model.CFOP{Codigo: codigo, Descricao: desc})
	}
	return out, sc.Err()
}

func soDigitos(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
