package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/infra"
	"viveiro/internal/service"
	"viveiro/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func do(r http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

func TestHandleServiceError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: lote", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: lista vazia", domain.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: lote X", domain.ErrInsufficientStock), http.StatusConflict},
		{fmt.Errorf("%w: já cancelada", domain.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: credenciais", domain.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("%w: receitaws", domain.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("pq: deadlock detected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { handleServiceError(c, tc.err) })
			w := do(r, http.MethodGet, "/x", "")
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, "erro interno", detail(t, w))
			} else {
				assert.Equal(t, tc.err.Error(), detail(t, w))
			}
		})
	}
}

// ── Vendas ───────────────────────────────────────────────────────────────────

type fakeVendas struct {
	service.VendaService
	recebido dto.FinalizarVendaRequest
	err      error
}

func (f *fakeVendas) Finalizar(_ context.Context, _ *uuid.UUID, req dto.FinalizarVendaRequest) (*dto.FinalizarVendaResponse, error) {
	f.recebido = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.FinalizarVendaResponse{Success: true, VendaID: "v1"}, nil
}

func (f *fakeVendas) Excluir(_ context.Context, _ uuid.UUID) error { return f.err }

func (f *fakeVendas) Termo(_ context.Context, _ uuid.UUID) ([]byte, error) {
	return []byte("%PDF-1.3"), f.err
}

func vendasRouter(f *fakeVendas) *gin.Engine {
	h := NewVendasHandler(f)
	r := gin.New()
	r.POST("/v1/vendas", h.Finalizar)
	r.DELETE("/v1/vendas/:id", h.Excluir)
	r.GET("/v1/vendas/:id/termo", h.Termo)
	return r
}

func TestVendas_Finalizar(t *testing.T) {
	f := &fakeVendas{}
	r := vendasRouter(f)

	body := `{"itens":[{"lote_id":"` + uuid.NewString() + `","quantidade":2,"preco_unitario":"10.00"}]}`
	w := do(r, http.MethodPost, "/v1/vendas", body)
	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, f.recebido.Itens, 1)
	assert.True(t, f.recebido.Itens[0].PrecoUnitario.Equal(decimal.NewFromInt(10)))

	f.err = fmt.Errorf("%w: lote ALF01 tem 1", domain.ErrInsufficientStock)
	w = do(r, http.MethodPost, "/v1/vendas", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/v1/vendas", `{"itens":[{"lote_id":"abc","quantidade":1,"preco_unitario":1}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"lote_id":"uuid"`)

	w = do(r, http.MethodPost, "/v1/vendas", `{"itens":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVendas_ExcluirETermo(t *testing.T) {
	f := &fakeVendas{}
	r := vendasRouter(f)
	id := uuid.NewString()

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/v1/vendas/"+id, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, "/v1/vendas/nao-e-uuid", "").Code)

	w := do(r, http.MethodGet, "/v1/vendas/"+id+"/termo", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "termo_venda_"+id+".pdf")

	f.err = fmt.Errorf("%w: venda", domain.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/v1/vendas/"+id, "").Code)
}

// ── Caixa ────────────────────────────────────────────────────────────────────

type fakeCaixa struct{ service.CaixaService }

func (fakeCaixa) RegistrarMovimento(_ context.Context, _ *uuid.UUID, req dto.MovimentoCaixaRequest) (*dto.MovimentoCaixaResponse, error) {
	if req.Valor == nil || !req.Valor.IsPositive() {
		return nil, fmt.Errorf("%w: valor deve ser maior que zero", domain.ErrInvalidInput)
	}
	return &dto.MovimentoCaixaResponse{Tipo: req.Tipo, Valor: *req.Valor}, nil
}

func TestCaixa_RegistrarMovimento(t *testing.T) {
	h := NewCaixaHandler(fakeCaixa{})
	r := gin.New()
	r.POST("/v1/caixa/movimentos", h.RegistrarMovimento)

	w := do(r, http.MethodPost, "/v1/caixa/movimentos", `{"tipo":"retirada","valor":"12.50","descricao":"troco"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/v1/caixa/movimentos", `{"tipo":"retirada","valor":"-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/v1/caixa/movimentos", `{"tipo":"sangria","valor":"5"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"tipo":"oneof"`)
}

func TestCaixa_RegistrarMovimentoFormulario(t *testing.T) {
	h := NewCaixaHandler(fakeCaixa{})
	r := gin.New()
	r.POST("/v1/caixa/movimentos", h.RegistrarMovimento)

	w := do(r, http.MethodPost, "/v1/caixa/movimentos", "",
		"Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "tipo is required")

	req := httptest.NewRequest(http.MethodPost, "/v1/caixa/movimentos",
		strings.NewReader("tipo=retirada&valor=12.50&descricao=troco"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body dto.MovimentoCaixaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "retirada", body.Tipo)
	assert.True(t, decimal.RequireFromString("12.50").Equal(body.Valor))
}

// ── Produtores ───────────────────────────────────────────────────────────────

type fakeProdutores struct {
	service.ProdutorService
	filtro dto.ResponsavelFilter
	err    error
}

func (f *fakeProdutores) Criar(_ context.Context, req dto.ProdutorRequest) (*dto.ProdutorResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ProdutorResponse{ID: uuid.NewString(), TipoPessoa: req.TipoPessoa, CPFCNPJ: req.CPFCNPJ}, nil
}

func (f *fakeProdutores) ListarResponsaveis(_ context.Context, filter dto.ResponsavelFilter) (*dto.Lista[dto.ResponsavelResponse], error) {
	f.filtro = filter
	return dto.NovaLista([]dto.ResponsavelResponse{}, 0, filter.Paginacao), nil
}

func TestProdutores_CriarEListarResponsaveis(t *testing.T) {
	f := &fakeProdutores{}
	h := NewProdutoresHandler(f)
	r := gin.New()
	r.POST("/v1/produtores", h.Criar)
	r.GET("/v1/responsaveis-tecnicos", h.ListarResponsaveis)

	w := do(r, http.MethodPost, "/v1/produtores", `{"tipo_pessoa":"PF","cpf_cnpj":"123.456.789-09","telefone_principal":"41999998888"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/v1/produtores", `{"tipo_pessoa":"XX","cpf_cnpj":"12345678909"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"tipo_pessoa":"oneof"`)

	f.err = fmt.Errorf("%w: já existe produtor com este CPF/CNPJ", domain.ErrConflict)
	w = do(r, http.MethodPost, "/v1/produtores", `{"tipo_pessoa":"PF","cpf_cnpj":"12345678909"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	produtor := uuid.NewString()
	w = do(r, http.MethodGet, "/v1/responsaveis-tecnicos?produtor_id="+produtor+"&page=2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, produtor, f.filtro.ProdutorID)
	assert.Equal(t, 2, f.filtro.Page)
}

// ── Carrinho ─────────────────────────────────────────────────────────────────

type fakeCarrinho struct {
	service.CarrinhoService
	token string
}

func (f *fakeCarrinho) Contar(_ context.Context, token string) (int, error) {
	f.token = token
	return 3, nil
}

func TestCarrinho_ExigeToken(t *testing.T) {
	f := &fakeCarrinho{}
	h := NewCarrinhoHandler(f)
	r := gin.New()
	r.GET("/v1/carrinho/contagem", h.Contar)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/v1/carrinho/contagem", "").Code)

	w := do(r, http.MethodGet, "/v1/carrinho/contagem", "", CartTokenHeader, "tok-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_itens":3}`, w.Body.String())
	assert.Equal(t, "tok-1", f.token)
}

// ── Health ───────────────────────────────────────────────────────────────────

type breakerFixo infra.BreakerState

func (b breakerFixo) BreakerState() infra.BreakerState { return infra.BreakerState(b) }

func TestHealth_SemBancoResponde503(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, rdb.RPush(context.Background(), worker.DLQPrefix+worker.QueueEmail, "{}").Err())

	r := gin.New()
	r.GET("/health", Health(nil, rdb, breakerFixo(infra.BreakerClosed)))

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["db"])
	assert.Equal(t, "connected", body["redis"])
	assert.Equal(t, float64(1), body["email_dlq"])
	assert.Equal(t, infra.BreakerClosed.String(), body["cnpj_breaker"])
}

func TestFalhasEmail_ListaEntradas(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	entrada := `{"fila":"jobs:email","tipo":"termo_email","motivo":"smtp indisponível","tentativas":3}`
	require.NoError(t, rdb.LPush(context.Background(), worker.DLQPrefix+worker.QueueEmail, entrada, "lixo").Err())

	r := gin.New()
	r.GET("/falhas", FalhasEmail(rdb))

	w := do(r, http.MethodGet, "/falhas?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "smtp indisponível", body[0]["motivo"])

	w = do(r, http.MethodGet, "/falhas?limit=0x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
