package handler

import (
	"net/http"
	"strconv"

	"viveiro/internal/apierror"
	"viveiro/internal/dto"
	"viveiro/internal/service"

	"github.com/gin-gonic/gin"
)

type LotesHandler struct{ svc service.LoteService }

func NewLotesHandler(svc service.LoteService) *LotesHandler { return &LotesHandler{svc: svc} }

// Criar godoc
// @Summary      Cadastrar lote
// @Description  O código é gerado a partir do código do produto e da data de semeadura (DDMMAA).
// @Tags         lotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.LoteRequest true "Lote"
// @Success      201  {object} dto.LoteResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/lotes [post]
func (h *LotesHandler) Criar(c *gin.Context) {
	var req dto.LoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LotesHandler) Listar(c *gin.Context) {
	var filter dto.LoteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Buscar godoc
// @Summary      Busca de lotes para o caixa
// @Tags         lotes
// @Produce      json
// @Security     BearerAuth
// @Param        q query string true "Código do lote, variedade, espécie ou categoria"
// @Success      200 {array} dto.LoteResponse
// @Router       /v1/lotes/busca [get]
func (h *LotesHandler) Buscar(c *gin.Context) {
	resp, err := h.svc.Buscar(c.Request.Context(), c.Query("q"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorCodigo godoc
// @Summary      Consulta de preço por código de lote
// @Description  Resposta servida do cache Redis enquanto nenhum lote for alterado.
// @Tags         lotes
// @Produce      json
// @Security     BearerAuth
// @Param        codigo path string true "Código do lote"
// @Success      200 {object} dto.LoteResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/lotes/codigo/{codigo} [get]
func (h *LotesHandler) PorCodigo(c *gin.Context) {
	resp, err := h.svc.PorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LotesHandler) ObterPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterPorID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LotesHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.LoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LotesHandler) Excluir(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Etiqueta godoc
// @Summary      Etiquetas do lote (PDF 50×15 mm)
// @Tags         lotes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id         path  string true  "UUID do lote"
// @Param        quantidade query int    false "Número de cópias (1 a 500)"
// @Success      200 {file} binary
// @Failure      400 {object} apierror.APIError
// @Router       /v1/lotes/{id}/etiqueta [get]
func (h *LotesHandler) Etiqueta(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	copias, err := strconv.Atoi(c.DefaultQuery("quantidade", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("quantidade deve ser um número inteiro"))
		return
	}
	pdf, err := h.svc.Etiqueta(c.Request.Context(), id, copias)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendFile(c, "application/pdf", "etiqueta_lote_"+id.String()+".pdf", pdf)
}
