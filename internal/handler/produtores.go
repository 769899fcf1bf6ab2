package handler

import (
	"net/http"

	"viveiro/internal/dto"
	"viveiro/internal/service"

	"github.com/gin-gonic/gin"
)

type ProdutoresHandler struct{ svc service.ProdutorService }

func NewProdutoresHandler(svc service.ProdutorService) *ProdutoresHandler {
	return &ProdutoresHandler{svc: svc}
}

// Criar godoc
// @Summary      Cadastrar produtor rural
// @Description  O documento deve ter 11 dígitos para PF e 14 para PJ. Exige ao menos um telefone.
// @Tags         produtores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.ProdutorRequest true "Produtor"
// @Success      201  {object} dto.ProdutorResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/produtores [post]
func (h *ProdutoresHandler) Criar(c *gin.Context) {
	var req dto.ProdutorRequest
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

func (h *ProdutoresHandler) Listar(c *gin.Context) {
	var p dto.Paginacao
	if !bindQuery(c, &p) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), c.Query("q"), p)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutoresHandler) ObterPorID(c *gin.Context) {
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

func (h *ProdutoresHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ProdutorRequest
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

// Excluir godoc
// @Summary      Excluir produtor rural
// @Description  Remove também os responsáveis técnicos. Lotes vinculados ficam sem produtor.
// @Tags         produtores
// @Security     BearerAuth
// @Param        id path string true "ID do produtor"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/produtores/{id} [delete]
func (h *ProdutoresHandler) Excluir(c *gin.Context) {
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

func (h *ProdutoresHandler) CriarResponsavel(c *gin.Context) {
	var req dto.ResponsavelRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarResponsavel(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarResponsaveis godoc
// @Summary      Listar responsáveis técnicos
// @Tags         produtores
// @Produce      json
// @Security     BearerAuth
// @Param        produtor_id query string false "Filtra pelo produtor"
// @Param        page        query int    false "Página"
// @Param        page_size   query int    false "Itens por página"
// @Success      200 {object} dto.Lista[dto.ResponsavelResponse]
// @Router       /v1/responsaveis-tecnicos [get]
func (h *ProdutoresHandler) ListarResponsaveis(c *gin.Context) {
	var f dto.ResponsavelFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.ListarResponsaveis(c.Request.Context(), f)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutoresHandler) ObterResponsavel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterResponsavel(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutoresHandler) AtualizarResponsavel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ResponsavelRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarResponsavel(c.Request.Context(), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutoresHandler) ExcluirResponsavel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.ExcluirResponsavel(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
