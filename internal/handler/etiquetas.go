package handler

import (
	"net/http"

	"viveiro/internal/dto"
	"viveiro/internal/service"

	"github.com/gin-gonic/gin"
)

type EtiquetasHandler struct{ svc service.EtiquetaService }

func NewEtiquetasHandler(svc service.EtiquetaService) *EtiquetasHandler {
	return &EtiquetasHandler{svc: svc}
}

// Criar godoc
// @Summary      Cadastrar etiqueta
// @Description  Com lote_id, o código, a variedade e o produto são copiados do lote.
// @Tags         etiquetas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.EtiquetaRequest true "Etiqueta"
// @Success      201  {object} dto.EtiquetaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/etiquetas [post]
func (h *EtiquetasHandler) Criar(c *gin.Context) {
	var req dto.EtiquetaRequest
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

func (h *EtiquetasHandler) Listar(c *gin.Context) {
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

func (h *EtiquetasHandler) ObterPorID(c *gin.Context) {
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

func (h *EtiquetasHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.EtiquetaRequest
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

func (h *EtiquetasHandler) Excluir(c *gin.Context) {
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

func (h *EtiquetasHandler) PDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	pdf, err := h.svc.PDF(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendFile(c, "application/pdf", "etiqueta_"+id.String()+".pdf", pdf)
}
