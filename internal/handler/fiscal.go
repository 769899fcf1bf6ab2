package handler

import (
	"net/http"

	"viveiro/internal/service"

	"github.com/gin-gonic/gin"
)

// FiscalHandler serves the NCM/CFOP autocomplete used by the product form.
type FiscalHandler struct{ svc service.FiscalService }

func NewFiscalHandler(svc service.FiscalService) *FiscalHandler { return &FiscalHandler{svc: svc} }

// BuscarNCM godoc
// @Summary      Buscar NCM
// @Tags         fiscal
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Código (com ou sem pontos) ou descrição"
// @Success      200 {array} dto.OpcaoBusca
// @Router       /v1/fiscal/ncm [get]
func (h *FiscalHandler) BuscarNCM(c *gin.Context) {
	resp, err := h.svc.BuscarNCM(c.Request.Context(), c.Query("q"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarCFOP godoc
// @Summary      Buscar CFOP
// @Tags         fiscal
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Código ou descrição"
// @Success      200 {array} dto.OpcaoBusca
// @Router       /v1/fiscal/cfop [get]
func (h *FiscalHandler) BuscarCFOP(c *gin.Context) {
	resp, err := h.svc.BuscarCFOP(c.Request.Context(), c.Query("q"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
