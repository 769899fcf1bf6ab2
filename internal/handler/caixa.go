package handler

import (
	"net/http"

	"viveiro/internal/dto"
	"viveiro/internal/service"

	"github.com/gin-gonic/gin"
)

type CaixaHandler struct{ svc service.CaixaService }

func NewCaixaHandler(svc service.CaixaService) *CaixaHandler { return &CaixaHandler{svc: svc} }

// Historico godoc
// @Summary      Livro caixa
// @Description  Saldo = total das vendas finalizadas menos as retiradas. Movimentos do mais recente ao mais antigo.
// @Tags         caixa
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.HistoricoCaixaResponse
// @Router       /v1/caixa [get]
func (h *CaixaHandler) Historico(c *gin.Context) {
	resp, err := h.svc.Historico(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarMovimento godoc
// @Summary      Registrar entrada ou retirada
// @Tags         caixa
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.MovimentoCaixaRequest true "Movimento"
// @Success      201  {object} dto.MovimentoCaixaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/caixa/movimentos [post]
func (h *CaixaHandler) RegistrarMovimento(c *gin.Context) {
	var req dto.MovimentoCaixaRequest
	if !bindFormOrJSON(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimento(c.Request.Context(), usuarioAtual(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
