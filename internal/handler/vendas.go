package handler

import (
	"net/http"

	"viveiro/internal/dto"
	"viveiro/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type VendasHandler struct{ svc service.VendaService }

func NewVendasHandler(svc service.VendaService) *VendasHandler { return &VendasHandler{svc: svc} }

// Finalizar godoc
// @Summary      Finalizar venda
// @Description  Cria a venda em uma única transação: trava os lotes, valida o estoque, baixa as quantidades e grava o total.
// @Tags         vendas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.FinalizarVendaRequest true "Itens da venda"
// @Success      201  {object} dto.FinalizarVendaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/vendas [post]
func (h *VendasHandler) Finalizar(c *gin.Context) {
	var req dto.FinalizarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Finalizar(c.Request.Context(), usuarioAtual(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Histórico de vendas
// @Tags         vendas
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string false "AAAA-MM-DD"
// @Param        end_date   query string false "AAAA-MM-DD, inclusive"
// @Param        numero     query int    false "Número da venda"
// @Param        status     query string false "finalizada | cancelada"
// @Param        page       query int    false "Página (padrão 1)"
// @Param        page_size  query int    false "Itens por página (padrão 10, máx. 100)"
// @Success      200 {object} dto.Lista[dto.VendaResponse]
// @Failure      400 {object} apierror.APIError
// @Router       /v1/vendas [get]
func (h *VendasHandler) Listar(c *gin.Context) {
	var filter dto.VendaFilter
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

func (h *VendasHandler) ObterPorID(c *gin.Context) {
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

// Excluir godoc
// @Summary      Excluir venda
// @Description  Restaura o estoque de cada lote e remove a venda e seus itens.
// @Tags         vendas
// @Security     BearerAuth
// @Param        id path string true "UUID da venda"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/vendas/{id} [delete]
func (h *VendasHandler) Excluir(c *gin.Context) {
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

// Anular godoc
// @Summary      Cancelar venda
// @Description  Restaura o estoque e marca a venda como cancelada; ela deixa de contar no saldo do caixa.
// @Tags         vendas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da venda"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/vendas/{id}/anular [post]
func (h *VendasHandler) Anular(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Anular(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Exportar godoc
// @Summary      Exportar vendas (xlsx)
// @Tags         vendas
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        start_date query string false "AAAA-MM-DD"
// @Param        end_date   query string false "AAAA-MM-DD"
// @Param        status     query string false "finalizada | cancelada"
// @Success      200 {file} binary
// @Router       /v1/vendas/export.xlsx [get]
func (h *VendasHandler) Exportar(c *gin.Context) {
	var filter dto.VendaFilter
	if !bindQuery(c, &filter) {
		return
	}
	body, err := h.svc.Exportar(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="vendas.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, body)
}

// Termo godoc
// @Summary      Termo de conformidade (PDF)
// @Tags         vendas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID da venda"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/vendas/{id}/termo [get]
func (h *VendasHandler) Termo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	pdf, err := h.svc.Termo(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendFile(c, "application/pdf", "termo_venda_"+id.String()+".pdf", pdf)
}

// EnviarTermo godoc
// @Summary      Enviar termo por e-mail
// @Description  Enfileira o envio; o PDF é gerado e enviado por um worker com novas tentativas.
// @Tags         vendas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID da venda"
// @Param        body body dto.EnviarTermoRequest true "Destinatário"
// @Success      202
// @Failure      404 {object} apierror.APIError
// @Failure      503 {object} apierror.APIError
// @Router       /v1/vendas/{id}/termo/email [post]
func (h *VendasHandler) EnviarTermo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.EnviarTermoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EnviarTermo(c.Request.Context(), id, req.Email); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"enfileirado": true})
}
