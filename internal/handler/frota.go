package handler

import (
	"net/http"

	"viveiro/internal/dto"
	"viveiro/internal/service"

	"github.com/gin-gonic/gin"
)

// FrotaHandler serves vehicles, machines and the maintenance log.
type FrotaHandler struct{ svc service.FrotaService }

func NewFrotaHandler(svc service.FrotaService) *FrotaHandler { return &FrotaHandler{svc: svc} }

// ── Veículos ─────────────────────────────────────────────────────────────────

func (h *FrotaHandler) CriarVeiculo(c *gin.Context) {
	var req dto.VeiculoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarVeiculo(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FrotaHandler) ListarVeiculos(c *gin.Context) {
	resp, err := h.svc.ListarVeiculos(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FrotaHandler) AtualizarVeiculo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.VeiculoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarVeiculo(c.Request.Context(), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FrotaHandler) ExcluirVeiculo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.ExcluirVeiculo(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Máquinas ─────────────────────────────────────────────────────────────────

func (h *FrotaHandler) CriarMaquina(c *gin.Context) {
	var req dto.MaquinaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarMaquina(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FrotaHandler) ListarMaquinas(c *gin.Context) {
	resp, err := h.svc.ListarMaquinas(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FrotaHandler) AtualizarMaquina(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.MaquinaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarMaquina(c.Request.Context(), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FrotaHandler) ExcluirMaquina(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.ExcluirMaquina(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Manutenções ──────────────────────────────────────────────────────────────

// CriarManutencao godoc
// @Summary      Registrar manutenção
// @Tags         frota
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.ManutencaoRequest true "Manutenção de veículo e/ou máquina"
// @Success      201  {object} dto.ManutencaoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/frota/manutencoes [post]
func (h *FrotaHandler) CriarManutencao(c *gin.Context) {
	var req dto.ManutencaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarManutencao(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarManutencoes godoc
// @Summary      Listar manutenções
// @Tags         frota
// @Produce      json
// @Security     BearerAuth
// @Param        veiculo_id query string false "UUID do veículo"
// @Param        maquina_id query string false "UUID da máquina"
// @Param        tipo       query string false "PREVENTIVA | CORRETIVA | LUBRIFICACAO | OUTRO"
// @Param        page       query int    false "Página"
// @Param        page_size  query int    false "Itens por página"
// @Success      200 {object} dto.Lista[dto.ManutencaoResponse]
// @Router       /v1/frota/manutencoes [get]
func (h *FrotaHandler) ListarManutencoes(c *gin.Context) {
	var filter dto.ManutencaoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarManutencoes(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FrotaHandler) ObterManutencao(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterManutencao(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FrotaHandler) AtualizarManutencao(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ManutencaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarManutencao(c.Request.Context(), id, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FrotaHandler) ExcluirManutencao(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.ExcluirManutencao(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
