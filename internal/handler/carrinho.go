package handler

import (
	"net/http"

	"viveiro/internal/apierror"
	"viveiro/internal/dto"
	"viveiro/internal/service"

	"github.com/gin-gonic/gin"
)

// CartTokenHeader identifies the anonymous catalog cart.
const CartTokenHeader = "X-Cart-Token"

type CarrinhoHandler struct{ svc service.CarrinhoService }

func NewCarrinhoHandler(svc service.CarrinhoService) *CarrinhoHandler {
	return &CarrinhoHandler{svc: svc}
}

func cartToken(c *gin.Context) (string, bool) {
	token := c.GetHeader(CartTokenHeader)
	if token == "" {
		c.JSON(http.StatusBadRequest, apierror.New("header "+CartTokenHeader+" é obrigatório"))
		return "", false
	}
	return token, true
}

// Ver godoc
// @Summary      Ver carrinho
// @Tags         carrinho
// @Produce      json
// @Param        X-Cart-Token header string true "Token do carrinho"
// @Success      200 {object} dto.CarrinhoResponse
// @Router       /v1/carrinho [get]
func (h *CarrinhoHandler) Ver(c *gin.Context) {
	token, ok := cartToken(c)
	if !ok {
		return
	}
	resp, err := h.svc.Ver(c.Request.Context(), token)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarrinhoHandler) Contar(c *gin.Context) {
	token, ok := cartToken(c)
	if !ok {
		return
	}
	n, err := h.svc.Contar(c.Request.Context(), token)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_itens": n})
}

// Adicionar godoc
// @Summary      Adicionar produto ao carrinho
// @Description  A quantidade acumulada não pode passar do estoque do produto.
// @Tags         carrinho
// @Accept       json
// @Produce      json
// @Param        X-Cart-Token header string                  true "Token do carrinho"
// @Param        body         body   dto.ItemCarrinhoRequest true "Item"
// @Success      200 {object} dto.CarrinhoResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/carrinho/itens [post]
func (h *CarrinhoHandler) Adicionar(c *gin.Context) {
	token, ok := cartToken(c)
	if !ok {
		return
	}
	var req dto.ItemCarrinhoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Adicionar(c.Request.Context(), token, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarrinhoHandler) AtualizarQuantidade(c *gin.Context) {
	token, ok := cartToken(c)
	if !ok {
		return
	}
	produtoID, ok := paramID(c, "produto_id")
	if !ok {
		return
	}
	var req dto.QuantidadeCarrinhoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarQuantidade(c.Request.Context(), token, produtoID, req.Quantidade)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarrinhoHandler) Remover(c *gin.Context) {
	token, ok := cartToken(c)
	if !ok {
		return
	}
	produtoID, ok := paramID(c, "produto_id")
	if !ok {
		return
	}
	resp, err := h.svc.Remover(c.Request.Context(), token, produtoID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Checkout godoc
// @Summary      Fechar carrinho
// @Description  Escolhe, para cada item, o lote mais antigo com quantidade suficiente e cria um pedido PENDENTE.
// @Tags         carrinho
// @Accept       json
// @Produce      json
// @Param        X-Cart-Token header string              true "Token do carrinho"
// @Param        body         body   dto.CheckoutRequest false "Cliente e observações"
// @Success      201 {object} dto.PedidoResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/carrinho/checkout [post]
func (h *CarrinhoHandler) Checkout(c *gin.Context) {
	token, ok := cartToken(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), token, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
