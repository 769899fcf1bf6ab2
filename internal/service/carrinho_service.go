package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/infra"
	"viveiro/internal/model"
	"viveiro/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CarrinhoService keeps catalog carts in Redis hashes (produto_id → quantidade)
// keyed by the client token.
type CarrinhoService interface {
	Adicionar(ctx context.Context, token string, req dto.ItemCarrinhoRequest) (*dto.CarrinhoResponse, error)
	AtualizarQuantidade(ctx context.Context, token string, produtoID uuid.UUID, quantidade int) (*dto.CarrinhoResponse, error)
	Remover(ctx context.Context, token string, produtoID uuid.UUID) (*dto.CarrinhoResponse, error)
	Ver(ctx context.Context, token string) (*dto.CarrinhoResponse, error)
	Contar(ctx context.Context, token string) (int, error)
	Checkout(ctx context.Context, token string, req dto.CheckoutRequest) (*dto.PedidoResponse, error)
}

type carrinhoService struct {
	rdb      *redis.Client
	ttl      time.Duration
	produtos repository.ProdutoRepository
	lotes    repository.LoteRepository
	pedidos  *pedidoService
}

func NewCarrinhoService(
	rdb *redis.Client,
	ttl time.Duration,
	pedidos repository.PedidoRepository,
	lotes repository.LoteRepository,
	produtos repository.ProdutoRepository,
	movimentos repository.MovimentoEstoqueRepository,
	clientes repository.ClienteRepository,
	precos *infra.Cache,
) CarrinhoService {
	return &carrinhoService{
		rdb:      rdb,
		ttl:      ttl,
		produtos: produtos,
		lotes:    lotes,
		pedidos: &pedidoService{
			repo:     pedidos,
			clientes: clientes,
			estoque:  estoque{lotes: lotes, produtos: produtos, movimentos: movimentos, precos: precos},
		},
	}
}

const maxTokenCarrinho = 64

func chaveCarrinho(token string) (string, error) {
	if token == "" || len(token) > maxTokenCarrinho {
		return "", fmt.Errorf("%w: cabeçalho X-Cart-Token ausente ou inválido", domain.ErrInvalidInput)
	}
	return "carrinho:" + token, nil
}

func (s *carrinhoService) Adicionar(ctx context.Context, token string, req dto.ItemCarrinhoRequest) (*dto.CarrinhoResponse, error) {
	key, err := chaveCarrinho(token)
	if err != nil {
		return nil, err
	}
	produtoID, err := uuid.Parse(req.ProdutoID)
	if err != nil {
		return nil, fmt.Errorf("%w: produto_id inválido", domain.ErrInvalidInput)
	}
	if req.Quantidade <= 0 {
		return nil, fmt.Errorf("%w: quantidade deve ser maior que zero", domain.ErrInvalidInput)
	}
	atual, err := s.quantidade(ctx, key, produtoID)
	if err != nil {
		return nil, err
	}
	if err := s.gravar(ctx, key, produtoID, atual+req.Quantidade); err != nil {
		return nil, err
	}
	return s.Ver(ctx, token)
}

// AtualizarQuantidade sets the quantity; zero removes the item.
func (s *carrinhoService) AtualizarQuantidade(ctx context.Context, token string, produtoID uuid.UUID, quantidade int) (*dto.CarrinhoResponse, error) {
	key, err := chaveCarrinho(token)
	if err != nil {
		return nil, err
	}
	if quantidade < 0 {
		return nil, fmt.Errorf("%w: quantidade não pode ser negativa", domain.ErrInvalidInput)
	}
	if quantidade == 0 {
		return s.Remover(ctx, token, produtoID)
	}
	if err := s.gravar(ctx, key, produtoID, quantidade); err != nil {
		return nil, err
	}
	return s.Ver(ctx, token)
}

func (s *carrinhoService) Remover(ctx context.Context, token string, produtoID uuid.UUID) (*dto.CarrinhoResponse, error) {
	key, err := chaveCarrinho(token)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.HDel(ctx, key, produtoID.String()).Err(); err != nil {
		return nil, err
	}
	return s.Ver(ctx, token)
}

// Ver prices the cart at current product prices. Items whose product no
// longer exists are dropped from the hash.
func (s *carrinhoService) Ver(ctx context.Context, token string) (*dto.CarrinhoResponse, error) {
	key, err := chaveCarrinho(token)
	if err != nil {
		return nil, err
	}
	itens, err := s.ler(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := &dto.CarrinhoResponse{Itens: []dto.ItemCarrinhoResponse{}, Total: decimal.Zero}
	if len(itens) == 0 {
		return resp, nil
	}

	ids := make([]uuid.UUID, 0, len(itens))
	for id := range itens {
		ids = append(ids, id)
	}
	produtos, err := s.produtos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	porID := make(map[uuid.UUID]*model.Produto, len(produtos))
	for i := range produtos {
		porID[produtos[i].ID] = &produtos[i]
	}

	for _, id := range repository.SortIDs(ids) {
		p, ok := porID[id]
		if !ok {
			s.rdb.HDel(ctx, key, id.String())
			continue
		}
		qtd := itens[id]
		sub := p.Preco.Mul(decimal.NewFromInt(int64(qtd))).Round(2)
		resp.Itens = append(resp.Itens, dto.ItemCarrinhoResponse{
			ProdutoID:  id.String(),
			Cod:        p.Cod,
			Variedade:  p.Variedade,
			Quantidade: qtd,
			Preco:      p.Preco,
			Subtotal:   sub,
		})
		resp.TotalItens += qtd
		resp.Total = resp.Total.Add(sub)
	}
	sort.SliceStable(resp.Itens, func(i, j int) bool { return resp.Itens[i].Variedade < resp.Itens[j].Variedade })
	return resp, nil
}

func (s *carrinhoService) Contar(ctx context.Context, token string) (int, error) {
	key, err := chaveCarrinho(token)
	if err != nil {
		return 0, err
	}
	itens, err := s.ler(ctx, key)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, q := range itens {
		total += q
	}
	return total, nil
}

// Checkout turns the cart into a PENDENTE order. Each product resolves to its
// oldest-sown batch holding the whole quantity; the chosen batches are then
// locked together in id order and re-checked before the order is written.
// The cart is cleared only after the order commits.
func (s *carrinhoService) Checkout(ctx context.Context, token string, req dto.CheckoutRequest) (*dto.PedidoResponse, error) {
	key, err := chaveCarrinho(token)
	if err != nil {
		return nil, err
	}
	itens, err := s.ler(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(itens) == 0 {
		return nil, fmt.Errorf("%w: o carrinho está vazio", domain.ErrInvalidInput)
	}
	cab, err := s.pedidos.resolverCabecalho(ctx, req.ClienteID, decimal.Zero, decimal.Zero, nil, req.Observacoes)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(itens))
	for id := range itens {
		ids = append(ids, id)
	}
	produtos, err := s.produtos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	precos := make(map[uuid.UUID]decimal.Decimal, len(produtos))
	for _, p := range produtos {
		precos[p.ID] = p.Preco
	}

	var pedido *model.Pedido
	err = runTx(ctx, s.pedidos.repo.DB(), func(tx *gorm.DB) error {
		escolhidos := make(map[uuid.UUID]uuid.UUID, len(itens))
		loteIDs := make([]uuid.UUID, 0, len(itens))
		for _, id := range repository.SortIDs(ids) {
			if _, ok := precos[id]; !ok {
				return fmt.Errorf("%w: produto %s", domain.ErrNotFound, id)
			}
			l, err := s.lotes.FindOldestWithStock(ctx, tx, id, itens[id])
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: nenhum lote do produto tem %d unidades disponíveis", domain.ErrInsufficientStock, itens[id])
			}
			if err != nil {
				return err
			}
			escolhidos[id] = l.ID
			loteIDs = append(loteIDs, l.ID)
		}

		lotes, err := s.pedidos.estoque.travarLotes(ctx, tx, loteIDs)
		if err != nil {
			return err
		}
		linhas := make([]linhaPedido, 0, len(itens))
		for _, id := range repository.SortIDs(ids) {
			l := lotes[escolhidos[id]]
			if l.ProdutoID != id || l.Quantidade < itens[id] {
				return insuficiente(l, itens[id])
			}
			linhas = append(linhas, linhaPedido{lote: l, quantidade: itens[id], preco: precos[id]})
		}
		pedido, err = s.pedidos.criarTx(ctx, tx, cab, linhas)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.pedidos.estoque.invalidar(ctx, lotesDoPedido(pedido))
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("pedido_id", pedido.ID.String()).Msg("carrinho: pedido criado mas o carrinho não foi limpo")
	}
	resp := pedidoToResponse(pedido)
	return &resp, nil
}

// gravar stores qtd after checking it against the product stock.
func (s *carrinhoService) gravar(ctx context.Context, key string, produtoID uuid.UUID, qtd int) error {
	p, err := s.produtos.FindByID(ctx, produtoID)
	if err != nil {
		return err
	}
	if decimal.NewFromInt(int64(qtd)).GreaterThan(p.Estoque) {
		return fmt.Errorf("%w: %s tem %s em estoque, solicitado %d",
			domain.ErrInsufficientStock, p.Variedade, p.Estoque.String(), qtd)
	}
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, produtoID.String(), qtd)
	pipe.Expire(ctx, key, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *carrinhoService) quantidade(ctx context.Context, key string, produtoID uuid.UUID) (int, error) {
	n, err := s.rdb.HGet(ctx, key, produtoID.String()).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (s *carrinhoService) ler(ctx context.Context, key string) (map[uuid.UUID]int, error) {
	raw, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int, len(raw))
	for k, v := range raw {
		id, err := uuid.Parse(k)
		if err != nil {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			continue
		}
		out[id] = n
	}
	return out, nil
}
