package router

import (
	"time"

	"viveiro/internal/config"
	_ "viveiro/internal/docs"
	"viveiro/internal/handler"
	"viveiro/internal/infra"
	"viveiro/internal/middleware"
	"viveiro/internal/model"
	"viveiro/internal/repository"
	"viveiro/internal/service"
	"viveiro/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	todos      = []string{model.RolOperador, model.RolGerente, model.RolAdministrador}
	gestores   = []string{model.RolGerente, model.RolAdministrador}
	somenteAdm = []string{model.RolAdministrador}
)

// Empresa is the company header printed on the compliance term.
func Empresa(cfg *config.Config) infra.Empresa {
	return infra.Empresa{
		Nome:     cfg.EmpresaNome,
		Endereco: cfg.EmpresaEndereco,
		Cidade:   cfg.EmpresaCidade,
		CEP:      cfg.EmpresaCEP,
		Telefone: cfg.EmpresaTelefone,
		Email:    cfg.EmpresaEmail,
	}
}

// NewWorkerPool builds the pool that consumes the email queue. The caller starts it.
func NewWorkerPool(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *worker.Pool {
	emailWorker := worker.NewEmailWorker(repository.NewVendaRepository(db), infra.NewMailer(cfg), Empresa(cfg))
	return worker.NewPool(rdb, map[string]worker.Processor{
		worker.JobTermoEmail: emailWorker,
	})
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, "api", 1000, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	cnpjClient := infra.NewCNPJClient(cfg.CNPJAPIURL)
	precos := infra.NewCache(rdb, "lote", time.Duration(cfg.CacheTTLSeconds)*time.Second)
	cnpjCache := infra.NewCache(rdb, "cnpj", 24*time.Hour)
	dispatcher := worker.NewDispatcher(rdb)
	rotulo := service.Rotulo{Sigla: cfg.EmpresaSigla, Renasem: cfg.Renasem}

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	loteRepo := repository.NewLoteRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	fornecedorRepo := repository.NewFornecedorRepository(db)
	frotaRepo := repository.NewFrotaRepository(db)
	etiquetaRepo := repository.NewEtiquetaRepository(db)
	fiscalRepo := repository.NewFiscalRepository(db)
	movimentoRepo := repository.NewMovimentoEstoqueRepository(db)
	produtorRepo := repository.NewProdutorRepository(db)
	responsavelRepo := repository.NewResponsavelRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	produtoSvc := service.NewProdutoService(produtoRepo, loteRepo, fiscalRepo, movimentoRepo, precos)
	loteSvc := service.NewLoteService(loteRepo, produtoRepo, movimentoRepo, produtorRepo, precos, rotulo)
	vendaSvc := service.NewVendaService(vendaRepo, loteRepo, produtoRepo, movimentoRepo, clienteRepo, precos, dispatcher, Empresa(cfg))
	caixaSvc := service.NewCaixaService(caixaRepo, vendaRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, loteRepo, produtoRepo, movimentoRepo, clienteRepo, precos)
	carrinhoSvc := service.NewCarrinhoService(rdb, time.Duration(cfg.CartTTLHours)*time.Hour,
		pedidoRepo, loteRepo, produtoRepo, movimentoRepo, clienteRepo, precos)
	clienteSvc := service.NewClienteService(clienteRepo, cnpjClient, cnpjCache)
	fornecedorSvc := service.NewFornecedorService(fornecedorRepo, produtoRepo)
	frotaSvc := service.NewFrotaService(frotaRepo)
	etiquetaSvc := service.NewEtiquetaService(etiquetaRepo, loteRepo, produtorRepo, rotulo)
	fiscalSvc := service.NewFiscalService(fiscalRepo)
	produtorSvc := service.NewProdutorService(produtorRepo, responsavelRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc)
	lotesH := handler.NewLotesHandler(loteSvc)
	vendasH := handler.NewVendasHandler(vendaSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	carrinhoH := handler.NewCarrinhoHandler(carrinhoSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	fornecedoresH := handler.NewFornecedoresHandler(fornecedorSvc)
	frotaH := handler.NewFrotaHandler(frotaSvc)
	etiquetasH := handler.NewEtiquetasHandler(etiquetaSvc)
	fiscalH := handler.NewFiscalHandler(fiscalSvc)
	produtoresH := handler.NewProdutoresHandler(produtorSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, cnpjClient))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(rdb), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Catalog cart: anonymous, identified by X-Cart-Token
	carrinho := r.Group("/v1/carrinho")
	{
		carrinho.GET("", carrinhoH.Ver)
		carrinho.GET("/contagem", carrinhoH.Contar)
		carrinho.POST("/itens", carrinhoH.Adicionar)
		carrinho.PUT("/itens/:produto_id", carrinhoH.AtualizarQuantidade)
		carrinho.DELETE("/itens/:produto_id", carrinhoH.Remover)
		carrinho.POST("/checkout", carrinhoH.Checkout)
	}

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		vendas := v1.Group("/vendas")
		{
			vendas.POST("", middleware.RequireRole(todos...), vendasH.Finalizar)
			vendas.GET("", middleware.RequireRole(todos...), vendasH.Listar)
			vendas.GET("/export.xlsx", middleware.RequireRole(gestores...), vendasH.Exportar)
			vendas.GET("/:id", middleware.RequireRole(todos...), vendasH.ObterPorID)
			vendas.GET("/:id/termo", middleware.RequireRole(todos...), vendasH.Termo)
			vendas.POST("/:id/termo/email", middleware.RequireRole(todos...), vendasH.EnviarTermo)
			vendas.POST("/:id/anular", middleware.RequireRole(gestores...), vendasH.Anular)
			vendas.DELETE("/:id", middleware.RequireRole(gestores...), vendasH.Excluir)
		}

		caixa := v1.Group("/caixa", middleware.RequireRole(todos...))
		{
			caixa.GET("", caixaH.Historico)
			caixa.POST("/movimentos", caixaH.RegistrarMovimento)
		}

		v1.GET("/produtos", middleware.RequireRole(todos...), produtosH.Listar)
		v1.GET("/produtos/:id", middleware.RequireRole(todos...), produtosH.ObterPorID)
		v1.GET("/produtos/:id/movimentos", middleware.RequireRole(todos...), produtosH.Movimentos)
		prods := v1.Group("/produtos", middleware.RequireRole(gestores...))
		{
			prods.POST("", produtosH.Criar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Excluir)
		}

		v1.GET("/lotes", middleware.RequireRole(todos...), lotesH.Listar)
		v1.GET("/lotes/busca", middleware.RequireRole(todos...), lotesH.Buscar)
		v1.GET("/lotes/codigo/:codigo", middleware.RequireRole(todos...), lotesH.PorCodigo)
		v1.GET("/lotes/:id", middleware.RequireRole(todos...), lotesH.ObterPorID)
		v1.GET("/lotes/:id/etiqueta", middleware.RequireRole(todos...), lotesH.Etiqueta)
		lotes := v1.Group("/lotes", middleware.RequireRole(gestores...))
		{
			lotes.POST("", lotesH.Criar)
			lotes.PUT("/:id", lotesH.Atualizar)
			lotes.DELETE("/:id", lotesH.Excluir)
		}

		fiscal := v1.Group("/fiscal", middleware.RequireRole(todos...))
		{
			fiscal.GET("/ncm", fiscalH.BuscarNCM)
			fiscal.GET("/cfop", fiscalH.BuscarCFOP)
		}

		pedidos := v1.Group("/pedidos")
		{
			pedidos.POST("", middleware.RequireRole(todos...), pedidosH.Criar)
			pedidos.GET("", middleware.RequireRole(todos...), pedidosH.Listar)
			pedidos.GET("/:id", middleware.RequireRole(todos...), pedidosH.ObterPorID)
			pedidos.PUT("/:id", middleware.RequireRole(todos...), pedidosH.Atualizar)
			pedidos.PATCH("/:id/status", middleware.RequireRole(todos...), pedidosH.AlterarStatus)
			pedidos.DELETE("/:id", middleware.RequireRole(gestores...), pedidosH.Excluir)
		}

		clientes := v1.Group("/clientes")
		{
			clientes.POST("", middleware.RequireRole(todos...), clientesH.Criar)
			clientes.GET("", middleware.RequireRole(todos...), clientesH.Listar)
			clientes.GET("/cnpj/:cnpj", middleware.RequireRole(todos...), clientesH.ConsultarCNPJ)
			clientes.GET("/:id", middleware.RequireRole(todos...), clientesH.ObterPorID)
			clientes.PUT("/:id", middleware.RequireRole(todos...), clientesH.Atualizar)
			clientes.DELETE("/:id", middleware.RequireRole(gestores...), clientesH.Excluir)
		}

		forn := v1.Group("/fornecedores", middleware.RequireRole(gestores...))
		{
			forn.POST("", fornecedoresH.Criar)
			forn.GET("", fornecedoresH.Listar)
			forn.GET("/:id", fornecedoresH.ObterPorID)
			forn.PUT("/:id", fornecedoresH.Atualizar)
			forn.DELETE("/:id", fornecedoresH.Excluir)
		}

		prodr := v1.Group("/produtores", middleware.RequireRole(gestores...))
		{
			prodr.POST("", produtoresH.Criar)
			prodr.GET("", produtoresH.Listar)
			prodr.GET("/:id", produtoresH.ObterPorID)
			prodr.PUT("/:id", produtoresH.Atualizar)
			prodr.DELETE("/:id", produtoresH.Excluir)
		}

		rts := v1.Group("/responsaveis-tecnicos", middleware.RequireRole(gestores...))
		{
			rts.POST("", produtoresH.CriarResponsavel)
			rts.GET("", produtoresH.ListarResponsaveis)
			rts.GET("/:id", produtoresH.ObterResponsavel)
			rts.PUT("/:id", produtoresH.AtualizarResponsavel)
			rts.DELETE("/:id", produtoresH.ExcluirResponsavel)
		}

		frota := v1.Group("/frota", middleware.RequireRole(gestores...))
		{
			frota.POST("/veiculos", frotaH.CriarVeiculo)
			frota.GET("/veiculos", frotaH.ListarVeiculos)
			frota.PUT("/veiculos/:id", frotaH.AtualizarVeiculo)
			frota.DELETE("/veiculos/:id", frotaH.ExcluirVeiculo)

			frota.POST("/maquinas", frotaH.CriarMaquina)
			frota.GET("/maquinas", frotaH.ListarMaquinas)
			frota.PUT("/maquinas/:id", frotaH.AtualizarMaquina)
			frota.DELETE("/maquinas/:id", frotaH.ExcluirMaquina)

			frota.POST("/manutencoes", frotaH.CriarManutencao)
			frota.GET("/manutencoes", frotaH.ListarManutencoes)
			frota.GET("/manutencoes/:id", frotaH.ObterManutencao)
			frota.PUT("/manutencoes/:id", frotaH.AtualizarManutencao)
			frota.DELETE("/manutencoes/:id", frotaH.ExcluirManutencao)
		}

		etiq := v1.Group("/etiquetas", middleware.RequireRole(todos...))
		{
			etiq.POST("", etiquetasH.Criar)
			etiq.GET("", etiquetasH.Listar)
			etiq.GET("/:id", etiquetasH.ObterPorID)
			etiq.GET("/:id/pdf", etiquetasH.PDF)
			etiq.PUT("/:id", etiquetasH.Atualizar)
			etiq.DELETE("/:id", etiquetasH.Excluir)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole(somenteAdm...))
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
		}

		v1.GET("/admin/falhas-email", middleware.RequireRole(somenteAdm...), handler.FalhasEmail(rdb))
	}

	// Swagger UI outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
