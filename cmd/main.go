package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"goship/config"
	"goship/internal/pkg/cache"
	"goship/internal/pkg/database"
	"goship/internal/pkg/events"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/notify"
	"goship/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"goship/internal/api/analytics"
	"goship/internal/api/approval"
	"goship/internal/api/courier"
	"goship/internal/api/location"
	"goship/internal/api/network"
	"goship/internal/api/part"
	"goship/internal/api/router"
	"goship/internal/api/shipment"
	"goship/internal/api/stock"
	"goship/internal/api/supplier"
	"goship/internal/api/user"
	"goship/internal/repository/courierrepo"
	"goship/internal/repository/locationrepo"
	"goship/internal/repository/networkrepo"
	"goship/internal/repository/partrepo"
	"goship/internal/repository/shipmentrepo"
	"goship/internal/repository/stockrepo"
	"goship/internal/repository/supplierrepo"
	"goship/internal/repository/userrepo"
	"goship/internal/service/analyticsservice"
	"goship/internal/service/approvalservice"
	"goship/internal/service/courierservice"
	"goship/internal/service/locationservice"
	"goship/internal/service/networkservice"
	"goship/internal/service/partservice"
	"goship/internal/service/shipmentservice"
	"goship/internal/service/stockservice"
	"goship/internal/service/supplierservice"
	"goship/internal/service/userservice"
)

func main() {
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	if err := godotenv.Load(); err != nil {
		// Em Docker as variáveis vêm do ambiente do sistema.
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Inicialização
	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("⚡ Inicializando serviço GoShip...", map[string]interface{}{"env": cfg.Environment})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, database.DefaultPool)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis); sem Redis o serviço sobe com cache em memória
	var cacheClient cache.Client
	redisClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		appLog.Warn("Redis indisponível; usando cache em memória.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		cacheClient = cache.NewMemoryClient()
	} else {
		defer redisClient.Close()
		cacheClient = redisClient
		appLog.Info("Conexão Redis estabelecida.", nil)
	}

	// C. Kafka (eventos de remessa). O writer conecta sob demanda.
	publisher := events.NewKafkaProducer(cfg.KafkaBroker, cfg.KafkaShipmentTopic, appLog)
	defer publisher.Close()

	// D. RabbitMQ (alertas de reposição)
	var notifier notify.Notifier
	rabbit, err := notify.NewRabbitNotifier(cfg.RabbitMQURL, cfg.RestockQueue)
	if err != nil {
		appLog.Warn("RabbitMQ indisponível; alertas de reposição não serão publicados.", map[string]interface{}{"error": err.Error()})
		notifier = notify.NopNotifier{}
	} else {
		notifier = rabbit
	}
	defer notifier.Close()

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// A. Repositórios
	shipmentRepo := shipmentrepo.NewShipmentRepository(db, cfg.DBTimeout, appLog)
	partRepo := partrepo.NewPartRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTimeout, appLog)
	locationRepo := locationrepo.NewLocationRepository(db, cfg.DBTimeout, appLog)
	supplierRepo := supplierrepo.NewSupplierRepository(db, cfg.DBTimeout, appLog)
	stockRepo := stockrepo.NewStockRepository(db, cfg.DBTimeout, appLog)
	networkRepo := networkrepo.NewNetworkRepository(db, cfg.DBTimeout, appLog)
	courierRepo := courierrepo.NewCourierRepository(db, cfg.DBTimeout, appLog)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, appLog)
	appLog.Debug("Repositórios inicializados.", nil)

	// B. Serviços
	shipmentSvc := shipmentservice.NewService(shipmentRepo, publisher, cfg.AWBPrefix, appLog)
	partSvc := partservice.NewService(partRepo, appLog)
	approvalSvc := approvalservice.NewService(partRepo, appLog)
	locationSvc := locationservice.NewService(locationRepo, appLog)
	supplierSvc := supplierservice.NewService(supplierRepo, appLog)
	stockSvc := stockservice.NewService(stockRepo, partRepo, locationRepo, notifier, appLog)
	networkSvc := networkservice.NewService(networkRepo, appLog)
	courierSvc := courierservice.NewService(courierRepo, shipmentSvc, courierservice.Rates{
		BaseFee:   cfg.CourierBaseFee,
		RatePerKg: cfg.CourierRatePerKg,
	}, appLog)
	analyticsSvc := analyticsservice.NewService(shipmentSvc, stockSvc, partRepo, appLog)
	userSvc := userservice.NewService(userRepo, tokenSvc, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	// C. Handlers
	handlers := router.Handlers{
		Shipment:  shipment.NewHandler(shipmentSvc, appLog),
		Part:      part.NewHandler(partSvc, appLog),
		Approval:  approval.NewHandler(approvalSvc, appLog),
		Location:  location.NewHandler(locationSvc, appLog),
		Supplier:  supplier.NewHandler(supplierSvc, appLog),
		Stock:     stock.NewHandler(stockSvc, appLog),
		Courier:   courier.NewHandler(courierSvc, appLog),
		Network:   network.NewHandler(networkSvc, appLog),
		Analytics: analytics.NewHandler(analyticsSvc, appLog),
		User:      user.NewHandler(userSvc, appLog),
	}

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(handlers, tokenSvc, cacheClient, router.Options{
		RateLimitMaxRequests: cfg.RateLimitMaxRequests,
		RateLimitPeriod:      cfg.RateLimitPeriod,
		ExposeStack:          cfg.IsDevelopment(),
	}, appLog)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // exportações xlsx podem demorar
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor GoShip ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	<-ctx.Done()
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
