package main

import (
	"context"
	"net/http"
	"time"

	"github.com/ghostlabs/asap-onramp/src/config"
	"github.com/ghostlabs/asap-onramp/src/logger"

	"github.com/ghostlabs/asap-onramp/src/Infrastructure/asap"
	"github.com/ghostlabs/asap-onramp/src/Infrastructure/ethereum"
	joblockRepo "github.com/ghostlabs/asap-onramp/src/joblock/repository"
	joblock "github.com/ghostlabs/asap-onramp/src/joblock/usecase"
	joblockAdapter "github.com/ghostlabs/asap-onramp/src/onramp/adapter/joblock"
	onrampHD "github.com/ghostlabs/asap-onramp/src/onramp/delivery/http"
	"github.com/ghostlabs/asap-onramp/src/onramp/domain"
	onrampRepo "github.com/ghostlabs/asap-onramp/src/onramp/repository"
	onramp "github.com/ghostlabs/asap-onramp/src/onramp/usecase"

	_ "github.com/ghostlabs/asap-onramp/docs" // Swagger docs
	_ "github.com/lib/pq"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadFromEnv()
	logg := logger.New(cfg.Env)
	ctx := context.Background()

	// --- Database connection ---
	gormDB, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logg.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logg.Fatalf("Failed to get generic DB handle: %v", err)
	}
	defer sqlDB.Close()

	// Connection pool tuning
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)

	// --- External clients ---
	backendClient, err := asap.NewClient(cfg.Backend.BaseURL,
		asap.WithLogger(logg.Zerolog()),
	)
	if err != nil {
		logg.Fatalf("Failed to build backend client: %v", err)
	}

	liquidityClient, err := ethereum.NewLiquidityClient(ctx, ethereum.Config{
		RPCURL:          cfg.Chain.RPCURL,
		ContractAddress: cfg.Chain.ContractAddress,
	})
	if err != nil {
		logg.Fatalf("Failed to build liquidity client: %v", err)
	}
	defer liquidityClient.Close()
	if cfg.Chain.ContractAddress == "" {
		logg.Warnf("CONTRACT_ADDRESS not set; liquidity verdict will stay unknown")
	}

	// --- Dependencies ---
	variant := domain.Variant{
		NGNPerUSDC: cfg.Pricing.NGNPerUSDC,
		AmountUnit: cfg.Pricing.AmountUnit,
		FeeMode:    cfg.Pricing.FeeMode,
		FeePercent: cfg.Pricing.FeePercent,
		FeeFlat:    cfg.Pricing.FeeFlat,
		MinAmount:  cfg.Pricing.MinAmount,
		MaxAmount:  cfg.Pricing.MaxAmount,
	}

	orderRepo := onrampRepo.NewOrderRepo(gormDB, logg)
	lockRepo := joblockRepo.NewJobLockRepo(gormDB, logg)
	lockSvc := joblock.NewService(lockRepo, logg)
	lockPort := joblockAdapter.NewJobLockPort(lockSvc)

	onrampSvc := onramp.NewService(
		orderRepo, backendClient, liquidityClient, variant,
		cfg.Polling.PaymentWindow, cfg.Polling.ValidateDebounce, logg,
	)
	handler := onrampHD.NewHandler(onrampSvc, logg)

	// initial liquidity fetch; failure keeps the verdict unknown
	if err := onrampSvc.RefreshLiquidity(ctx); err != nil {
		logg.Warnf("initial liquidity fetch failed: %v", err)
	}

	// --- Repeating jobs ---
	c := cron.New()
	onramp.NewCronService(c, onrampSvc, lockPort, cfg.Polling)
	c.Start()
	defer c.Stop()

	// --- Router ---
	r := gin.New()

	// Core middleware
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logg.Infof("%s %s status:%d duration:%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
		)
	})

	// --- Healthcheck ---
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Swagger ---
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// --- API routes ---
	handler.RegisterRoutes(r)

	// --- Start server ---
	logg.Infof("Starting service on %s (env=%s)", cfg.ListenAddr, cfg.Env)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatalf("Server terminated unexpectedly: %v", err)
	}
}
