package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	"walletscope/internal/app/service"
	"walletscope/internal/infrastructure/configloader"
	"walletscope/internal/infrastructure/httpclient"
	clientprovider "walletscope/internal/infrastructure/network/client"
	networkdefinition "walletscope/internal/infrastructure/network/definition"
	"walletscope/internal/infrastructure/restapi"
	"walletscope/internal/infrastructure/statsstore"
	"walletscope/internal/pkg/cache"
	"walletscope/internal/pkg/logger"
	"walletscope/internal/pkg/metrics"
	"walletscope/internal/pkg/utils"
)

const rpcConnectionTimeout = 10 * time.Second

func main() {
	// Bootstrap logger, replaced once the config-driven backend is up.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	// .env overlays the YAML config (explorer API key, mostly). A missing
	// file is fine.
	if err := godotenv.Load(); err == nil {
		log.Info(".env file loaded")
	}

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// Route the slog-based application logger through zap.
	logger.InitWithHandler(zapslog.NewHandler(zapLogger.Core()))
	appLogger := logger.NewSlogAdapter()
	appLogger.Info("Configuration loaded", "path", cfgPath, "chain", cfg.Chain.Name)

	metrics.MustRegisterMetrics()

	// Infrastructure clients.
	netDef := networkdefinition.Resolve(cfg.Chain.PrimaryRPCURL, cfg.Chain.FallbackRPCURLs)
	chainClient, err := clientprovider.NewEVMClient(netDef, rpcConnectionTimeout, appLogger)
	if err != nil {
		logger.Fatal("Failed to connect to chain RPC", "error", err)
	}
	defer chainClient.Close()

	explorerClient := httpclient.NewExplorerClient(
		cfg.Explorer.BaseURL,
		cfg.Explorer.APIKey,
		time.Duration(cfg.Explorer.RequestTimeoutMillis)*time.Millisecond,
		cfg.Explorer.RequestsPerSecond,
		zapLogger,
	)
	if cfg.Explorer.APIKey == "" {
		appLogger.Warn("No explorer API key configured, approval scan and contract labels will be empty")
	}

	priceClient := httpclient.NewPriceClient(
		cfg.Price.BaseURL,
		cfg.Chain.DEXScreenerChainID,
		time.Duration(cfg.Price.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
		cfg.Price.MaxAddressesPerBatch,
	)

	statsStore, err := statsstore.NewSQLiteStore(cfg.Stats.DBPath, cfg.Report.ValueHistorySize, appLogger)
	if err != nil {
		logger.Fatal("Failed to open stats database", "error", err)
	}
	defer statsStore.Close()

	priceCacheTTL := time.Duration(cfg.Price.CacheTTLMinutes) * time.Minute
	ttlCache := cache.New(priceCacheTTL)

	// Services.
	callTimeout := time.Duration(cfg.Report.CallTimeoutSeconds) * time.Second
	labelService := service.NewLabelService(explorerClient, ttlCache, appLogger, callTimeout)

	reportService := service.NewReportService(
		chainClient,
		service.NewIdentityService(chainClient, appLogger, callTimeout),
		service.NewAssetsService(chainClient, priceClient, ttlCache, appLogger, callTimeout),
		service.NewActivityService(labelService, appLogger),
		service.NewGasService(chainClient, priceClient, ttlCache, appLogger, cfg.Report.GasSampleSize, cfg.Report.GasConcurrency, callTimeout),
		service.NewApprovalsService(explorerClient, chainClient, ttlCache, appLogger, cfg.Report.ApprovalScanDepth, callTimeout),
		ttlCache,
		statsStore,
		appLogger,
		cfg.Report.TransferCap,
		time.Duration(cfg.Report.CacheTTLSeconds)*time.Second,
		callTimeout,
	)

	// Keep the native price warm so gas and asset valuations rarely pay the
	// upstream round trip.
	scheduler := cron.New()
	refreshNativePrice := func() {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		price, err := priceClient.NativePriceUSD(ctx)
		if err != nil {
			appLogger.Warn("Scheduled native price refresh failed", "error", err)
			return
		}
		ttlCache.Set("price:native", price, priceCacheTTL)
		appLogger.Debug("Native price refreshed", "price_usd", price)
	}
	if _, err := scheduler.AddFunc(cfg.Price.NativeRefreshSpec, refreshNativePrice); err != nil {
		logger.Fatal("Invalid native price refresh spec", "spec", cfg.Price.NativeRefreshSpec, "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	go refreshNativePrice()

	// HTTP surface.
	gin.SetMode(gin.ReleaseMode)
	router := restapi.SetupRouter(restapi.NewReportHandler(reportService, statsStore, appLogger))

	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		appLogger.Info(fmt.Sprintf("Server starting on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exiting")
}
