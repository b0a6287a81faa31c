// cmd/query-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"agri-intelligence/internal/classifier"
	"agri-intelligence/internal/common/config"
	"agri-intelligence/internal/common/database"
	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/common/observability"
	"agri-intelligence/internal/factcheck"
	"agri-intelligence/internal/fusion"
	"agri-intelligence/internal/generator"
	"agri-intelligence/internal/language"
	"agri-intelligence/internal/llm"
	"agri-intelligence/internal/pipeline"
	"agri-intelligence/internal/server"
	"agri-intelligence/internal/tools"
	"agri-intelligence/internal/tools/docsearch"
	"agri-intelligence/internal/tools/government"
	"agri-intelligence/internal/tools/market"
	"agri-intelligence/internal/tools/pricepredict"
	"agri-intelligence/internal/tools/sqlstore"
	"agri-intelligence/internal/tools/weather"
	"agri-intelligence/internal/tools/websearch"
	"agri-intelligence/internal/tools/yieldmodel"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting query server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("query-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init GenAI Adapter ---
	adapter, err := newAdapter(cfg)
	if err != nil {
		zapLog.Fatal("genai adapter failed", zap.Error(err))
	}
	zapLog.Info("GenAI adapter initialized", zap.String("provider", adapter.Name()))

	// --- Build Data Tools ---
	toolset := buildToolset(cfg, pg, esClient, log, zapLog)
	zapLog.Info("Data tools registered", zap.Int("count", len(toolset)))

	// --- Build Pipeline ---
	cacheTTL := time.Duration(cfg.Pipeline.TranslationCacheTTL) * time.Millisecond
	cache := language.NewTranslationCache(cfg.Pipeline.TranslationCacheSize, redis.GetClient(), cacheTTL)

	detector := language.NewDetector(log)
	translator := language.NewTranslator(adapter, cfg.APIs.GenAI.Model, cache, log)

	factCheckModel := cfg.APIs.GenAI.FactCheckModel
	if factCheckModel == "" {
		factCheckModel = cfg.APIs.GenAI.Model
	}

	queryPipeline := pipeline.New(cfg,
		detector,
		translator,
		classifier.NewClassifier(log),
		tools.NewOrchestrator(cfg, log, toolset...),
		fusion.NewEngine(log),
		generator.New(adapter, cfg.APIs.GenAI.Model, log),
		factcheck.New(adapter, factCheckModel, detector, translator, log),
		log).WithRecorder(obs)

	// --- Metrics Server ---
	go func() {
		metricsAddr := cfg.Server.MetricsAddress
		if metricsAddr == "" {
			metricsAddr = ":9090"
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Metrics server listening", zap.String("address", metricsAddr))
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			zapLog.Error("Metrics server failed", zap.Error(err))
		}
	}()

	// --- HTTP Server with Graceful Shutdown ---
	srv := server.New(queryPipeline, cfg, log)

	serverCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(serverCtx); err != nil {
		zapLog.Fatal("http server failed", zap.Error(err))
	}

	zapLog.Info("Query server stopped gracefully")
}

// newAdapter selects the GenAI backend from config. The mock provider keeps
// local development working without API keys.
func newAdapter(cfg *config.Config) (llm.Adapter, error) {
	switch cfg.APIs.GenAI.Provider {
	case "openai":
		return llm.NewOpenAIAdapter(cfg.APIs.GenAI.APIKey)
	case "mock":
		return llm.NewMockAdapter(), nil
	default:
		return llm.NewGoogleAdapter(cfg.APIs.GenAI.APIKey)
	}
}

// buildToolset wires every enabled data tool. Disabled tools are skipped so
// the orchestrator never plans them.
func buildToolset(cfg *config.Config, pg *database.PostgresClient, esClient *database.ElasticsearchClient,
	log logger.Logger, zapLog *zap.Logger) []tools.Tool {

	enabled := func(name string) bool {
		tc, ok := cfg.Tools[name]
		if !ok {
			return true
		}
		return tc.Enabled
	}

	var toolset []tools.Tool
	add := func(name string, tool tools.Tool) {
		if !enabled(name) {
			zapLog.Info("tool disabled", zap.String("tool", name))
			return
		}
		toolset = append(toolset, tool)
	}

	add(tools.ToolWeather, weather.New(cfg, log))
	add(tools.ToolMarket, market.New(cfg, log))
	add(tools.ToolPricePrediction, pricepredict.New(log))
	add(tools.ToolYieldModel, yieldmodel.New(log))
	add(tools.ToolSQLStore, sqlstore.New(pg.DB, log))
	add(tools.ToolDocSearch, docsearch.New(esClient.Client, cfg.Database.Elasticsearch.Index, log))
	add(tools.ToolWebSearch, websearch.New(cfg, log))
	add(tools.ToolGovernment, government.New(cfg, log))

	return toolset
}
