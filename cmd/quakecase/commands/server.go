package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quakecase/engine/internal/config"
	"github.com/quakecase/engine/internal/embedding"
	"github.com/quakecase/engine/internal/httpapi"
	"github.com/quakecase/engine/internal/lifecycle"
	"github.com/quakecase/engine/internal/llm"
	"github.com/quakecase/engine/internal/logging"
	"github.com/quakecase/engine/internal/memory"
	"github.com/quakecase/engine/internal/metrics"
	"github.com/quakecase/engine/internal/pipeline"
	"github.com/quakecase/engine/internal/similarity"
	"github.com/quakecase/engine/internal/tracing"
	"github.com/spf13/cobra"
)

var (
	apiPort               int
	weightsConfigPath     string
	maxConcurrentRequests int
	tracingEnabled        bool
	tracingEndpoint       string
	tracingTLSCAPath      string
	tracingTLSInsecure    bool

	embeddingProvider string
	embeddingModel    string
	embeddingDim      int

	llmProvider string
	llmModel    string

	storeAddress  string
	storeMockMode bool
	storeGraph    string

	metricsEnabled bool
	metricsPort    int
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the quakecase decision-support server",
	Long: `Start the quakecase HTTP server, which exposes case ingestion,
memory retrieval, and decision-support endpoints backed by the case-based
retrieval engine.`,
	Run: runServer,
}

func init() {
	serverCmd.Flags().IntVar(&apiPort, "api-port", 8080, "Port the API server listens on")
	serverCmd.Flags().StringVar(&weightsConfigPath, "weights-config", "weights.yaml", "Path to the YAML file containing similarity-weights configuration")
	serverCmd.Flags().IntVar(&maxConcurrentRequests, "max-concurrent-requests", 100, "Maximum number of concurrent API requests (validated to be at least 1; not enforced by the HTTP server)")
	serverCmd.Flags().BoolVar(&tracingEnabled, "tracing-enabled", false, "Enable OpenTelemetry tracing (default: false)")
	serverCmd.Flags().StringVar(&tracingEndpoint, "tracing-endpoint", "", "OTLP gRPC endpoint for traces (e.g., collector:4317)")
	serverCmd.Flags().StringVar(&tracingTLSCAPath, "tracing-tls-ca", "", "Path to CA certificate for TLS verification (optional)")
	serverCmd.Flags().BoolVar(&tracingTLSInsecure, "tracing-tls-insecure", false, "Skip TLS certificate verification (insecure, use only for testing)")

	serverCmd.Flags().StringVar(&embeddingProvider, "embedding-provider", "mock", "Embedding provider: mock | gemini")
	serverCmd.Flags().StringVar(&embeddingModel, "embedding-model", "", "Embedding model name (provider-specific)")
	serverCmd.Flags().IntVar(&embeddingDim, "embedding-dim", embedding.DefaultDim, "Embedding vector dimension")

	serverCmd.Flags().StringVar(&llmProvider, "llm-provider", "mock", "Advisory-language provider: mock | anthropic")
	serverCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider-specific)")

	serverCmd.Flags().StringVar(&storeAddress, "store-address", "localhost:6379", "FalkorDB address (host:port)")
	serverCmd.Flags().BoolVar(&storeMockMode, "store-mock", true, "Use the in-memory store instead of FalkorDB (default: true)")
	serverCmd.Flags().StringVar(&storeGraph, "store-graph", "quakecase", "FalkorDB graph name")

	serverCmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Expose Prometheus metrics (default: true)")
	serverCmd.Flags().IntVar(&metricsPort, "metrics-port", 9090, "Port the Prometheus metrics endpoint listens on")
}

func runServer(cmd *cobra.Command, args []string) {
	cfg := config.LoadConfig(apiPort, logLevelFlags, weightsConfigPath, maxConcurrentRequests,
		tracingEnabled, tracingEndpoint, tracingTLSCAPath, tracingTLSInsecure)
	cfg.EmbeddingProvider = embeddingProvider
	cfg.EmbeddingModel = embeddingModel
	cfg.LLMProvider = llmProvider
	cfg.LLMModel = llmModel
	cfg.StoreAddress = storeAddress
	cfg.StoreMockMode = storeMockMode

	if err := cfg.Validate(); err != nil {
		HandleError(err, "Configuration error")
	}

	if err := setupLog(cfg.LogLevelFlags); err != nil {
		HandleError(err, "Logging setup error")
	}
	logger := logging.GetLogger("commands.server")

	var reg *prometheus.Registry
	var m *metrics.Metrics
	if metricsEnabled {
		reg = prometheus.NewRegistry()
		m = metrics.New(reg)
	}

	embedder, err := embedding.New(context.Background(), embedding.Config{
		Provider: cfg.EmbeddingProvider,
		APIKey:   cfg.EmbeddingAPIKey,
		Model:    cfg.EmbeddingModel,
		Dim:      embeddingDim,
		MockMode: cfg.EmbeddingProvider == "mock",
	})
	if err != nil {
		HandleError(err, "Embedding provider initialization error")
	}

	provider, err := llm.New(llm.FactoryConfig{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey,
		Model:    cfg.LLMModel,
		MockMode: cfg.LLMProvider == "mock",
	})
	if err != nil {
		HandleError(err, "LLM provider initialization error")
	}

	var store memory.Store
	if cfg.StoreMockMode {
		store = memory.NewInMemoryStore()
	} else {
		clientCfg := memory.DefaultClientConfig()
		clientCfg.GraphName = storeGraph
		if host, portStr, ok := strings.Cut(cfg.StoreAddress, ":"); ok {
			clientCfg.Host = host
			if port, err := strconv.Atoi(portStr); err == nil {
				clientCfg.Port = port
			}
		}
		falkorStore := memory.NewFalkorStore(clientCfg)
		if m != nil {
			falkorStore = falkorStore.WithMetrics(m)
		}
		if err := falkorStore.Connect(context.Background()); err != nil {
			HandleError(err, "Memory store connection error")
		}
		store = falkorStore
	}

	if err := store.Ensure(context.Background(), "experience_unit", embedder.Dim()); err != nil {
		HandleError(err, "Memory store initialization error")
	}

	engine := similarity.NewDefault()

	weightsWatcher, err := config.NewWeightsWatcher(config.WeightsWatcherConfig{
		FilePath:       cfg.WeightsConfigPath,
		DebounceMillis: 500,
	}, func(wf *config.WeightsFile) error {
		engine.SetWeights(wf.Weights)
		logger.Info("similarity weights reloaded from %s", cfg.WeightsConfigPath)
		return nil
	})
	if err != nil {
		logger.Warn("weights watcher initialization failed, continuing with default weights: %v", err)
	}

	narrativePipeline := pipeline.NewNarrativePipeline(embedder, store, engine)
	narrativePipeline.Metrics = m

	httpServer := httpapi.New(cfg.APIPort, httpapi.Deps{
		Ingest:   httpapi.NewIngestHandler(embedder, store),
		Decision: httpapi.NewDecisionHandler(narrativePipeline, provider),
		Retrieve: httpapi.NewRetrieveHandler(embedder, store),
		Metrics:  m,
	})

	manager := lifecycle.NewManager()

	var tracingProvider *tracing.TracingProvider
	if cfg.TracingEnabled {
		tracingProvider, err = tracing.NewTracingProvider(tracing.Config{
			Enabled:     cfg.TracingEnabled,
			Endpoint:    cfg.TracingEndpoint,
			TLSCAPath:   cfg.TracingTLSCAPath,
			TLSInsecure: cfg.TracingTLSInsecure,
		})
		if err != nil {
			HandleError(err, "Tracing provider initialization error")
		}
		if err := manager.Register(tracingProvider); err != nil {
			logger.Error("Failed to register tracing provider: %v", err)
			HandleError(err, "Tracing provider registration error")
		}
	}

	if err := manager.Register(httpServer); err != nil {
		logger.Error("Failed to register HTTP API server component: %v", err)
		HandleError(err, "API server registration error")
	}

	if tracingProvider != nil {
		narrativePipeline.Tracer = tracingProvider.GetTracer("quakecase.pipeline")
	}

	logger.Info("All components registered")
	ctx, cancel := context.WithCancel(context.Background())

	if weightsWatcher != nil {
		if err := weightsWatcher.Start(ctx); err != nil {
			logger.Warn("Weights watcher failed to start, continuing with default weights: %v", err)
		}
	}

	if err := manager.Start(ctx); err != nil {
		logger.Error("Failed to start components: %v", err)
		HandleError(err, "Startup error")
	}

	if metricsEnabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			addr := fmt.Sprintf(":%d", metricsPort)
			logger.Info("metrics listening on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error: %v", err)
			}
		}()
	}

	logger.Info("Application started successfully")
	logger.Info("Listening for decision-support requests...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutdown signal received, gracefully shutting down...")
	cancel()
	if weightsWatcher != nil {
		weightsWatcher.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := manager.Stop(shutdownCtx); err != nil {
		logger.Error("Error during shutdown: %v", err)
	}

	logger.Info("Shutdown complete")
}
