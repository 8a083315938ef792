package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/quakecase/engine/internal/embedding"
	"github.com/quakecase/engine/internal/ingest"
	"github.com/quakecase/engine/internal/memory"
	"github.com/quakecase/engine/internal/situation"
	"github.com/spf13/cobra"
)

var (
	ingestCaseID          string
	ingestCaseStudyPath   string
	ingestStoreAddress    string
	ingestStoreMockMode   bool
	ingestStoreGraph      string
	ingestEmbeddingDim    int
	ingestEmbeddingAPIKey string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a case study JSON file into the memory store",
	Long: `Ingest slices a case study's raw JSON into the time-phased slices
actually present in it (spec §3, one per T0-T3 phase the input supplies
data for), embeds each slice's narrative text, and upserts the resulting
experience units into the memory store.`,
	Run: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCaseID, "case-id", "", "Identifier for the case study (required)")
	ingestCmd.Flags().StringVar(&ingestCaseStudyPath, "file", "", "Path to the case study JSON file (required)")
	ingestCmd.Flags().StringVar(&ingestStoreAddress, "store-address", "localhost:6379", "FalkorDB address (host:port)")
	ingestCmd.Flags().BoolVar(&ingestStoreMockMode, "store-mock", true, "Use the in-memory store instead of FalkorDB (default: true)")
	ingestCmd.Flags().StringVar(&ingestStoreGraph, "store-graph", "quakecase", "FalkorDB graph name")
	ingestCmd.Flags().IntVar(&ingestEmbeddingDim, "embedding-dim", 768, "Embedding vector dimension")
	ingestCmd.Flags().StringVar(&ingestEmbeddingAPIKey, "embedding-api-key", "", "Embedding provider API key (mock embedder used when empty)")
	_ = ingestCmd.MarkFlagRequired("case-id")
	_ = ingestCmd.MarkFlagRequired("file")
}

func runIngest(cmd *cobra.Command, args []string) {
	if err := setupLog(logLevelFlags); err != nil {
		HandleError(err, "Logging setup error")
	}

	raw, err := readCaseStudyFile(ingestCaseStudyPath)
	if err != nil {
		HandleError(err, "Failed to read case study file")
	}

	ctx := context.Background()
	embeddingProvider := "mock"
	if ingestEmbeddingAPIKey != "" {
		embeddingProvider = "gemini"
	}
	embedder, err := embedding.New(ctx, embedding.Config{
		Provider: embeddingProvider,
		APIKey:   ingestEmbeddingAPIKey,
		Dim:      ingestEmbeddingDim,
		MockMode: ingestEmbeddingAPIKey == "",
	})
	if err != nil {
		HandleError(err, "Embedding provider initialization error")
	}

	var store memory.Store
	if ingestStoreMockMode {
		store = memory.NewInMemoryStore()
	} else {
		clientCfg := memory.DefaultClientConfig()
		clientCfg.GraphName = ingestStoreGraph
		if host, portStr, ok := strings.Cut(ingestStoreAddress, ":"); ok {
			clientCfg.Host = host
			if port, err := strconv.Atoi(portStr); err == nil {
				clientCfg.Port = port
			}
		}
		falkorStore := memory.NewFalkorStore(clientCfg)
		if err := falkorStore.Connect(ctx); err != nil {
			HandleError(err, "Memory store connection error")
		}
		store = falkorStore
	}
	if err := store.Ensure(ctx, "experience_unit", embedder.Dim()); err != nil {
		HandleError(err, "Failed to initialize memory store collection")
	}

	ingestor := ingest.New()
	slices, warnings := ingestor.Ingest(raw)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: [%s] %s: %s\n", w.Phase, w.Field, w.Message)
	}

	stored := 0
	for _, ts := range slices {
		unit := situation.FromTimeSlice(ts, ingestCaseID, nil)
		vector, err := embedder.Embed(ctx, ingest.NarrativeText(ts))
		if err != nil {
			HandleError(err, "Failed to embed slice narrative")
		}
		if err := store.Upsert(ctx, unit, vector); err != nil {
			HandleError(err, "Failed to upsert experience unit")
		}
		stored++
	}

	fmt.Printf("ingested case %q: %d slices stored, %d warnings\n", ingestCaseID, stored, len(warnings))
}

func readCaseStudyFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse case study JSON: %w", err)
	}
	return raw, nil
}
