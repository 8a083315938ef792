package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/quakecase/engine/internal/embedding"
	"github.com/quakecase/engine/internal/llm"
	"github.com/quakecase/engine/internal/memory"
	"github.com/quakecase/engine/internal/pipeline"
	"github.com/quakecase/engine/internal/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	embedder := embedding.NewMockEmbedder(16)
	store := memory.NewInMemoryStore()
	require.NoError(t, store.Ensure(context.Background(), "experience_unit", 16))

	engine := similarity.NewDefault()
	narrative := pipeline.NewNarrativePipeline(embedder, store, engine)
	provider := llm.NewMockProvider()

	deps := Deps{
		Ingest:   NewIngestHandler(embedder, store),
		Decision: NewDecisionHandler(narrative, provider),
		Retrieve: NewRetrieveHandler(embedder, store),
	}
	return New(0, deps)
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	s.router.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("GET", "/ready", nil)
	s.router.ServeHTTP(w2, req2)
	assert.Equal(t, 200, w2.Code)
}

func TestIngestThenRetrieve(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(map[string]any{
		"case_id": "case-1",
		"case": map[string]any{
			"identity": map[string]any{"event_id": "case-1", "magnitude": 7.0},
			"damage":   map[string]any{"building_collapse": "severe"},
			"outcomes": map[string]any{"casualties": 50.0},
		},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/ingest/case-study", bytes.NewReader(body))
	s.router.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)

	var ingestOut ingestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingestOut))
	assert.Equal(t, 2, ingestOut.SlicesStored, "identity/damage give T0, outcomes give T3; no actions means no T1/T2")

	retrieveBody, _ := json.Marshal(map[string]any{"narrative": "severe collapse, magnitude 7"})
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("POST", "/api/memory/retrieve", bytes.NewReader(retrieveBody))
	s.router.ServeHTTP(w2, req2)
	require.Equal(t, 200, w2.Code)

	var retrieveOut retrieveResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &retrieveOut))
	assert.NotEmpty(t, retrieveOut.Candidates)
}

func TestRootAndAPIRootServeManifest(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/", "/api/"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", path, nil)
		s.router.ServeHTTP(w, req)
		require.Equal(t, 200, w.Code, "path %s", path)

		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, "quakecase-engine", out["service"])
		endpoints, ok := out["endpoints"].([]any)
		require.True(t, ok, "manifest must list endpoints")
		assert.Contains(t, endpoints, "POST /api/ingest/case-study")
		assert.Contains(t, endpoints, "POST /api/reasoning/decision-support")
		assert.Contains(t, endpoints, "POST /api/memory/retrieve")
		assert.Contains(t, endpoints, "GET /health")
		assert.Contains(t, endpoints, "GET /ready")
	}
}

func TestDecisionSupportRequiresNarrative(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(map[string]any{"current_situation": map[string]any{}})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/reasoning/decision-support", bytes.NewReader(body))
	s.router.ServeHTTP(w, req)
	assert.Equal(t, 400, w.Code)
}
