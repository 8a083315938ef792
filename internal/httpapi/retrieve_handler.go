package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/quakecase/engine/internal/apierr"
	"github.com/quakecase/engine/internal/embedding"
	"github.com/quakecase/engine/internal/memory"
)

// retrieveHandler implements POST /api/memory/retrieve: a thin C3+C4-only
// endpoint for inspecting raw kNN candidates without running the full
// reasoning chain — useful for debugging retrieval quality in isolation.
type retrieveHandler struct {
	embedder embedding.Embedder
	store    memory.Store
}

func NewRetrieveHandler(embedder embedding.Embedder, store memory.Store) *retrieveHandler {
	return &retrieveHandler{embedder: embedder, store: store}
}

type retrieveRequest struct {
	Narrative string `json:"narrative"`
	K         int    `json:"k"`
}

type retrieveResponse struct {
	Candidates []memory.ScoredUnit `json:"candidates"`
}

func (h *retrieveHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, apierr.InvalidInput("malformed request body: %v", err))
		return
	}
	if req.Narrative == "" {
		writeAPIError(w, apierr.InvalidInput("narrative is required"))
		return
	}
	k := req.K
	if k <= 0 {
		k = 10
	}

	ctx := r.Context()
	vector, err := h.embedder.Embed(ctx, req.Narrative)
	if err != nil {
		writeAPIError(w, apierr.ExternalProtocol("embed narrative: %v", err))
		return
	}
	candidates, err := h.store.Knn(ctx, vector, k)
	if err != nil {
		writeAPIError(w, apierr.Internal("retrieve candidates: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, retrieveResponse{Candidates: candidates})
}
