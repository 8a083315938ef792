package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/quakecase/engine/internal/apierr"
	"github.com/quakecase/engine/internal/embedding"
	"github.com/quakecase/engine/internal/ingest"
	"github.com/quakecase/engine/internal/logging"
	"github.com/quakecase/engine/internal/memory"
	"github.com/quakecase/engine/internal/situation"
)

// ingestHandler implements POST /api/ingest/case-study: it runs C2 over the
// raw case-study payload, embeds each resulting ExperienceUnit's narrative
// fields via C3, and upserts it into the memory store via C4.
type ingestHandler struct {
	ingestor *ingest.Ingestor
	embedder embedding.Embedder
	store    memory.Store
	logger   *logging.Logger
}

func NewIngestHandler(embedder embedding.Embedder, store memory.Store) *ingestHandler {
	return &ingestHandler{
		ingestor: ingest.New(),
		embedder: embedder,
		store:    store,
		logger:   logging.GetLogger("httpapi.ingest"),
	}
}

type ingestRequest struct {
	CaseID string         `json:"case_id"`
	Case   map[string]any `json:"case"`
}

type ingestResponse struct {
	SlicesStored int              `json:"slices_stored"`
	Warnings     []ingest.Warning `json:"warnings"`
}

func (h *ingestHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, apierr.InvalidInput("malformed request body: %v", err))
		return
	}
	if req.CaseID == "" {
		writeAPIError(w, apierr.InvalidInput("case_id is required"))
		return
	}

	slices, warnings := h.ingestor.Ingest(req.Case)

	ctx := r.Context()
	if err := h.store.Ensure(ctx, "experience_unit", h.embedder.Dim()); err != nil {
		writeAPIError(w, apierr.Internal("ensure store collection: %v", err))
		return
	}

	stored := 0
	for _, ts := range slices {
		unit := situation.FromTimeSlice(ts, req.CaseID, nil)
		vector, err := h.embedder.Embed(ctx, ingest.NarrativeText(ts))
		if err != nil {
			writeAPIError(w, apierr.ExternalProtocol("embed slice for phase %s: %v", ts.Phase, err))
			return
		}
		if err := h.store.Upsert(ctx, unit, vector); err != nil {
			writeAPIError(w, apierr.Internal("upsert slice for phase %s: %v", ts.Phase, err))
			return
		}
		stored++
	}

	writeJSON(w, http.StatusOK, ingestResponse{SlicesStored: stored, Warnings: warnings})
}
