package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/quakecase/engine/internal/apierr"
	"github.com/quakecase/engine/internal/ingest"
	"github.com/quakecase/engine/internal/llm"
	"github.com/quakecase/engine/internal/logging"
	"github.com/quakecase/engine/internal/pipeline"
	"github.com/quakecase/engine/internal/situation"
)

// decisionHandler implements POST /api/reasoning/decision-support: given
// the querying situation's current narrative, it runs the narrative
// pipeline (C3 embed -> C4 kNN -> C5-C9) and, if an LLM provider is
// configured, appends an advisory paragraph via C10.
type decisionHandler struct {
	pipeline *pipeline.NarrativePipeline
	provider llm.Provider
	ingestor *ingest.Ingestor
	logger   *logging.Logger
}

func NewDecisionHandler(p *pipeline.NarrativePipeline, provider llm.Provider) *decisionHandler {
	return &decisionHandler{
		pipeline: p,
		provider: provider,
		ingestor: ingest.New(),
		logger:   logging.GetLogger("httpapi.decision"),
	}
}

type decisionRequest struct {
	CurrentSituation map[string]any `json:"current_situation"`
	Phase            string         `json:"phase"`
	Narrative        string         `json:"narrative"`
}

func (h *decisionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, apierr.InvalidInput("malformed request body: %v", err))
		return
	}
	if req.Narrative == "" {
		writeAPIError(w, apierr.InvalidInput("narrative is required"))
		return
	}

	slices, _ := h.ingestor.Ingest(req.CurrentSituation)
	phase := situation.T1EarlyResponse
	if req.Phase != "" {
		phase = situation.ParsePhase(req.Phase)
	}
	query := sliceForPhase(slices, phase).Situation

	ctx := r.Context()
	out, err := h.pipeline.Run(ctx, query, req.Narrative)
	if err != nil {
		writeAPIError(w, apierr.Internal("decision pipeline: %v", err))
		return
	}

	if h.provider != nil {
		advisory, err := h.provider.GenerateAdvisory(ctx, req.Narrative, nil)
		if err != nil {
			h.logger.Warn("advisory generation failed: %v", err)
		} else {
			out.Narrative = advisory
		}
	}

	writeJSON(w, http.StatusOK, out)
}

// sliceForPhase returns the slice exactly matching phase if ingestion
// produced one; otherwise the latest slice at or before phase (a request
// for a phase the raw input never reached falls back to what's known);
// otherwise the earliest slice present. Ingestion no longer guarantees a
// fixed four-element, phase-indexed result (a phase is only emitted when
// raw supplies data for it), so lookup must search by Phase rather than
// index into the slice directly.
func sliceForPhase(slices []situation.TimeSlice, phase situation.TimePhase) situation.TimeSlice {
	var fallback *situation.TimeSlice
	for i := range slices {
		if slices[i].Phase == phase {
			return slices[i]
		}
		if slices[i].Phase <= phase && (fallback == nil || slices[i].Phase > fallback.Phase) {
			fallback = &slices[i]
		}
	}
	if fallback != nil {
		return *fallback
	}
	if len(slices) > 0 {
		return slices[0]
	}
	return situation.TimeSlice{}
}
