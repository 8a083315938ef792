package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
	"github.com/quakecase/engine/internal/logging"
)

// AnthropicProvider is the real Provider, backed by anthropic-sdk-go.
// Retries are bounded and confined to this external boundary (§5, §7).
type AnthropicProvider struct {
	client anthropic.Client
	cfg    Config
	logger *logging.Logger
}

func NewAnthropicProvider(apiKey string, cfg Config) *AnthropicProvider {
	if cfg.Model == "" {
		cfg = DefaultConfig()
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		cfg:    cfg,
		logger: logging.GetLogger("llm.anthropic"),
	}
}

func (p *AnthropicProvider) Name() string  { return "anthropic" }
func (p *AnthropicProvider) Model() string { return p.cfg.Model }

const extractSnapshotsSystemPrompt = `Extract decision snapshots from the raw case study text below.
Return a JSON array. Each element has: case_study_id, source_id, inferred_time_window,
location_context, decision_context, uncertainties, risks_perceived, actions_considered,
action_taken_narrative. Return only the JSON array, no commentary.`

const advisorySystemPrompt = `You produce a short advisory paragraph summarizing patterns observed
in similar historical earthquake-response cases. Never state or imply that any past action
caused an outcome; describe only observed associations. Do not use imperative language.`

func (p *AnthropicProvider) ExtractSnapshots(ctx context.Context, rawText string) ([]SnapshotFields, []string) {
	var raw string
	err := p.callWithRetry(ctx, extractSnapshotsSystemPrompt, rawText, &raw)
	if err != nil {
		return nil, []string{fmt.Sprintf("llm call failed: %v", err)}
	}

	var parsed []snapshotWire
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		// ExternalProtocol (§7): malformed JSON from the LLM recovers to
		// an empty list with a diagnostic; no snapshot is stored.
		p.logger.WarnWithFields("malformed snapshot extraction JSON from provider",
			logging.Field("error", err.Error()))
		return nil, []string{"malformed JSON from LLM snapshot extraction"}
	}

	out := make([]SnapshotFields, 0, len(parsed))
	for _, w := range parsed {
		out = append(out, w.toFields())
	}
	return out, nil
}

func (p *AnthropicProvider) GenerateAdvisory(ctx context.Context, currentNarrative string, retrieved []SnapshotFields) (string, error) {
	prompt := currentNarrative + "\n\nRetrieved historical snapshots:\n"
	for _, s := range retrieved {
		prompt += "- " + s.NarrativeText() + "\n"
	}
	var out string
	if err := p.callWithRetry(ctx, advisorySystemPrompt, prompt, &out); err != nil {
		return "", fmt.Errorf("llm: generate advisory: %w", err)
	}
	return out, nil
}

// callWithRetry invokes the model and writes the text content of the
// first response block into dst. Retries live only here, at the external
// boundary.
func (p *AnthropicProvider) callWithRetry(ctx context.Context, systemPrompt, userContent string, dst *string) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)

	op := func() error {
		msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(p.cfg.Model),
			MaxTokens:   int64(p.cfg.MaxTokens),
			Temperature: anthropic.Float(p.cfg.Temperature),
			System:   []anthropic.TextBlockParam{{Text: systemPrompt}},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(userContent)),
			},
		})
		if err != nil {
			return err
		}
		if len(msg.Content) == 0 {
			return backoff.Permanent(fmt.Errorf("llm: empty response content"))
		}
		*dst = msg.Content[0].Text
		return nil
	}

	start := time.Now()
	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("after retries (elapsed %s): %w", time.Since(start), err)
	}
	return nil
}

// snapshotWire is the JSON shape requested from the model in
// extractSnapshotsSystemPrompt.
type snapshotWire struct {
	CaseStudyID          string   `json:"case_study_id"`
	SourceID             string   `json:"source_id"`
	InferredTimeWindow   string   `json:"inferred_time_window"`
	LocationContext      string   `json:"location_context"`
	DecisionContext      string   `json:"decision_context"`
	Uncertainties        []string `json:"uncertainties"`
	RisksPerceived       []string `json:"risks_perceived"`
	ActionsConsidered    []string `json:"actions_considered"`
	ActionTakenNarrative string   `json:"action_taken_narrative"`
}

func (w snapshotWire) toFields() SnapshotFields {
	return SnapshotFields{
		CaseStudyID:          w.CaseStudyID,
		SourceID:             w.SourceID,
		InferredTimeWindow:   w.InferredTimeWindow,
		LocationContext:      w.LocationContext,
		DecisionContext:      w.DecisionContext,
		Uncertainties:        w.Uncertainties,
		RisksPerceived:       w.RisksPerceived,
		ActionsConsidered:    w.ActionsConsidered,
		ActionTakenNarrative: w.ActionTakenNarrative,
	}
}
