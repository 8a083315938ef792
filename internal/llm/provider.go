// Package llm implements the pluggable LLM interface (C10): narrative
// snapshot extraction from raw text, and advisory-paragraph generation
// from a current narrative plus retrieved snapshots. Shape follows the
// teacher's internal/agent/provider.Provider abstraction.
package llm

import "context"

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Config carries common per-call generation settings.
type Config struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// DefaultConfig mirrors the teacher's deterministic-by-default posture —
// temperature 0.0, since the system must never introduce unexplainable
// variance into an advisory.
func DefaultConfig() Config {
	return Config{Model: "claude-sonnet-4-5-20250929", MaxTokens: 2048, Temperature: 0.0}
}

// Provider is the two-call LLM contract named in spec §6.
type Provider interface {
	// ExtractSnapshots parses raw case-study text into zero or more
	// DecisionSnapshot-shaped objects. Malformed model output is an
	// ExternalProtocol failure: the caller gets an empty slice and a
	// diagnostic, never an error that aborts ingestion (§7).
	ExtractSnapshots(ctx context.Context, rawText string) ([]SnapshotFields, []string)

	// GenerateAdvisory produces a plain-text paragraph from the current
	// narrative and retrieved historical snapshots. Must never claim
	// causality.
	GenerateAdvisory(ctx context.Context, currentNarrative string, retrieved []SnapshotFields) (string, error)

	Name() string
	Model() string
}

// SnapshotFields are the ten narrative fields of a DecisionSnapshot
// (spec §3), as extracted by the LLM from raw text.
type SnapshotFields struct {
	SnapshotID          string
	CaseStudyID         string
	SourceID            string
	InferredTimeWindow  string
	LocationContext     string
	DecisionContext     string
	Uncertainties       []string
	RisksPerceived      []string
	ActionsConsidered   []string
	ActionTakenNarrative string
}

// NarrativeText is the derived view of a snapshot used as embedding input.
func (s SnapshotFields) NarrativeText() string {
	text := s.LocationContext + " " + s.DecisionContext + " " + s.ActionTakenNarrative
	for _, u := range s.Uncertainties {
		text += " " + u
	}
	for _, r := range s.RisksPerceived {
		text += " " + r
	}
	return text
}
