package llm

import (
	"context"
	"strconv"
)

// MockProvider returns canned, deterministic output — used when
// TEXT_LLM_PROVIDER=mock or MOCK_MODE=true, grounded on the original
// source's MockLLMClient.
type MockProvider struct{}

func NewMockProvider() *MockProvider { return &MockProvider{} }

func (m *MockProvider) Name() string  { return "mock" }
func (m *MockProvider) Model() string { return "mock-model" }

func (m *MockProvider) ExtractSnapshots(_ context.Context, rawText string) ([]SnapshotFields, []string) {
	if rawText == "" {
		return nil, nil
	}
	return []SnapshotFields{{
		CaseStudyID:     "mock-case",
		SourceID:        "manual_input",
		DecisionContext: rawText,
	}}, nil
}

func (m *MockProvider) GenerateAdvisory(_ context.Context, currentNarrative string, retrieved []SnapshotFields) (string, error) {
	if len(retrieved) == 0 {
		return "No closely analogous historical cases were found for this situation.", nil
	}
	return "Based on " + strconv.Itoa(len(retrieved)) + " similar historical cases, response patterns observed in comparable situations are summarized in the sections above.", nil
}
