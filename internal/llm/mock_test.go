package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProviderExtractSnapshots(t *testing.T) {
	p := NewMockProvider()
	snaps, warnings := p.ExtractSnapshots(context.Background(), "a 7.0 earthquake struck the city")
	require.Empty(t, warnings)
	require.Len(t, snaps, 1)
	assert.Equal(t, "manual_input", snaps[0].SourceID)
}

func TestMockProviderAdvisoryNeverCausal(t *testing.T) {
	p := NewMockProvider()
	advisory, err := p.GenerateAdvisory(context.Background(), "narrative", []SnapshotFields{{DecisionContext: "evacuated early"}})
	require.NoError(t, err)
	assert.NotContains(t, advisory, "caused")
}
