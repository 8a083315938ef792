package ingest

import (
	"testing"

	"github.com/quakecase/engine/internal/situation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPhaseLeakagePrevention is scenario S1 from the specification: given
// identity, damage, actions, and outcomes, T0 must not carry medical or
// casualties, T1 must carry rescue but not medical or casualties, and T3
// must carry the final casualty figure.
func TestPhaseLeakagePrevention(t *testing.T) {
	raw := map[string]any{
		"identity": map[string]any{"event_id": "e1", "magnitude": 9.0},
		"damage":   map[string]any{"building_collapse": "severe"},
		"actions":  map[string]any{"rescue": "deployed", "medical": "triage"},
		"outcomes": map[string]any{"casualties": 15000.0, "economic_loss": "catastrophic"},
	}

	slices, warnings := New().Ingest(raw)
	require.Empty(t, warnings)
	require.Len(t, slices, 4)

	t0 := slices[0]
	assert.False(t, t0.Situation.ActionsTaken.RescueOperations.Present)
	assert.False(t, t0.Situation.ActionsTaken.MedicalDeployment.Present)
	assert.False(t, t0.Situation.Outcomes.Casualties.Present)

	t1 := slices[1]
	assert.True(t, t1.Situation.ActionsTaken.RescueOperations.Present)
	assert.Equal(t, "deployed", t1.Situation.ActionsTaken.RescueOperations.Value)
	assert.False(t, t1.Situation.ActionsTaken.MedicalDeployment.Present)
	assert.False(t, t1.Situation.Outcomes.Casualties.Present)

	t3 := slices[3]
	assert.True(t, t3.Situation.Outcomes.Casualties.Present)
	assert.Equal(t, 15000.0, t3.Situation.Outcomes.Casualties.Value)
}

func TestMalformedFieldDropsWithWarning(t *testing.T) {
	raw := map[string]any{
		"identity": map[string]any{"event_id": "e1", "magnitude": "not-a-number"},
	}
	slices, warnings := New().Ingest(raw)
	require.Len(t, slices, 1, "only T0 has data: no actions or outcomes block present")
	require.NotEmpty(t, warnings)
	assert.False(t, slices[0].Situation.EventIdentity.Magnitude.Present)
}

func TestEmptyInputYieldsEmptySliceList(t *testing.T) {
	slices, warnings := New().Ingest(map[string]any{})
	require.Empty(t, warnings)
	require.Empty(t, slices)
}

func TestPhasesGatedOnActualPresence(t *testing.T) {
	raw := map[string]any{
		"identity": map[string]any{"event_id": "e1", "magnitude": 7.0},
		"actions":  map[string]any{"rescue": "deployed"},
	}
	slices, warnings := New().Ingest(raw)
	require.Empty(t, warnings)
	require.Len(t, slices, 2, "T0 (identity) and T1 (rescue) present; no medical/logistics for T2, no outcomes for T3")
	assert.Equal(t, situation.T0Impact, slices[0].Phase)
	assert.Equal(t, situation.T1EarlyResponse, slices[1].Phase)
}
