package situation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	s := EarthquakeSituation{
		EventIdentity: EventIdentity{
			EventID:   NewString("e1", "case_report", ConfidenceMedium),
			Magnitude: NewNumeric(7.2, "case_report", ConfidenceMedium),
			Phase:     T1EarlyResponse,
		},
		SpatialContext: SpatialContext{
			RegionType:       NewString("urban", "case_report", ConfidenceMedium),
			SecondaryHazards: NewStringList([]string{"landslide"}, "case_report", ConfidenceMedium),
		},
		BuiltEnvironment: BuiltEnvironment{
			DominantBuildingTypes: NewStringList([]string{"masonry", "reinforced_concrete"}, "case_report", ConfidenceMedium),
		},
	}

	roundTripped := FromMap(s.ToMap())

	assert.Equal(t, s.EventIdentity.EventID, roundTripped.EventIdentity.EventID)
	assert.Equal(t, s.EventIdentity.Magnitude, roundTripped.EventIdentity.Magnitude)
	assert.Equal(t, s.EventIdentity.Phase, roundTripped.EventIdentity.Phase)
	assert.Equal(t, s.SpatialContext.RegionType, roundTripped.SpatialContext.RegionType)
	assert.Equal(t, s.SpatialContext.SecondaryHazards, roundTripped.SpatialContext.SecondaryHazards)
	assert.Equal(t, s.BuiltEnvironment.DominantBuildingTypes, roundTripped.BuiltEnvironment.DominantBuildingTypes)

	// Missing sub-aggregates default rather than error.
	empty := FromMap(nil)
	assert.False(t, empty.EventIdentity.EventID.Present)
	assert.False(t, empty.Outcomes.Casualties.Present)
}

// TestNumericConfidenceRoundTrip locks in that a source reporting a
// numeric confidence (e.g. "confidence": 0.95, as USGS readings do in the
// canonical state model) survives ToMap/FromMap rather than being
// silently discarded into an empty ordinal label.
func TestNumericConfidenceRoundTrip(t *testing.T) {
	s := EarthquakeSituation{
		EventIdentity: EventIdentity{
			Magnitude: NewNumericWithConfidence(7.8, "USGS", NumericConf(0.95)),
			Phase:     T0Impact,
		},
	}

	roundTripped := FromMap(s.ToMap())

	require.True(t, roundTripped.EventIdentity.Magnitude.Present)
	assert.True(t, roundTripped.EventIdentity.Magnitude.Confidence.IsNumeric)
	assert.Equal(t, 0.95, roundTripped.EventIdentity.Magnitude.Confidence.Numeric)
}

// TestOrdinalAndNumericConfidenceCoexist mirrors check_step1.py, where a
// numeric magnitude confidence (0.95) and an ordinal construction-quality
// assessment ("medium") are both exercised on the same situation.
func TestOrdinalAndNumericConfidenceCoexist(t *testing.T) {
	s := EarthquakeSituation{
		EventIdentity: EventIdentity{
			Magnitude: NewNumericWithConfidence(7.8, "USGS", NumericConf(0.95)),
			Phase:     T0Impact,
		},
		BuiltEnvironment: BuiltEnvironment{
			ConstructionQuality: NewString("poor", "drone_footage", ConfidenceMedium),
		},
	}

	roundTripped := FromMap(s.ToMap())

	assert.True(t, roundTripped.EventIdentity.Magnitude.Confidence.IsNumeric)
	assert.False(t, roundTripped.BuiltEnvironment.ConstructionQuality.Confidence.IsNumeric)
	assert.Equal(t, ConfidenceMedium, roundTripped.BuiltEnvironment.ConstructionQuality.Confidence.Ordinal)
}

func TestActionPresence(t *testing.T) {
	a := ActionsTaken{
		RescueOperations: NewString("none", "case_report", ConfidenceMedium),
		EvacuationStatus: NewString("completed", "case_report", ConfidenceMedium),
	}
	require.False(t, a.HasRescue())
	require.True(t, a.HasEvacuation())
	require.False(t, a.HasMedical())
}
