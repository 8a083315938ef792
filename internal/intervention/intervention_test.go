package intervention

import (
	"testing"

	"github.com/quakecase/engine/internal/similarity"
	"github.com/quakecase/engine/internal/situation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitWithEvacuation(evacuated bool, casualties float64) similarity.Result {
	actions := situation.ActionsTaken{}
	if evacuated {
		actions.EvacuationStatus = situation.NewString("completed", "t", situation.ConfidenceMedium)
	} else {
		actions.EvacuationStatus = situation.NewString("none", "t", situation.ConfidenceMedium)
	}
	outcomes := situation.Outcomes{Casualties: situation.NewNumeric(casualties, "t", situation.ConfidenceMedium)}
	return similarity.Result{
		Score: 0.9,
		Unit: situation.ExperienceUnit{
			Situation:          situation.EarthquakeSituation{ActionsTaken: actions},
			SubsequentOutcomes: &outcomes,
		},
	}
}

// TestInterventionIdentified is scenario S4: 3 units with evacuation and
// casualties=10, 3 without and casualties=100; evacuation should surface
// with ~90% lower casualties and support 3.
func TestInterventionIdentified(t *testing.T) {
	cohort := []similarity.Result{
		unitWithEvacuation(true, 10), unitWithEvacuation(true, 10), unitWithEvacuation(true, 10),
		unitWithEvacuation(false, 100), unitWithEvacuation(false, 100), unitWithEvacuation(false, 100),
	}

	recs := Recommend(situation.T1EarlyResponse, cohort)
	require.NotEmpty(t, recs)
	top := recs[0]
	assert.Equal(t, "evacuation", top.ActionName)
	assert.Contains(t, top.ComparativeEffect, "90%")
	assert.Equal(t, 3, top.SupportingExperienceCount)
	assert.False(t, ContainsCausalLanguage(top.ComparativeEffect))
}

func TestNoRecommendationWhenOutcomeMissing(t *testing.T) {
	actionsWith := situation.ActionsTaken{EvacuationStatus: situation.NewString("completed", "t", situation.ConfidenceMedium)}
	actionsWithout := situation.ActionsTaken{EvacuationStatus: situation.NewString("none", "t", situation.ConfidenceMedium)}
	cohort := []similarity.Result{
		{Unit: situation.ExperienceUnit{Situation: situation.EarthquakeSituation{ActionsTaken: actionsWith}}},
		{Unit: situation.ExperienceUnit{Situation: situation.EarthquakeSituation{ActionsTaken: actionsWithout}}},
	}
	recs := Recommend(situation.T1EarlyResponse, cohort)
	assert.Empty(t, recs)
}
